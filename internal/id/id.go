// Package id generates and validates prefixed NanoID identifiers.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for each document kind.
const (
	PrefixUser            = "user"
	PrefixBlog            = "blog"
	PrefixCollection      = "coll"
	PrefixReadingListItem = "read"
	PrefixChat            = "chat"
)

const (
	nanoidLength   = 21
	nanoidAlphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Generate returns a new id of the form prefix-nanoid, e.g. "blog-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	suffix, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + suffix, nil
}

// MustGenerate is like Generate but panics when the system has no entropy.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Valid reports whether s is a well-formed id for prefix.
// A malformed id is a client error; a well-formed id that matches nothing is a miss.
func Valid(prefix, s string) bool {
	suffix, ok := strings.CutPrefix(s, prefix+"-")
	if !ok || len(suffix) != nanoidLength {
		return false
	}
	for _, r := range suffix {
		if !strings.ContainsRune(nanoidAlphabet, r) {
			return false
		}
	}
	return true
}
