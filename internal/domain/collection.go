package domain

import (
	"slices"
	"time"
)

// CollectionBook is one entry in a collection.
type CollectionBook struct {
	VolumeID string    `json:"volumeId"`
	AddedAt  time.Time `json:"addedAt"`
}

// Collection is a user-curated, ordered list of catalog volumes.
type Collection struct {
	Content
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Tags        []string         `json:"tags"`
	Books       []CollectionBook `json:"books"`
}

// AddBook appends volumeID. Returns false when it is already present.
func (c *Collection) AddBook(volumeID string) bool {
	if c.ContainsBook(volumeID) {
		return false
	}
	c.Books = append(c.Books, CollectionBook{VolumeID: volumeID, AddedAt: time.Now()})
	c.Touch()
	return true
}

// RemoveBook drops volumeID. Returns false when it was not present.
func (c *Collection) RemoveBook(volumeID string) bool {
	i := slices.IndexFunc(c.Books, func(b CollectionBook) bool { return b.VolumeID == volumeID })
	if i < 0 {
		return false
	}
	c.Books = slices.Delete(c.Books, i, i+1)
	c.Touch()
	return true
}

// ContainsBook reports whether volumeID is in the collection.
func (c *Collection) ContainsBook(volumeID string) bool {
	return slices.ContainsFunc(c.Books, func(b CollectionBook) bool { return b.VolumeID == volumeID })
}
