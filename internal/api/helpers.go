package api

import (
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/http/response"
)

// Output wraps an enveloped response body for huma.
type Output[T any] struct {
	Body response.Envelope[T]
}

func ok[T any](message string, data T) *Output[T] {
	return &Output[T]{Body: response.OK(message, data)}
}

// Empty is the payload of responses that only carry a message.
type Empty struct{}

// MessageOutput is a success envelope with a null payload.
type MessageOutput = Output[*Empty]

func done(message string) *MessageOutput {
	return ok[*Empty](message, nil)
}

// IDParam is a path parameter for resource ids.
type IDParam struct {
	ID string `path:"id" doc:"Resource identifier"`
}

// PageParam selects a page of a fixed-size listing.
type PageParam struct {
	Page int `query:"page" default:"1" minimum:"1" doc:"Page number, starting at 1"`
}
