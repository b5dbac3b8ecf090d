package generation

import (
	"context"
	"errors"
)

const (
	RoleUser  = "user"
	RoleModel = "model"

	// Temperature is fixed for every call.
	Temperature float32 = 0.7

	// FailureMessage replaces the model output whenever a call fails.
	FailureMessage = "Error: Unable to generate code. Please try again later."
)

var ErrEmptyResponse = errors.New("empty response")

type Turn struct {
	Role string
	Text string
}

// Request is one "generate content" call against a hosted model.
type Request struct {
	SystemInstruction string
	Temperature       float32
	Turns             []Turn
}

// Generator performs a single remote call. Implementations must not retry.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
