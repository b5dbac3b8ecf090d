package domain

import "errors"

var (
	ErrNotFound             = errors.New("project not found")
	ErrEmptyMessage         = errors.New("message is empty")
	ErrGenerationInProgress = errors.New("a generation is already running for this project")
	ErrNoCode               = errors.New("project has no generated code yet")
)
