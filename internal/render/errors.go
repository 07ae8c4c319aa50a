package render

import "errors"

var (
	// ErrCompile indicates a shader stage failed to compile.
	ErrCompile = errors.New("render: shader compile failed")

	// ErrLink indicates the pipeline failed to link.
	ErrLink = errors.New("render: program link failed")

	// ErrNotReady indicates a draw was attempted before a successful setup.
	ErrNotReady = errors.New("render: pipeline not ready")
)
