package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrUnknownVersion = errors.New("unknown project version")
	ErrInvalidUpload  = errors.New("invalid upload")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNoVersions     = errors.New("project has no uploaded versions")
)
