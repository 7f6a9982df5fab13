package models

import (
	"errors"
	"fmt"
)

// ============================================================
// Errors
// ============================================================

var (
	ErrDecode          = errors.New("decode document")
	ErrMissingVertex   = errors.New("missing vertex reference")
	ErrMalformedFace   = errors.New("malformed face")
	ErrIndexOutOfRange = errors.New("vertex index out of range")
	ErrDuplicateName   = errors.New("duplicate name")
	ErrUnnamed         = errors.New("empty name")
	ErrNotFound        = errors.New("not found")
	ErrExists          = errors.New("already exists")
)

// MissingVertexError указывает, какая грань ссылается на несуществующую метку.
type MissingVertexError struct {
	Part  string
	Mesh  string
	Face  int
	Label string
}

func (e *MissingVertexError) Error() string {
	return fmt.Sprintf("%s: %s/%s face %d references %q", ErrMissingVertex, e.Part, e.Mesh, e.Face, e.Label)
}

func (e *MissingVertexError) Unwrap() error {
	return ErrMissingVertex
}
