// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates the write collides with an existing entity (e.g. a duplicate email).
var ErrConflict = errors.New("conflict: resource already exists")

// ErrValidation wraps input validation failures. The text after the prefix is safe to show clients.
var ErrValidation = errors.New("validation")
