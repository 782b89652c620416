// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios. For example,
// ErrEmailExists indicates a signup hit the unique email index, while
// ErrDiveNotFound signals that a referenced dive record does not exist.
package repository

import "errors"

// ErrEmailExists is returned when an insert collides with the unique email
// index on the users table. Handlers should translate this into an HTTP
// 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrDiveNotFound is returned when an operation references a dive ID that
// does not exist. Handlers should translate this into an HTTP 404 response.
var ErrDiveNotFound = errors.New("dive not found")
