// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting error strings. For example, ErrSessionAlreadyOpen signals
// that a wearing session cannot be started while another one is still
// open for the same bracelet.
package repository

import "errors"

// ErrSessionAlreadyOpen is returned when a wearing session is started
// for a bracelet that already has an open session. Handlers should
// translate this into an HTTP 409 response.
var ErrSessionAlreadyOpen = errors.New("wearing session already open")

// ErrEmailExists is returned when a user registration collides with an
// existing account. Handlers should translate this into an HTTP 409
// response.
var ErrEmailExists = errors.New("email already exists")
