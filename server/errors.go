package server

import "github.com/gear6io/tableserve/pkg/errors"

// Server-specific error codes
var (
	ErrAlreadyStarted = errors.MustNewCode("server.already_started")
)
