package web

import "github.com/gear6io/tableserve/pkg/errors"

// Web-specific error codes
var (
	ErrListenFailed   = errors.MustNewCode("web.listen_failed")
	ErrShutdownFailed = errors.MustNewCode("web.shutdown_failed")
)
