package database

import "github.com/gear6io/tableserve/pkg/errors"

// Database-specific error codes
var (
	ErrOpenFailed  = errors.MustNewCode("database.open_failed")
	ErrUnreachable = errors.MustNewCode("database.unreachable")
	ErrQueryFailed = errors.MustNewCode("database.query_failed")
	ErrScanFailed  = errors.MustNewCode("database.scan_failed")
)
