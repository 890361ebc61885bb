package config

import "github.com/gear6io/tableserve/pkg/errors"

// Config-specific error codes
var (
	ErrConfigFileReadFailed    = errors.MustNewCode("config.file_read_failed")
	ErrConfigFileParseFailed   = errors.MustNewCode("config.file_parse_failed")
	ErrConfigValidationFailed  = errors.MustNewCode("config.validation_failed")
	ErrConfigFileMarshalFailed = errors.MustNewCode("config.file_marshal_failed")
	ErrConfigFileWriteFailed   = errors.MustNewCode("config.file_write_failed")
	ErrInvalidPort             = errors.MustNewCode("config.invalid_port")
	ErrDatabaseHostRequired    = errors.MustNewCode("config.database_host_required")
	ErrDatabaseNameRequired    = errors.MustNewCode("config.database_name_required")
	ErrDatabaseUserRequired    = errors.MustNewCode("config.database_user_required")
	ErrInvalidTableName        = errors.MustNewCode("config.invalid_table_name")
	ErrInvalidQueryTimeout     = errors.MustNewCode("config.invalid_query_timeout")

	// Logging-specific error codes
	ErrLogDirectoryCreationFailed = errors.MustNewCode("config.log_directory_creation_failed")
	ErrLogFileOpenFailed          = errors.MustNewCode("config.log_file_open_failed")
	ErrLogRotationFailed          = errors.MustNewCode("config.log_rotation_failed")
	ErrLogBackupCleanupFailed     = errors.MustNewCode("config.log_backup_cleanup_failed")
)
