package environment

import "errors"

var (
	// ErrSessionNotFound is returned when an import session id is not the active one.
	ErrSessionNotFound = errors.New("import session not found")

	// ErrUnknownDocument is returned for export file names that do not exist.
	ErrUnknownDocument = errors.New("unknown export document")

	// ErrInvalidName is returned for archive names that are not plain file names.
	ErrInvalidName = errors.New("invalid snapshot name")

	// ErrArchiveDisabled is returned when no object storage is configured.
	ErrArchiveDisabled = errors.New("snapshot archive is not configured")
)
