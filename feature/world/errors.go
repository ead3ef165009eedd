package world

import "errors"

var (
	// ErrUserNotFound is returned when a user id does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrFolderNotFound is returned when a folder id does not exist.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrUnsupportedAction is returned for document changes that are neither create nor update.
	ErrUnsupportedAction = errors.New("unsupported document action")

	// ErrUnsupportedField is returned for user updates touching an unknown field.
	ErrUnsupportedField = errors.New("unsupported user field")
)

// User roles.
const (
	RoleNone = iota
	RolePlayer
	RoleTrusted
	RoleAssistant
	RoleGamemaster
)
