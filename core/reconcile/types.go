package reconcile

import "errors"

// Kind identifies which variant a snapshot record decoded into.
type Kind string

const (
	// KindUnknown is a record that matched no known shape.
	KindUnknown Kind = "_unknownType"
	// KindPlayer is a per-user record.
	KindPlayer Kind = "_playerType"
	// KindWorld is a world setting key/value record.
	KindWorld Kind = "_worldType"
	// KindSupportingData is the auxiliary context record.
	KindSupportingData Kind = SupportingDataType
)

// SupportingDataType is the explicit tag carried by supporting-data records.
const SupportingDataType = "_supportingDataType"

// Scope is where a setting is persisted.
type Scope string

const (
	// ScopeWorld settings are stored in the world and need a privileged actor to change.
	ScopeWorld Scope = "world"
	// ScopeClient settings are stored locally and written directly.
	ScopeClient Scope = "client"
)

// ActionType represents the type of document change dispatched to the host.
type ActionType string

const (
	// ActionCreate creates documents that do not exist yet.
	ActionCreate ActionType = "create"
	// ActionUpdate updates existing documents.
	ActionUpdate ActionType = "update"
)

// SettingData is the payload of one setting document.
type SettingData struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DocumentChange is one batched, privileged change request.
type DocumentChange struct {
	// Type is the document type, always "Setting" for world settings.
	Type string `json:"type"`

	// Action is create or update.
	Action ActionType `json:"action"`

	// Settings holds every document in the batch.
	Settings []SettingData `json:"data"`
}

// SettingDocumentType is the document type used for world setting changes.
const SettingDocumentType = "Setting"

// User is the live state of a destination user account.
type User struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Avatar      string         `json:"avatar"`
	Color       string         `json:"color"`
	Role        int            `json:"role"`
	Permissions map[string]any `json:"permissions"`
	Flags       map[string]any `json:"flags"`
}

// UserUpdate is a partial update for one user.
type UserUpdate struct {
	// Fields holds core attributes keyed by field name (color, role, permissions).
	Fields map[string]any `json:"fields,omitempty"`

	// Flags holds flag values to merge into the user's flags.
	Flags map[string]any `json:"flags,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u UserUpdate) IsEmpty() bool {
	return len(u.Fields) == 0 && len(u.Flags) == 0
}

// Folder is a live folder document.
type Folder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID string `json:"parent_id,omitempty"`
}

// Options controls how differences are computed and displayed.
type Options struct {
	// DiffLength bounds the display strings of each difference.
	// Zero or negative disables truncation.
	DiffLength int
}

// Stage names the session step a diagnostic was produced in.
type Stage string

const (
	StageParse  Stage = "parse"
	StageCommit Stage = "commit"
)

// Diagnostic describes a per-record or per-key problem that was skipped.
type Diagnostic struct {
	Stage   Stage  `json:"stage"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func newDiagnostic(stage Stage, subject, message string, err error) Diagnostic {
	d := Diagnostic{Stage: stage, Subject: subject, Message: message}
	if err != nil {
		d.Error = err.Error()
	}
	return d
}

var (
	// ErrNotRegistered is returned by hosts when a setting has no registration,
	// usually because its module is not active.
	ErrNotRegistered = errors.New("setting is not registered")

	// ErrInvalidDocument is returned when a snapshot cannot be parsed at all.
	ErrInvalidDocument = errors.New("invalid snapshot document")

	// ErrUnknownRecord is returned when a record matches no known shape.
	ErrUnknownRecord = errors.New("unknown record")

	// ErrNotPrivileged is returned by hosts when a privileged change is attempted by a regular user.
	ErrNotPrivileged = errors.New("current user is not privileged")

	// ErrUnknownField is returned when toggling a selection key the session does not know.
	ErrUnknownField = errors.New("unknown field")
)
