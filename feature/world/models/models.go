package models

// Setting is a stored world setting value.
type Setting struct {
	Key   string `gorm:"primaryKey;column:setting_key;type:varchar(255)"`
	Value string `gorm:"column:value;type:text"`
}

func (Setting) TableName() string {
	return "settings"
}

// SettingConfig is the registration of a setting by the core or a module.
type SettingConfig struct {
	Key          string `gorm:"primaryKey;column:setting_key;type:varchar(255)"`
	Namespace    string `gorm:"column:namespace;type:varchar(100);index"`
	Name         string `gorm:"column:name;type:varchar(155)"`
	Scope        string `gorm:"column:scope;type:varchar(16);default:world"`
	DefaultValue string `gorm:"column:default_value;type:text"`
}

func (SettingConfig) TableName() string {
	return "setting_configs"
}

// User is a user account of the world.
type User struct {
	ID          string `gorm:"primaryKey;column:id;type:varchar(16)"`
	Name        string `gorm:"column:name;type:varchar(255);index"`
	Avatar      string `gorm:"column:avatar;type:varchar(255)"`
	Color       string `gorm:"column:color;type:varchar(16)"`
	Role        int    `gorm:"column:role;default:1"`
	Permissions string `gorm:"column:permissions;type:text"` // JSON object
	Flags       string `gorm:"column:flags;type:text"`       // JSON object
}

func (User) TableName() string {
	return "users"
}

// Folder is a folder document.
type Folder struct {
	ID       string  `gorm:"primaryKey;column:id;type:varchar(16)"`
	Name     string  `gorm:"column:name;type:varchar(255)"`
	Type     string  `gorm:"column:type;type:varchar(32);index"`
	ParentID *string `gorm:"column:parent_id;type:varchar(16)"` // Nullable
}

func (Folder) TableName() string {
	return "folders"
}

// Package is an installed core, system or module package.
type Package struct {
	ID       string `gorm:"primaryKey;column:id;type:varchar(255)"`
	Type     string `gorm:"column:type;type:varchar(16);index"`
	Title    string `gorm:"column:title;type:varchar(255)"`
	Version  string `gorm:"column:version;type:varchar(64)"`
	Author   string `gorm:"column:author;type:varchar(255)"`
	Manifest string `gorm:"column:manifest;type:varchar(1024)"`
	Active   bool   `gorm:"column:active;default:0"`
}

func (Package) TableName() string {
	return "packages"
}

// Package types.
const (
	PackageCore   = "core"
	PackageSystem = "system"
	PackageModule = "module"
)

// All returns every world model, in migration order.
func All() []any {
	return []any{&Setting{}, &SettingConfig{}, &User{}, &Folder{}, &Package{}}
}
