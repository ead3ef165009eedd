package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Column is a live column of a table. Name and Type are lower case.
type Column struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
}

// mysqlColumn is one row of SHOW COLUMNS.
type mysqlColumn struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string
	Extra   string
}

// sqliteColumn is one row of PRAGMA table_info.
type sqliteColumn struct {
	Cid        int
	Name       string
	Type       string
	Notnull    int
	DefaultVal *string `gorm:"column:dflt_value"`
	Pk         int
}

// TableColumns returns the live columns of table keyed by name.
// A table that does not exist yields an empty map.
func TableColumns(db *gorm.DB, table string) (map[string]Column, error) {
	if strings.ContainsAny(table, "`'\"") {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	columns := make(map[string]Column)
	if db.Dialector.Name() == DriverSQLite {
		var rows []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", table)).Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
		}
		for _, r := range rows {
			c := Column{
				Name:       strings.ToLower(r.Name),
				Type:       strings.ToLower(r.Type),
				Nullable:   r.Notnull == 0,
				PrimaryKey: r.Pk > 0,
			}
			columns[c.Name] = c
		}
		return columns, nil
	}

	var rows []mysqlColumn
	if err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", table)).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}
	for _, r := range rows {
		c := Column{
			Name:       strings.ToLower(r.Field),
			Type:       strings.ToLower(r.Type),
			Nullable:   strings.EqualFold(r.Null, "YES"),
			PrimaryKey: r.Key == "PRI",
		}
		columns[c.Name] = c
	}
	return columns, nil
}
