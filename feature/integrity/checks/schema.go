package checks

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"copy-environment/core/database"

	"gorm.io/gorm"
)

// Table statuses.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusMissing = "missing"
)

// SchemaReport is the result of comparing the world database with its models.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport lists the problems of one table.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"`
}

type tabler interface {
	TableName() string
}

// CheckSchema compares every model's gorm column tags with the live table.
// A table that cannot be inspected is reported in Errors and does not abort the check.
func CheckSchema(db *gorm.DB, models []any) (*SchemaReport, error) {
	if db == nil {
		return nil, errors.New("database connection is nil")
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Matched: true,
		Tables:  make(map[string]TableReport, len(models)),
		Errors:  []string{},
	}

	for _, model := range models {
		t := reflect.TypeOf(model)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		tb, ok := reflect.New(t).Interface().(tabler)
		if !ok {
			return nil, fmt.Errorf("model %s does not implement TableName", t.Name())
		}
		table := tb.TableName()

		actual, err := database.TableColumns(db, table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}

		tr := checkTable(t, actual)
		if tr.Status != StatusOK {
			report.Matched = false
		}
		report.Tables[table] = tr
	}

	return report, nil
}

func checkTable(t reflect.Type, columns map[string]database.Column) TableReport {
	tr := TableReport{MissingColumns: []string{}, TypeMismatches: []string{}, Status: StatusOK}
	if len(columns) == 0 {
		tr.Status = StatusMissing
	}

	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("gorm")
		name := parseGormColumn(tag)
		if name == "" {
			continue
		}

		col, ok := columns[name]
		if !ok {
			tr.MissingColumns = append(tr.MissingColumns, name)
			if tr.Status == StatusOK {
				tr.Status = StatusError
			}
			continue
		}

		expected := strings.ToLower(parseGormType(tag))
		if expected == "" {
			continue
		}
		// text columns may be widened to mediumtext/longtext.
		if !strings.Contains(col.Type, expected) {
			tr.TypeMismatches = append(tr.TypeMismatches,
				fmt.Sprintf("%s: expected %s, got %s", name, expected, col.Type))
			tr.Status = StatusError
		}
	}
	return tr
}

func parseGormColumn(tag string) string {
	return tagValue(tag, "column:")
}

func parseGormType(tag string) string {
	return tagValue(tag, "type:")
}

func tagValue(tag, prefix string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, prefix) {
			return strings.TrimPrefix(p, prefix)
		}
	}
	return ""
}
