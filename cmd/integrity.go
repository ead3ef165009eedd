package cmd

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"copy-environment/feature/environment"
	"copy-environment/feature/integrity"
	"copy-environment/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	integrityFix  bool
	integrityJSON bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the world database and the snapshot archive",
	Long:  `Checks that the world tables match the expected schema and that the snapshot archive location exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runSchemaCheck(cmd); err != nil {
			return err
		}
		return runStorageCheck(cmd)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check and fix the world tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchemaCheck(cmd)
	},
}

// storageCmd represents the integrity storage command
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix the snapshot archive location",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStorageCheck(cmd)
	},
}

func init() {
	integrityCmd.PersistentFlags().BoolVar(&integrityFix, "fix", false, "Automatically fix issues")
	integrityCmd.PersistentFlags().BoolVar(&integrityJSON, "json", false, "Print the report as JSON")

	integrityCmd.AddCommand(schemaCmd)
	integrityCmd.AddCommand(storageCmd)
	RootCmd.AddCommand(integrityCmd)
}

func newIntegrityService(a *app) *integrity.Service {
	_, client := a.archive()
	return integrity.NewService(client, a.cfg.Storage.Bucket, a.cfg.Storage.Region, a.cfg.World.SnapshotPrefix, a.logger, a.db)
}

func runSchemaCheck(cmd *cobra.Command) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	l := a.logger
	defer l.Sync()
	svc := newIntegrityService(a)

	start := time.Now()
	l.Info("Checking world schema...")
	report, err := svc.CheckSchema()
	if err != nil {
		return fmt.Errorf("schema check failed: %w", err)
	}

	if !report.Matched && integrityFix {
		l.Info("Fixing world schema...")
		if err := svc.FixSchema(cmd.Context()); err != nil {
			return fmt.Errorf("schema fix failed: %w", err)
		}
		if report, err = svc.CheckSchema(); err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
	}

	if integrityJSON {
		return printJSON(cmd, report)
	}

	tables := make([]string, 0, len(report.Tables))
	for name := range report.Tables {
		tables = append(tables, name)
	}
	sort.Strings(tables)

	for _, name := range tables {
		t := report.Tables[name]
		if t.Status == checks.StatusOK {
			l.Info("Table OK", zap.String("table", name))
			continue
		}
		l.Warn("Table mismatch",
			zap.String("table", name),
			zap.String("status", t.Status),
			zap.Strings("missing_columns", t.MissingColumns),
			zap.Strings("type_mismatches", t.TypeMismatches))
	}
	for _, e := range report.Errors {
		l.Error("Schema check error", zap.String("error", e))
	}

	if report.Matched {
		l.Info("World schema matches", zap.String("driver", report.Driver), zap.Duration("execution_time", time.Since(start)))
	} else {
		l.Warn("World schema does not match. Run with --fix to migrate.", zap.String("driver", report.Driver))
	}
	return nil
}

func runStorageCheck(cmd *cobra.Command) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	l := a.logger
	defer l.Sync()
	svc := newIntegrityService(a)

	l.Info("Checking snapshot archive...")
	report, err := svc.CheckStorage(cmd.Context())
	if errors.Is(err, integrity.ErrStorageDisabled) {
		l.Warn("Object storage is not configured, skipping archive check")
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage check failed: %w", err)
	}

	if !report.OK() && integrityFix {
		l.Info("Creating snapshot archive location...")
		if err := svc.FixStorage(cmd.Context()); err != nil {
			return fmt.Errorf("storage fix failed: %w", err)
		}
		if report, err = svc.CheckStorage(cmd.Context()); err != nil {
			return fmt.Errorf("storage check failed: %w", err)
		}
	}

	if integrityJSON {
		return printJSON(cmd, report)
	}

	if report.OK() {
		l.Info("Snapshot archive OK", zap.String("bucket", report.Bucket), zap.String("prefix", report.Prefix))
	} else {
		l.Warn("Snapshot archive incomplete. Run with --fix to create it.",
			zap.String("bucket", report.Bucket),
			zap.Bool("bucket_exists", report.BucketExists),
			zap.String("prefix", report.Prefix),
			zap.Bool("prefix_exists", report.PrefixExists))
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := environment.Encode(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
