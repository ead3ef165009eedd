package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"copy-environment/feature/environment"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportOut    string
	exportUpload bool
	summaryJSON  bool
)

var exportFiles = map[string]string{
	"settings": environment.SettingsFile,
	"players":  environment.PlayersFile,
	"snapshot": environment.SnapshotFile,
	"summary":  environment.SummaryFile,
}

// exportCmd writes one export document of the world.
var exportCmd = &cobra.Command{
	Use:       "export [settings|players|snapshot|summary]",
	Short:     "Export the world environment to a file",
	ValidArgs: []string{"settings", "players", "snapshot", "summary"},
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	Long: `Export non-default world settings, players or a full snapshot.

Examples:
  # Full snapshot (settings, players and compendium folders)
  export

  # Player settings only, written to ./out
  export players --out out

  # Full snapshot, also archived in object storage
  export snapshot --upload`,
	RunE: runExport,
}

// summaryCmd prints the environment summary.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the core version, system and active modules",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		e, err := environment.BuildExport(cmd.Context(), a.store)
		if err != nil {
			return err
		}

		if summaryJSON {
			return printJSON(cmd, e.Summary)
		}
		fmt.Fprintln(cmd.OutOrStdout(), e.Summary.Text())
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "Output directory")
	exportCmd.Flags().BoolVar(&exportUpload, "upload", false, "Also archive the snapshot in object storage")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "Print JSON instead of text")

	RootCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(summaryCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	kind := "snapshot"
	if len(args) == 1 {
		kind = args[0]
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	e, err := environment.BuildExport(ctx, a.store)
	if err != nil {
		return err
	}

	file := exportFiles[kind]
	doc, err := e.Document(file)
	if err != nil {
		return err
	}
	data, err := environment.Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", file, err)
	}

	if err := os.MkdirAll(exportOut, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", exportOut, err)
	}
	path := filepath.Join(exportOut, file)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	a.logger.Info("Export written",
		zap.String("path", path),
		zap.Int("settings", len(e.Settings)),
		zap.Int("players", len(e.Players)))

	if exportUpload {
		archive, _ := a.archive()
		snapshot, err := environment.Encode(e.Snapshot())
		if err != nil {
			return err
		}
		name := environment.SnapshotName(e.Built)
		if err := archive.Put(ctx, name, snapshot); err != nil {
			return err
		}
		a.logger.Info("Snapshot archived", zap.String("name", name), zap.String("bucket", a.cfg.Storage.Bucket))
	}
	return nil
}
