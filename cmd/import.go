package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"copy-environment/core/reconcile"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importYes         bool
	importDryRun      bool
	importFromArchive string
)

// importCmd applies a snapshot to the world.
var importCmd = &cobra.Command{
	Use:   "import [snapshot.json]",
	Short: "Compare a snapshot with the world and apply the selected differences",
	Long: `Import a snapshot exported from another world.

Every world setting and player attribute that differs is listed. Differences
are grouped by module, then by player, and can be picked interactively. The
previous selection of this world is remembered.

Examples:
  # Review and pick differences interactively
  import foundry-environment-snapshot.json

  # Show differences only
  import foundry-environment-snapshot.json --dry-run

  # Apply the remembered selection without prompting
  import foundry-environment-snapshot.json --yes

  # Import an archived snapshot
  import --from-archive snapshot-20240309-140507.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importYes, "yes", false, "Apply the selected differences without prompting (non-interactive)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Only report differences, never apply")
	importCmd.Flags().StringVar(&importFromArchive, "from-archive", "", "Name of an archived snapshot to import")

	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if len(args) == 0 && importFromArchive == "" {
		return errors.New("a snapshot file or --from-archive is required")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	l := a.logger
	defer l.Sync()

	var data []byte
	if importFromArchive != "" {
		archive, _ := a.archive()
		data, err = archive.Get(ctx, importFromArchive)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	selection, err := reconcile.LoadSelection(ctx, a.store)
	if err != nil {
		return err
	}
	session := reconcile.NewSession(a.store, selection, l, a.options())
	if err := session.Load(ctx, data); err != nil {
		return err
	}

	printImportReport(l, session.View())

	if !session.HasChanges() {
		l.Info("The world already matches the snapshot.")
		return nil
	}
	if importDryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	if !importYes {
		confirmed, err := promptSelection(ctx, session)
		if err != nil {
			return err
		}
		if !confirmed {
			l.Warn("Import cancelled by user. No changes were made.")
			return nil
		}
	}

	l.Info("Applying selected differences...")
	result, err := session.Commit(ctx)
	if result != nil {
		printCommitResult(l, result)
	}
	if err != nil {
		return fmt.Errorf("failed to apply snapshot: %w", err)
	}
	return nil
}

// printImportReport logs every difference of the session.
func printImportReport(l *zap.Logger, v reconcile.View) {
	l.Info("Import report",
		zap.Int("groups", len(v.Groups)),
		zap.Int("players", len(v.Players)),
		zap.Int("players_not_found", len(v.MissingPlayers)),
		zap.Int("players_unchanged", len(v.UnchangedPlayers)),
		zap.Int("diagnostics", len(v.Diagnostics)),
	)

	for _, g := range v.Groups {
		for _, f := range g.Fields {
			l.Info("Setting differs",
				zap.String("key", f.Key),
				zap.String("current", f.Difference.OldDisplay),
				zap.String("snapshot", f.Difference.NewDisplay),
				zap.Bool("selected", f.Selected))
		}
	}
	for _, p := range v.Players {
		for _, f := range p.Fields {
			l.Info("Player differs",
				zap.String("player", p.Name),
				zap.String("field", f.Name),
				zap.String("current", f.Difference.OldDisplay),
				zap.String("snapshot", f.Difference.NewDisplay),
				zap.Bool("selected", f.Selected))
		}
	}
	for _, p := range v.MissingPlayers {
		l.Warn("Player not found in this world", zap.String("player", p.Name))
	}
}

func printCommitResult(l *zap.Logger, r *reconcile.CommitResult) {
	l.Info("Import result",
		zap.Strings("updated", r.Updated),
		zap.Strings("created", r.Created),
		zap.Strings("local", r.Local),
		zap.Strings("players", r.Players),
	)
	for _, s := range r.Skipped {
		l.Warn("Skipped", zap.String("key", s.Key), zap.String("reason", s.Reason))
	}
	for _, f := range r.Failed {
		l.Error("Batch failed", zap.String("action", f.Action), zap.Strings("keys", f.Keys), zap.String("error", f.Error))
	}
	if r.ReloadRequired {
		l.Info("Reload the world for the changes to take effect.")
	}
}

// pickerOption is one entry of the selection picker.
type pickerOption struct {
	Label    string
	Key      string
	Selected bool
}

// pickerSection is one multi-select of the selection picker.
type pickerSection struct {
	Title   string
	Options []pickerOption
}

// pickerSections lists one section per module and per changed player, then one
// section with the players missing from this world, keyed by player name.
func pickerSections(v reconcile.View) []pickerSection {
	var sections []pickerSection
	diff := func(title string, fs []reconcile.FieldView) {
		s := pickerSection{Title: title}
		for _, f := range fs {
			label := fmt.Sprintf("%s: %s → %s", f.Name, f.Difference.OldDisplay, f.Difference.NewDisplay)
			s.Options = append(s.Options, pickerOption{Label: label, Key: f.Key, Selected: f.Selected})
		}
		sections = append(sections, s)
	}

	for _, g := range v.Groups {
		diff(fmt.Sprintf("Module %s", g.Name), g.Fields)
	}
	for _, p := range v.Players {
		diff(fmt.Sprintf("Player %s", p.Name), p.Fields)
	}

	if len(v.MissingPlayers) != 0 {
		s := pickerSection{Title: "Players not found (reported as skipped)"}
		for _, p := range v.MissingPlayers {
			for _, f := range p.Fields {
				s.Options = append(s.Options, pickerOption{Label: p.Name, Key: f.Key, Selected: f.Selected})
			}
		}
		sections = append(sections, s)
	}
	return sections
}

// promptSelection lets the user pick differences per module and per player,
// then asks for confirmation.
func promptSelection(ctx context.Context, session *reconcile.Session) (bool, error) {
	sections := pickerSections(session.View())

	groups := make([]*huh.Group, 0, len(sections))
	picked := make([]*[]string, 0, len(sections))
	for _, sec := range sections {
		selected := make([]string, 0, len(sec.Options))
		options := make([]huh.Option[string], 0, len(sec.Options))
		for _, o := range sec.Options {
			options = append(options, huh.NewOption(o.Label, o.Key).Selected(o.Selected))
			if o.Selected {
				selected = append(selected, o.Key)
			}
		}
		picked = append(picked, &selected)
		groups = append(groups, huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(sec.Title).
				Value(&selected).
				Options(options...),
		))
	}

	if err := huh.NewForm(groups...).RunWithContext(ctx); err != nil {
		return false, fmt.Errorf("failed to get selection: %w", err)
	}

	chosen := make(map[string]bool)
	for _, p := range picked {
		for _, key := range *p {
			chosen[key] = true
		}
	}
	count, err := applyPicks(ctx, session, sections, chosen)
	if err != nil {
		return false, err
	}

	var confirmed bool
	err = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Apply %d selected differences?", count)).
			Value(&confirmed),
	)).RunWithContext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get confirmation: %w", err)
	}
	return confirmed, nil
}

// applyPicks toggles every option whose picked state differs from the session
// and returns how many options are selected.
func applyPicks(ctx context.Context, session *reconcile.Session, sections []pickerSection, chosen map[string]bool) (int, error) {
	var count int
	for _, sec := range sections {
		for _, o := range sec.Options {
			want := chosen[o.Key]
			if want {
				count++
			}
			if want == o.Selected {
				continue
			}
			if err := session.Toggle(ctx, o.Key, want); err != nil {
				return count, err
			}
		}
	}
	return count, nil
}
