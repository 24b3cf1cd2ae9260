package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typingcat/internal/config"
	"github.com/verte-zerg/typingcat/internal/model"
	"github.com/verte-zerg/typingcat/internal/stats"
	"github.com/verte-zerg/typingcat/internal/store"
)

const settingsTimeFormat = "2006-01-02 15:04:05"

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show saved display settings and the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runSettingsCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget saved display settings",
		Args:  cobra.NoArgs,
		RunE:  runSettingsResetCmd,
	})
	return cmd
}

func runSettingsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	rows, err := st.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list settings: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		logErrln("No saved settings; toggles made in the editor are stored here.")
	} else {
		if err := writeSavedSettings(out, rows); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if _, err := fmt.Fprintln(out, ""); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	settings, err := resolveSettings(cmd, fileCfg, st)
	if err != nil {
		return err
	}
	if err := writeEffectiveSettings(out, settings); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeSavedSettings(w io.Writer, rows []model.SettingRow) error {
	if _, err := fmt.Fprintln(w, "Saved"); err != nil {
		return err
	}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{r.Key, r.Value, r.UpdatedAt.Local().Format(settingsTimeFormat)})
	}
	return stats.WriteTable(w, []string{"Key", "Value", "Updated"}, tableRows, nil)
}

func writeEffectiveSettings(w io.Writer, s model.Settings) error {
	if _, err := fmt.Fprintln(w, "Effective"); err != nil {
		return err
	}
	rows := [][]string{
		{"left", strconv.FormatFloat(s.LeftPercent, 'g', -1, 64)},
		{"bottom", strconv.FormatFloat(s.BottomPercent, 'g', -1, 64)},
		{"opacity", strconv.FormatFloat(s.Opacity, 'g', -1, 64)},
		{"clickable", strconv.FormatBool(s.Clickable)},
		{"mirror", strconv.FormatBool(s.Mirror)},
		{"show-speed", strconv.FormatBool(s.ShowSpeed)},
		{"metric", string(s.Metric)},
		{"poll", s.PollInterval.String()},
		{"window", strconv.Itoa(s.Window)},
		{"stop-ticks", strconv.Itoa(s.StopTicks)},
		{"debounce", s.Debounce.String()},
		{"escalate-after", s.Escalation.String()},
		{"throttle", s.Throttle.String()},
		{"heart", s.HeartDuration.String()},
	}
	return stats.WriteTable(w, []string{"Setting", "Value"}, rows, nil)
}

func runSettingsResetCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if err := st.Reset(context.Background()); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Saved settings cleared."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
