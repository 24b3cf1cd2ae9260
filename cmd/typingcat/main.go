// Package main provides the CLI entrypoint for typingcat.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typingcat/internal/config"
	"github.com/verte-zerg/typingcat/internal/logging"
	"github.com/verte-zerg/typingcat/internal/model"
	"github.com/verte-zerg/typingcat/internal/sched"
	"github.com/verte-zerg/typingcat/internal/speed"
	"github.com/verte-zerg/typingcat/internal/store"
	"github.com/verte-zerg/typingcat/internal/tui"
)

var (
	configPath string
	logDebug   bool

	overlayMetric    string
	overlayShowSpeed bool
	overlayMirror    bool
	overlayClickable bool
	overlayDebounce  time.Duration
	overlayEscalate  time.Duration
	overlayThrottle  time.Duration
	overlayPoll      time.Duration
	overlayWindow    int
	overlayNoPersist bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := model.DefaultSettings()
	rootCmd := &cobra.Command{
		Use:           "typingcat",
		Short:         "Editor with a cat that types along",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runOverlayCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	flags.BoolVar(&logDebug, "debug", false, "write debug logs")
	flags.StringVar(&overlayMetric, "metric", string(defaults.Metric), "speed metric (wpm, cps, cpm)")
	flags.BoolVar(&overlayShowSpeed, "show-speed", defaults.ShowSpeed, "show the speed readout")
	flags.BoolVar(&overlayMirror, "mirror", defaults.Mirror, "mirror the cat horizontally")
	flags.BoolVar(&overlayClickable, "clickable", defaults.Clickable, "react to clicks on the cat")
	flags.DurationVar(&overlayDebounce, "debounce", defaults.Debounce, "idle delay after the last edit")
	flags.DurationVar(&overlayEscalate, "escalate-after", defaults.Escalation, "continuous typing before the sweat cue")
	flags.DurationVar(&overlayThrottle, "throttle", defaults.Throttle, "minimum spacing between accepted clicks")
	flags.DurationVar(&overlayPoll, "poll", defaults.PollInterval, "speed sampling interval")
	flags.IntVar(&overlayWindow, "window", defaults.Window, "speed samples averaged")
	rootCmd.Flags().BoolVar(&overlayNoPersist, "no-persist", false, "do not save display toggles")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newSimulateCmd())

	return rootCmd
}

func runOverlayCmd(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("typingcat needs an interactive terminal")
	}

	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, closer, err := openLog(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	settings, err := resolveSettings(cmd, fileCfg, st)
	if err != nil {
		return err
	}

	var dispatcher tui.Dispatcher
	opts := tui.Options{
		Settings: settings,
		Store:    st,
		Clock:    sched.SystemClock{},
		Timers:   sched.NewTimers(dispatcher.Post),
		Log:      log,
	}
	if overlayNoPersist {
		opts.Store = nil
	}
	m := tui.NewModel(opts)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	dispatcher.Attach(program)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	reloadsDone := make(chan struct{})
	changes, err := config.Watch(ctx, configPath, log)
	if err != nil {
		log.Warn().Err(err).Msg("Config reload disabled")
		close(reloadsDone)
	} else {
		go func() {
			defer close(reloadsDone)
			forwardReloads(cmd, changes, st, program.Send, log)
		}()
	}

	_, runErr := program.Run()
	m.Session().Close()
	// The reload loop reads the store; it must be gone before the store closes.
	cancel()
	<-reloadsDone
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	return nil
}

// forwardReloads re-resolves settings on every config change until changes
// closes.
func forwardReloads(cmd *cobra.Command, changes <-chan struct{}, st *store.Store, send func(tea.Msg), log zerolog.Logger) {
	for range changes {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Warn().Err(err).Msg("Ignoring invalid config change")
			continue
		}
		settings, err := resolveSettings(cmd, fileCfg, st)
		if err != nil {
			log.Warn().Err(err).Msg("Ignoring invalid config change")
			continue
		}
		log.Info().Str("path", configPath).Msg("Config reloaded")
		send(tui.ReloadMsg{Settings: settings})
	}
}

// resolveSettings layers defaults, the config file, saved display toggles and
// explicitly set flags, in that order. st may be nil.
func resolveSettings(cmd *cobra.Command, fileCfg config.FileConfig, st *store.Store) (model.Settings, error) {
	settings := fileCfg.Apply(model.DefaultSettings())
	if st != nil {
		prefs, err := st.LoadPrefs(context.Background())
		if err != nil {
			return model.Settings{}, fmt.Errorf("failed to load saved settings: %w", err)
		}
		settings = prefs.Apply(settings)
	}

	if cmd.Flags().Changed("metric") {
		m, ok := speed.NormalizeMetric(overlayMetric)
		if !ok {
			return model.Settings{}, fmt.Errorf("--metric must be one of wpm, cps, cpm")
		}
		settings.Metric = m
	}
	applyBoolFlag(cmd, "show-speed", &settings.ShowSpeed, overlayShowSpeed)
	applyBoolFlag(cmd, "mirror", &settings.Mirror, overlayMirror)
	applyBoolFlag(cmd, "clickable", &settings.Clickable, overlayClickable)
	applyDurationFlag(cmd, "debounce", &settings.Debounce, overlayDebounce)
	applyDurationFlag(cmd, "escalate-after", &settings.Escalation, overlayEscalate)
	applyDurationFlag(cmd, "throttle", &settings.Throttle, overlayThrottle)
	applyDurationFlag(cmd, "poll", &settings.PollInterval, overlayPoll)
	applyIntFlag(cmd, "window", &settings.Window, overlayWindow)

	if err := validateSettings(settings); err != nil {
		return model.Settings{}, err
	}
	return settings.Normalize(), nil
}

func validateSettings(s model.Settings) error {
	if s.PollInterval <= 0 {
		return fmt.Errorf("--poll must be > 0")
	}
	if s.Window <= 0 {
		return fmt.Errorf("--window must be > 0")
	}
	if s.Debounce < 0 || s.Escalation < 0 || s.Throttle < 0 {
		return fmt.Errorf("durations must be >= 0")
	}
	return nil
}

func applyBoolFlag(cmd *cobra.Command, name string, target *bool, value bool) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func applyIntFlag(cmd *cobra.Command, name string, target *int, value int) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func applyDurationFlag(cmd *cobra.Command, name string, target *time.Duration, value time.Duration) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

// openLog opens the log file named by the config, defaulting to the XDG state
// directory. --debug wins over the file.
func openLog(cmd *cobra.Command, fileCfg config.FileConfig) (zerolog.Logger, io.Closer, error) {
	path := config.DefaultLogPath()
	if fileCfg.Log.File != nil {
		path = *fileCfg.Log.File
	}
	debug := fileCfg.Log.Debug != nil && *fileCfg.Log.Debug
	if cmd.Flags().Changed("debug") {
		debug = logDebug
	}
	log, closer, err := logging.Open(path, debug)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return log, closer, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	d := model.DefaultSettings()
	return fmt.Sprintf(`# typingcat configuration
# Uncomment a value to enable it. CLI flags override config values.
# Changes are picked up while typingcat is running.

[overlay]
# left = %.1f             # Horizontal position, percent of free space (0-100)
# bottom = %.1f           # Vertical position from the bottom, percent (0-100)
# opacity = %.1f          # Below 0.5 the cat is drawn faint
# clickable = %t          # Clicking the cat shows a heart
# mirror = %t             # Flip the cat horizontally

[speed]
# show = %t               # Show the speed readout
# metric = %q            # wpm, cps or cpm
# poll-ms = %d          # Sampling interval
# window = %d             # Samples averaged
# stop-ticks = %d          # Silent samples before the readout freezes

[activity]
# debounce-ms = %d      # Idle delay after the last edit
# escalate-ms = %d      # Continuous typing before the sweat cue
# throttle-ms = %d       # Minimum spacing between accepted clicks
# heart-ms = %d          # How long the heart stays visible

[log]
# debug = false
# file = %q
`,
		d.LeftPercent,
		d.BottomPercent,
		d.Opacity,
		d.Clickable,
		d.Mirror,
		d.ShowSpeed,
		string(d.Metric),
		d.PollInterval.Milliseconds(),
		d.Window,
		d.StopTicks,
		d.Debounce.Milliseconds(),
		d.Escalation.Milliseconds(),
		d.Throttle.Milliseconds(),
		d.HeartDuration.Milliseconds(),
		config.DefaultLogPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
