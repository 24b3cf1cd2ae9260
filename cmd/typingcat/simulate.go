package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typingcat/internal/config"
	"github.com/verte-zerg/typingcat/internal/generator"
	"github.com/verte-zerg/typingcat/internal/simulate"
)

const (
	defaultSimWords = 10
	defaultSimCPS   = 5.0
	defaultSimTail  = 3 * time.Second
	defaultSimCaps  = 0.0
	defaultSimPunct = 0.0
)

var (
	simText       string
	simWordFile   string
	simWords      int
	simCaps       float64
	simPunct      float64
	simSeed       int64
	simCPS        float64
	simPauseAfter int
	simPause      time.Duration
	simTail       time.Duration
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay steady typing headless and print the overlay after every tick",
		Args:  cobra.NoArgs,
		RunE:  runSimulateCmd,
	}
	cmd.Flags().StringVar(&simText, "text", "", "text to type (default: generated)")
	cmd.Flags().StringVar(&simWordFile, "word-file", "", "word list for generated text, one word per line")
	cmd.Flags().IntVar(&simWords, "words", defaultSimWords, "words of generated text")
	cmd.Flags().Float64Var(&simCaps, "caps", defaultSimCaps, "probability of capitalized first letter (0-1)")
	cmd.Flags().Float64Var(&simPunct, "punct", defaultSimPunct, "punctuation probability per word (0-1)")
	cmd.Flags().Int64Var(&simSeed, "seed", 0, "generator seed (default: random)")
	cmd.Flags().Float64Var(&simCPS, "cps", defaultSimCPS, "typing pace in characters per second")
	cmd.Flags().IntVar(&simPauseAfter, "pause-after", 0, "pause before this character index")
	cmd.Flags().DurationVar(&simPause, "pause", 0, "length of the pause")
	cmd.Flags().DurationVar(&simTail, "tail", defaultSimTail, "keep ticking after the last keystroke")
	return cmd
}

func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	if err := validateSimulate(); err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// Saved toggles are left out so runs are reproducible.
	settings, err := resolveSettings(cmd, fileCfg, nil)
	if err != nil {
		return err
	}

	text := simText
	if text == "" {
		text, err = generateSimText()
		if err != nil {
			return err
		}
	}

	log := zerolog.Nop()
	if logDebug {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	strokes := generator.Plan(text, generator.PlanConfig{CPS: simCPS, PauseAfter: simPauseAfter, Pause: simPause})
	frames, err := simulate.Run(settings, strokes, generator.End(strokes)+simTail, log)
	if err != nil {
		return fmt.Errorf("failed to simulate: %w", err)
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Text: %s\n\n", text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := simulate.Render(out, frames); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func validateSimulate() error {
	if simCPS <= 0 {
		return fmt.Errorf("--cps must be > 0")
	}
	if simWords <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if simCaps < 0 || simCaps > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if simPunct < 0 || simPunct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if simPauseAfter < 0 || simPause < 0 || simTail < 0 {
		return fmt.Errorf("--pause-after, --pause and --tail must be >= 0")
	}
	return nil
}

func generateSimText() (string, error) {
	words := generator.DefaultWords
	if simWordFile != "" {
		loaded, err := generator.LoadWords(simWordFile)
		if err != nil {
			return "", fmt.Errorf("failed to load word list: %w", err)
		}
		words = loaded
	}
	gen := generator.New()
	if simSeed != 0 {
		gen = generator.NewSeeded(simSeed)
	}
	return gen.Text(words, simWords, simCaps, simPunct, []rune(generator.DefaultPunct)), nil
}
