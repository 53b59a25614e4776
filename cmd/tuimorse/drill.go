package main

import (
	"context"
	"fmt"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuimorse/internal/config"
	"github.com/verte-zerg/tuimorse/internal/drill"
	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/stats"
	"github.com/verte-zerg/tuimorse/internal/store"
	"github.com/verte-zerg/tuimorse/internal/wordlist"
)

const (
	defaultDrillGroups    = 5
	defaultDrillGroupSize = 5
	defaultFocusTop       = 5
	defaultFocusWindow    = 20
	defaultFocusFactor    = 2.0
)

var (
	drillGroups    int
	drillGroupSize int
	drillChars     string
	drillWordlist  string
	drillMaxLen    int
	drillFocus     bool
	drillNoPlay    bool
)

func newDrillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Generate practice groups and play them",
		Args:  cobra.NoArgs,
		RunE:  runDrillCmd,
	}
	cmd.Flags().IntVar(&drillGroups, "groups", defaultDrillGroups, "number of groups, or words with --wordlist")
	cmd.Flags().IntVar(&drillGroupSize, "group-size", defaultDrillGroupSize, "characters per random group")
	cmd.Flags().StringVar(&drillChars, "chars", "", "character set for random groups (default A-Z)")
	cmd.Flags().StringVar(&drillWordlist, "wordlist", "", "draw words from this file instead of random groups")
	cmd.Flags().IntVar(&drillMaxLen, "max-len", 0, "skip word list entries longer than this (0 keeps all)")
	cmd.Flags().BoolVar(&drillFocus, "focus", false, "bias toward the least practiced characters")
	cmd.Flags().BoolVar(&drillNoPlay, "no-play", false, "only print the drill text")
	return cmd
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "groups", &drillGroups, fileCfg.Drill.Groups)
	applyIntConfig(cmd, "group-size", &drillGroupSize, fileCfg.Drill.GroupSize)
	applyStringConfig(cmd, "chars", &drillChars, fileCfg.Drill.Chars)
	applyStringConfig(cmd, "wordlist", &drillWordlist, fileCfg.Drill.Wordlist)
	applyIntConfig(cmd, "max-len", &drillMaxLen, fileCfg.Drill.MaxLen)
	cfg := model.DrillConfig{
		Groups:    drillGroups,
		GroupSize: drillGroupSize,
		Chars:     drillChars,
		Wordlist:  drillWordlist,
		MaxLen:    drillMaxLen,
	}
	if err := validateDrillConfig(cfg); err != nil {
		return err
	}
	cfg, err = withDefaultWordlist(cfg)
	if err != nil {
		return err
	}

	set, err := drill.Charset(cfg.Chars)
	if err != nil {
		return err
	}
	var focus map[rune]struct{}
	if drillFocus {
		focus, err = loadFocus(cmd.Context(), set)
		if err != nil {
			logErrf("failed to load practice history: %v\n", err)
		}
	}

	text, err := generateDrill(drill.New(), cfg, set, focus)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if drillNoPlay {
		return nil
	}
	return playText(cmd, text)
}

func generateDrill(gen *drill.Generator, cfg model.DrillConfig, set []rune, focus map[rune]struct{}) (string, error) {
	if cfg.Wordlist == "" {
		// Focus characters appear twice in the pool.
		for r := range focus {
			set = append(set, r)
		}
		return strings.Join(gen.Groups(set, cfg.Groups, cfg.GroupSize), " "), nil
	}
	words, err := wordlist.LoadWords(cfg.Wordlist)
	if err != nil {
		return "", fmt.Errorf("failed to load word list %s: %w", cfg.Wordlist, err)
	}
	words = wordlist.Filter(words, wordlist.Encodable, wordlist.MaxLen(cfg.MaxLen))
	if len(words) == 0 {
		return "", fmt.Errorf("word list %s has no encodable words", cfg.Wordlist)
	}
	if len(focus) > 0 {
		return strings.Join(gen.WordsWeighted(words, cfg.Groups, focus, defaultFocusFactor), " "), nil
	}
	return strings.Join(gen.Words(words, cfg.Groups), " "), nil
}

// withDefaultWordlist points cfg at the default word list when no word list
// or character set is configured and that file exists.
func withDefaultWordlist(cfg model.DrillConfig) (model.DrillConfig, error) {
	if cfg.Wordlist != "" || cfg.Chars != "" {
		return cfg, nil
	}
	path := config.DefaultWordListPath()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to stat word list: %w", err)
	}
	cfg.Wordlist = path
	return cfg, nil
}

func loadFocus(ctx context.Context, set []rune) (map[rune]struct{}, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	report, err := stats.BuildReport(ctx, st, model.HistoryConfig{CurveWindow: defaultFocusWindow})
	if err != nil {
		return nil, err
	}
	return stats.LeastPracticed(report.CharAggsWindow, set, defaultFocusTop), nil
}

func validateDrillConfig(cfg model.DrillConfig) error {
	if cfg.Groups <= 0 {
		return fmt.Errorf("--groups must be > 0")
	}
	if cfg.GroupSize <= 0 {
		return fmt.Errorf("--group-size must be > 0")
	}
	if cfg.MaxLen < 0 {
		return fmt.Errorf("--max-len must be >= 0")
	}
	return nil
}
