// Package main provides the CLI entrypoint for tuivoc.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuivoc/internal/config"
	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/pacer"
	"github.com/verte-zerg/tuivoc/internal/report"
	"github.com/verte-zerg/tuivoc/internal/store"
	"github.com/verte-zerg/tuivoc/internal/studylist"
	"github.com/verte-zerg/tuivoc/internal/tui"
	"github.com/verte-zerg/tuivoc/internal/vocabfile"
)

const (
	defaultMode           = "both"
	defaultStatus         = "all"
	defaultStart          = 3
	defaultIntervalMs     = 1000
	defaultAccelEveryMs   = 2000
	defaultAccelStepMs    = 150
	defaultMinIntervalMs  = 250
	defaultReleaseAfterMs = 700
)

var (
	studyCategory       string
	studyStatus         string
	studyMode           string
	studyShuffle        bool
	studySeed           int64
	studyImages         string
	studyStart          int
	studyIntervalMs     int
	studyAccelEveryMs   int
	studyAccelStepMs    int
	studyMinIntervalMs  int
	studyReleaseAfterMs int

	importCategory string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuivoc",
		Short:         "Hold-to-advance flashcard trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runStudyCmd,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&studyCategory, "category", "", "category to study")
	flags.StringVar(&studyStatus, "status", defaultStatus, "vocab stage: all, new, learning or memorized")
	flags.StringVar(&studyMode, "mode", defaultMode, "study side: word, meaning or both")
	flags.BoolVar(&studyShuffle, "shuffle", false, "shuffle the study order")
	flags.Int64Var(&studySeed, "seed", 0, "shuffle seed (0 picks one)")
	flags.StringVar(&studyImages, "images", config.DefaultImagesDir(), "directory searched for vocab images")
	flags.IntVar(&studyStart, "start", defaultStart, "countdown ticks before each reveal")
	flags.IntVar(&studyIntervalMs, "interval", defaultIntervalMs, "base tick interval in ms")
	flags.IntVar(&studyAccelEveryMs, "accel-every", defaultAccelEveryMs, "ms of holding between speed-ups")
	flags.IntVar(&studyAccelStepMs, "accel-step", defaultAccelStepMs, "ms removed from the interval per speed-up")
	flags.IntVar(&studyMinIntervalMs, "min-interval", defaultMinIntervalMs, "fastest tick interval in ms")
	flags.IntVar(&studyReleaseAfterMs, "release-after", defaultReleaseAfterMs, "ms without key repeat that count as a release")

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runStudyCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFileConfig(cmd, fileCfg)

	studyCfg, pacerCfg, err := buildStudyConfig()
	if err != nil {
		return err
	}
	if studyReleaseAfterMs <= 0 {
		return fmt.Errorf("--release-after must be > 0")
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("study mode needs an interactive terminal")
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

	ctx := context.Background()
	category, err := st.CategoryByName(ctx, studyCfg.Category)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return fmt.Errorf("%w\nRun: tuivoc categories", err)
		}
		return fmt.Errorf("failed to load category: %w", err)
	}
	vocabs, err := st.ListVocabs(ctx, category.ID, studyCfg.Status)
	if err != nil {
		return fmt.Errorf("failed to load vocabs: %w", err)
	}
	if len(vocabs) == 0 {
		logErrf("no %s vocabs in %q; showing a placeholder\n", studyCfg.Status, category.Name)
	}
	if studyCfg.Shuffle {
		vocabs = studylist.NewOrderer(studyCfg.Seed).Shuffle(vocabs)
	}
	list := studylist.Build(vocabs, studyCfg.Opt)

	m := tui.NewModel(list, st, tui.Options{
		Pacer:        pacerCfg,
		ReleaseAfter: time.Duration(studyReleaseAfterMs) * time.Millisecond,
		ImagesDir:    studyCfg.ImagesDir,
		Status:       studyCfg.Status,
		Opt:          studyCfg.Opt,
		Category:     category,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func buildStudyConfig() (model.StudyConfig, pacer.Config, error) {
	if strings.TrimSpace(studyCategory) == "" {
		return model.StudyConfig{}, pacer.Config{}, fmt.Errorf("--category is required")
	}
	status, err := model.ParseStatus(studyStatus)
	if err != nil {
		return model.StudyConfig{}, pacer.Config{}, fmt.Errorf("invalid --status: %w", err)
	}
	opt, err := model.ParseStudyOpt(studyMode)
	if err != nil {
		return model.StudyConfig{}, pacer.Config{}, fmt.Errorf("invalid --mode: %w", err)
	}
	pacerCfg := pacer.Config{
		StartCount:   studyStart,
		BaseInterval: time.Duration(studyIntervalMs) * time.Millisecond,
		AccelEvery:   time.Duration(studyAccelEveryMs) * time.Millisecond,
		AccelStep:    time.Duration(studyAccelStepMs) * time.Millisecond,
		MinInterval:  time.Duration(studyMinIntervalMs) * time.Millisecond,
	}
	if err := pacerCfg.Validate(); err != nil {
		return model.StudyConfig{}, pacer.Config{}, fmt.Errorf("invalid pacing: %w", err)
	}
	studyCfg := model.StudyConfig{
		Category:  studyCategory,
		Status:    status,
		Opt:       opt,
		Shuffle:   studyShuffle,
		Seed:      studySeed,
		ImagesDir: studyImages,
	}
	return studyCfg, pacerCfg, nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import vocabs from a .txt, .json or .yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importCategory, "category", "", "category to import into")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(importCategory) == "" {
		return fmt.Errorf("--category is required")
	}
	vocabs, err := vocabfile.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load vocab file: %w", err)
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

	ctx := context.Background()
	id, err := st.EnsureCategory(ctx, importCategory)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	if err := st.InsertVocabs(ctx, id, vocabs); err != nil {
		return fmt.Errorf("failed to import vocabs: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d vocabs into %s\n", len(vocabs), strings.TrimSpace(importCategory)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories and when they were last studied",
		Args:  cobra.NoArgs,
		RunE:  runCategoriesCmd,
	}
}

func runCategoriesCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	lines, err := report.Categories(context.Background(), st, time.Now())
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		logErrln("No categories yet. Import with: tuivoc import FILE --category <name>")
		return nil
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
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
	path := config.DefaultConfigPath()
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

// applyFileConfig overlays the config file onto the study flags.
func applyFileConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyConfig(cmd, "category", &studyCategory, fileCfg.Study.Category)
	applyConfig(cmd, "status", &studyStatus, fileCfg.Study.Status)
	applyConfig(cmd, "mode", &studyMode, fileCfg.Study.Mode)
	applyConfig(cmd, "shuffle", &studyShuffle, fileCfg.Study.Shuffle)
	applyConfig(cmd, "seed", &studySeed, fileCfg.Study.Seed)
	applyConfig(cmd, "images", &studyImages, fileCfg.Study.Images)
	applyConfig(cmd, "start", &studyStart, fileCfg.Pacer.Start)
	applyConfig(cmd, "interval", &studyIntervalMs, fileCfg.Pacer.IntervalMs)
	applyConfig(cmd, "accel-every", &studyAccelEveryMs, fileCfg.Pacer.AccelEveryMs)
	applyConfig(cmd, "accel-step", &studyAccelStepMs, fileCfg.Pacer.AccelStepMs)
	applyConfig(cmd, "min-interval", &studyMinIntervalMs, fileCfg.Pacer.MinIntervalMs)
	applyConfig(cmd, "release-after", &studyReleaseAfterMs, fileCfg.Pacer.ReleaseAfterMs)
}

// applyConfig copies a config file value into target unless the flag was
// set on the command line.
func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuivoc configuration
# Uncomment a value to enable it. CLI flags override config values.

[study]
# category = "fruit"          # Category to study
# status = %q               # all, new, learning or memorized
# mode = %q                # word, meaning or both
# shuffle = false             # Shuffle the study order
# seed = 0                    # Shuffle seed, 0 picks one
# images = %q

[pacer]
# start = %d                   # Countdown ticks before each reveal
# interval-ms = %d          # Base tick interval
# accel-every-ms = %d       # Holding time between speed-ups
# accel-step-ms = %d         # Interval removed per speed-up
# min-interval-ms = %d       # Fastest tick interval
# release-after-ms = %d      # Key-repeat gap that counts as a release
`,
		defaultStatus,
		defaultMode,
		config.DefaultImagesDir(),
		defaultStart,
		defaultIntervalMs,
		defaultAccelEveryMs,
		defaultAccelStepMs,
		defaultMinIntervalMs,
		defaultReleaseAfterMs,
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
