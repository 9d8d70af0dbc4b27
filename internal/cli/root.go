package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/MikeBiancalana/datesel/internal/config"
	"github.com/MikeBiancalana/datesel/internal/datefmt"
	"github.com/MikeBiancalana/datesel/internal/logger"
	"github.com/MikeBiancalana/datesel/internal/picker"
	"github.com/MikeBiancalana/datesel/internal/sync"
	"github.com/MikeBiancalana/datesel/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// ErrCancelled is returned when the picker is closed without confirming.
var ErrCancelled = errors.New("cancelled")

var (
	configFlag   string
	envFileFlag  string
	formatFlag   string
	timezoneFlag string
	startFlag    string
	endFlag      string
	styleFlag    string
	strictFlag   bool

	valueFlag    string
	disabledFlag bool
	watchFlag    bool
)

// now is the clock used to resolve relative dates
var now = time.Now

// RootCmd is the root command for the CLI
var RootCmd = &cobra.Command{
	Use:   "dsel",
	Short: "datesel - pick a date in the terminal",
	Long: `A terminal date picker bound to a range of days.

Type a date in the configured format, step through the days with the
arrow keys or pick one from the dropdown. The confirmed date is printed
to stdout so it can be used in scripts:

  due=$(dsel --format YYYY-MM-DD --start t --end +4w)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPick,
}

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick a date interactively (default command)",
	RunE:  runPick,
}

func init() {
	cobra.OnInitialize(initEnvironment)

	pf := RootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", "", "options file (default ~/.datesel/config.yaml)")
	pf.StringVar(&envFileFlag, "env-file", ".env", "dotenv file with DATESEL_* overrides")
	pf.StringVar(&formatFlag, "format", "", "date pattern, e.g. YYYY-MM-DD or LL")
	pf.StringVar(&timezoneFlag, "timezone", "", "IANA timezone (default local)")
	pf.StringVar(&startFlag, "start", "", "first selectable day (default start of this month)")
	pf.StringVar(&endFlag, "end", "", "last selectable day (default end of this month)")
	pf.StringVar(&styleFlag, "style", "", "dropdown or sequential")
	pf.BoolVar(&strictFlag, "strict", false, "only accept enumerated days within bounds")

	for _, c := range []*cobra.Command{RootCmd, pickCmd} {
		c.Flags().StringVar(&valueFlag, "value", "", "initial value (pattern or shortcut like t, tm, +3d, fri)")
		c.Flags().BoolVar(&disabledFlag, "disabled", false, "show the picker read-only")
		c.Flags().BoolVar(&watchFlag, "watch", false, "reload options when the options file changes")
	}

	// Add subcommands
	RootCmd.AddCommand(pickCmd)
	RootCmd.AddCommand(enumerateCmd)
	RootCmd.AddCommand(indexCmd)
	RootCmd.AddCommand(validateCmd)
	RootCmd.AddCommand(clampCmd)
	RootCmd.AddCommand(configureCmd)
}

// initEnvironment loads the dotenv file before any flag is resolved
func initEnvironment() {
	if err := config.LoadDotEnv(envFileFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

// resolveOptions loads options with precedence defaults < file < env <
// flags. The returned overrides hold only the flags that were set.
func resolveOptions(cmd *cobra.Command) (opts, overrides config.Options, path string, err error) {
	path = configFlag
	if path == "" {
		path, err = config.ConfigPath()
		if err != nil {
			return opts, overrides, "", fmt.Errorf("failed to get config path: %w", err)
		}
	}

	opts, err = config.Load(path)
	if err != nil {
		return opts, overrides, path, err
	}

	overrides = config.Options{
		Format:   formatFlag,
		Timezone: timezoneFlag,
		Start:    startFlag,
		End:      endFlag,
		Style:    styleFlag,
		Strict:   strictFlag,
		Disabled: disabledFlag,
	}
	opts = opts.Merge(overrides)
	if cmd.Flags().Changed("strict") {
		opts.Strict = strictFlag
	}

	if err := opts.Validate(); err != nil {
		return opts, overrides, path, err
	}

	return opts, overrides, path, nil
}

// parseValue parses a date argument in the configured pattern or as a
// relative shortcut
func parseValue(opts config.Options, text string) (time.Time, error) {
	format, err := datefmt.New(opts.Format, opts.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	t, err := format.ParseLoose(text, now())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected %s): %w", text, format.Pattern(), err)
	}
	return t, nil
}

func runPick(cmd *cobra.Command, args []string) error {
	opts, overrides, path, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	var initial time.Time
	if valueFlag != "" {
		if initial, err = parseValue(opts, valueFlag); err != nil {
			return err
		}
	}

	// The screen belongs to the TUI; logs go to the log file
	if err := logger.InitializeWithConfig(logger.Config{
		Level:   logger.LevelFromEnv(),
		Format:  os.Getenv("LOG_FORMAT"),
		TUIMode: true,
	}); err != nil {
		return err
	}
	defer logger.Close()

	model, err := tui.NewModel(opts, initial)
	if err != nil {
		return err
	}
	model.SetOptionsSource(path, overrides)

	if watchFlag {
		watcher, err := sync.NewWatcher(path)
		if err != nil {
			logger.Warn("cli: options watcher unavailable", "error", err)
		} else {
			model.SetWatcher(watcher)
			defer watcher.Stop()
		}
	}

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
		tea.WithOutput(os.Stderr))
	_, err = p.Run()
	picker.Walks.LogStats(logger.GetLogger())
	if err != nil {
		return err
	}

	value, ok := model.Result()
	if !ok {
		return ErrCancelled
	}

	format := model.Picker().Controller().Format()
	fmt.Fprintln(cmd.OutOrStdout(), format.Format(value))
	return nil
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}
