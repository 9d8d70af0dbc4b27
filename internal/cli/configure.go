package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/MikeBiancalana/datesel/internal/config"
	"github.com/MikeBiancalana/datesel/internal/datefmt"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Edit the options file interactively",
	Long: `Open a form prefilled from the options file and write the result back.

Bounds may be left empty for the current month, written in the format,
as ISO dates, or as shortcuts like t, +2w or fri.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFlag
		if path == "" {
			var err error
			path, err = config.ConfigPath()
			if err != nil {
				return fmt.Errorf("failed to get config path: %w", err)
			}
		}

		current, err := config.ReadOptions(path)
		if err != nil {
			return err
		}

		opts, err := runConfigureForm(config.Defaults().Merge(current))
		if err != nil {
			return err
		}

		if err := config.WriteOptions(path, opts); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Options written to %s\n", path)
		return nil
	},
}

// runConfigureForm runs an interactive form prefilled with opts
func runConfigureForm(opts config.Options) (config.Options, error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date format (e.g. YYYY-MM-DD, DD/MM/YYYY, LL)").
				Value(&opts.Format).
				Validate(validatePattern),
			huh.NewInput().
				Title("Timezone (optional, IANA name like Europe/Paris)").
				Value(&opts.Timezone).
				Validate(validateTimezone),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("First selectable day (optional)").
				Value(&opts.Start).
				Validate(func(s string) error { return validateBound(opts, s) }),
			huh.NewInput().
				Title("Last selectable day (optional)").
				Value(&opts.End).
				Validate(func(s string) error { return validateBound(opts, s) }),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Style").
				Options(
					huh.NewOption("Dropdown list", config.StyleDropdown),
					huh.NewOption("Increment/decrement buttons", config.StyleSequential),
				).
				Value(&opts.Style),
			huh.NewConfirm().
				Title("Strict mode (only enumerated days within bounds)").
				Value(&opts.Strict),
		),
	)

	if err := form.Run(); err != nil {
		return opts, fmt.Errorf("form cancelled: %w", err)
	}

	opts.Format = strings.TrimSpace(opts.Format)
	opts.Timezone = strings.TrimSpace(opts.Timezone)
	opts.Start = strings.TrimSpace(opts.Start)
	opts.End = strings.TrimSpace(opts.End)
	return opts, nil
}

func validatePattern(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("format is required")
	}
	_, err := datefmt.Layout(strings.TrimSpace(s))
	return err
}

func validateTimezone(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.LoadLocation(s); err != nil {
		return fmt.Errorf("unknown timezone %q", s)
	}
	return nil
}

// validateBound accepts an empty bound, text the picker can parse with
// the format and timezone in opts, or a relative shortcut
func validateBound(opts config.Options, s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	format, err := datefmt.New(opts.Format, opts.Timezone)
	if err != nil {
		// Reported on the format and timezone fields
		return nil
	}
	if _, err := format.ParseBound(s); err == nil {
		return nil
	}
	if _, err := datefmt.ParseRelative(s, now()); err == nil {
		return nil
	}
	return fmt.Errorf("not a date in %s or a shortcut like t, +2w", format.Pattern())
}
