package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/MikeBiancalana/datesel/internal/config"
	"github.com/MikeBiancalana/datesel/internal/picker"
	"github.com/MikeBiancalana/datesel/internal/validate"
	"github.com/spf13/cobra"
)

var errInvalidBounds = errors.New("bounds are not valid dates")

var outputFlag string

var enumerateCmd = &cobra.Command{
	Use:   "enumerate",
	Short: "List the selectable days between the bounds",
	Long: `List every selectable day from start to end inclusive, one per line
in the configured format. Use --output json, tsv or csv for tooling.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(outputFlag)
		if err != nil {
			return err
		}

		ctrl, err := newController(cmd)
		if err != nil {
			return err
		}
		if err := checkBounds(ctrl); err != nil {
			return err
		}

		instants := ctrl.Options()
		days := make([]Day, 0, len(instants))
		for i, instant := range instants {
			days = append(days, Day{
				Index:   i,
				Instant: instant,
				Label:   ctrl.Label(instant),
				Date:    ctrl.Format().FromInstant(instant),
			})
		}

		return writeDays(cmd.OutOrStdout(), format, days)
	},
}

func init() {
	enumerateCmd.Flags().StringVarP(&outputFlag, "output", "o", "text", "output format: text, json, tsv, csv")
}

// newController builds an unbound picker from the resolved options for
// the non-interactive commands
func newController(cmd *cobra.Command) (*picker.Controller, error) {
	opts, _, _, err := resolveOptions(cmd)
	if err != nil {
		return nil, err
	}
	return controllerFor(opts)
}

// checkBounds fails when a bound could not be parsed
func checkBounds(ctrl *picker.Controller) error {
	b := ctrl.Bounds()
	switch {
	case b.Start.IsZero() && b.End.IsZero():
		return fmt.Errorf("%w: %w", errInvalidBounds, errors.Join(validate.ErrInvalidStart, validate.ErrInvalidEnd))
	case b.Start.IsZero():
		return fmt.Errorf("%w: %w", errInvalidBounds, validate.ErrInvalidStart)
	case b.End.IsZero():
		return fmt.Errorf("%w: %w", errInvalidBounds, validate.ErrInvalidEnd)
	}
	return nil
}

func controllerFor(opts config.Options) (*picker.Controller, error) {
	return picker.New(picker.FromConfig(opts, now), picker.NewValue(time.Time{}))
}
