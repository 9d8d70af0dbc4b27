package cli

import (
	"fmt"
	"time"

	"github.com/MikeBiancalana/datesel/internal/interval"
	"github.com/MikeBiancalana/datesel/internal/picker"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index <date>",
	Short: "Print the position of a date among the selectable days",
	Long: `Print the zero-based position of a date among the enumerated days.

Dates between two steps resolve to the earlier step. Dates outside the
bounds clamp to the first or last position, or print -1 with --strict.
The date may use the configured format or a shortcut like t, +3d or fri.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController(cmd)
		if err != nil {
			return err
		}
		if err := checkBounds(ctrl); err != nil {
			return err
		}

		t, err := parseArg(ctrl, args[0])
		if err != nil {
			return err
		}

		// Resolved against the unclamped date so strict mode can report -1
		b := ctrl.Bounds()
		fmt.Fprintln(cmd.OutOrStdout(), interval.ResolveIndex(b.Start, b.End, ctrl.Strict(), t))
		return nil
	},
}

var clampCmd = &cobra.Command{
	Use:   "clamp <date>",
	Short: "Constrain a date to the bounds",
	Long: `Print the date unchanged when it lies within the bounds, otherwise the
nearest bound. The date may use the configured format or a shortcut.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController(cmd)
		if err != nil {
			return err
		}

		t, err := parseArg(ctrl, args[0])
		if err != nil {
			return err
		}

		b := ctrl.Bounds()
		fmt.Fprintln(cmd.OutOrStdout(), ctrl.Format().Format(interval.Clamp(t, b.Start, b.End)))
		return nil
	},
}

func parseArg(ctrl *picker.Controller, text string) (time.Time, error) {
	format := ctrl.Format()
	t, err := format.ParseLoose(text, now())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected %s): %w", text, format.Pattern(), err)
	}
	return t, nil
}
