package cli

import (
	"errors"
	"fmt"

	"github.com/MikeBiancalana/datesel/internal/validate"
	"github.com/spf13/cobra"
)

// ErrInvalidText is returned by validate for text that fails validation.
var ErrInvalidText = errors.New("invalid date text")

var validateCmd = &cobra.Command{
	Use:   "validate <text>",
	Short: "Check date text against the format and bounds",
	Long: `Run the validation applied when editing finishes: the text must match
the configured format exactly, the bounds must be valid dates and, with
--strict, the date must lie within them. Valid text is printed in its
normalized form. Exits non-zero when the text is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(outputFlag)
		if err != nil {
			return err
		}

		ctrl, err := newController(cmd)
		if err != nil {
			return err
		}

		res := validate.New(ctrl.Format()).Validate(args[0], ctrl.Bounds(), ctrl.Strict())
		report := ValidationReport{
			Text:     args[0],
			Valid:    res.Validity.OK(),
			Validity: res.Validity,
			Failures: res.Validity.Failures(),
			Value:    res.Text,
		}
		if err := writeReport(cmd.OutOrStdout(), format, report); err != nil {
			return err
		}

		if !report.Valid {
			return fmt.Errorf("%w: %w", ErrInvalidText, res.Validity.Err())
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&outputFlag, "output", "o", "text", "output format: text, json, tsv, csv")
}
