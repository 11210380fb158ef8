package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/filler"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
)

// FillCmd returns the fill command.
func FillCmd(app *App) *cobra.Command {
	var (
		current bool
		record  bool
		confirm bool
		format  string
	)
	cmd := &cobra.Command{
		Use:   "fill [formId]",
		Short: "Fill in a saved form in the terminal and record the response",
		Long: `Fill in a saved form field by field. Each answer is validated as it is
entered and the whole form is validated again before the response is recorded.
With --current the in-progress form is previewed and nothing is recorded
unless --record is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !current && len(args) == 0 {
				return fmt.Errorf("a form id is required (or use --current)")
			}
			tuiOpts := []tui.Option{
				tui.WithPromptDriver(app.promptDriver()),
				tui.WithOutputFormat(tui.OutputFormat(format)),
			}
			if confirm {
				tuiOpts = append(tuiOpts, tui.WithSubmitConfirmation())
			}
			renderer, err := tui.New(tuiOpts...)
			if err != nil {
				return err
			}

			var f *filler.Filler
			if current {
				f, err = filler.OpenCurrent(app.store, app.fillerOptions(record)...)
			} else {
				f, err = filler.Open(app.store, args[0], app.fillerOptions(true)...)
			}
			if err != nil {
				return err
			}

			values, err := renderer.Fill(cmd.Context(), f)
			if errors.Is(err, tui.ErrSubmitDeclined) {
				printWarn(app.out, "Submission cancelled; nothing was recorded")
				return nil
			}
			if err != nil {
				return err
			}
			if !current || record {
				if err := app.commit(cmd.Context()); err != nil {
					return err
				}
			}
			out, err := renderer.Encode(f.Form(), values)
			if err != nil {
				return err
			}
			_, err = app.out.Write(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&current, "current", false, "preview the in-progress form")
	cmd.Flags().BoolVar(&record, "record", false, "record the preview response (requires the form to be saved unless autosave is configured)")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "ask for confirmation before submitting")
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "output format: json, form or pretty")
	return cmd
}
