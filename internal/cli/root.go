package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// NewRootCmd assembles the command tree bound to app.
func NewRootCmd(app *App) *cobra.Command {
	var textMaxLength int

	root := &cobra.Command{
		Use:   "formbuilder",
		Short: "Build forms, fill them in and collect responses",
		Long: `formbuilder edits form schemas made of typed fields, validates answers
as they are entered and records accepted responses against saved forms.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("text-max-length") {
				app.overrides.TextMaxLength = &textMaxLength
			}
			return app.setup(cmd.Context())
		},
	}
	root.SetOut(app.out)
	root.SetErr(app.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&app.configPath, "config", "", "config file (default $HOME/.formbuilder/config.yaml)")
	flags.StringVar(&app.overrides.StorageDriver, "storage", "", "storage driver: file, sqlite or memory")
	flags.StringVar(&app.overrides.StoragePath, "state", "", "state directory (file) or database path (sqlite)")
	flags.StringVar(&app.overrides.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.IntVar(&textMaxLength, "text-max-length", 0, "maximum length of text answers, 0 disables the limit")

	root.AddCommand(FormCmd(app))
	root.AddCommand(FieldCmd(app))
	root.AddCommand(FillCmd(app))
	root.AddCommand(RenderCmd(app))
	root.AddCommand(ExportCmd(app))
	root.AddCommand(ImportCmd(app))
	root.AddCommand(ResponsesCmd(app))
	return root
}

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
)

func printOK(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", okMark, fmt.Sprintf(format, args...))
}

func printWarn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", warnMark, fmt.Sprintf(format, args...))
}

// resolveForm returns the saved form id names, or the current form when
// current is set or no id is given.
func (a *App) resolveForm(args []string, current bool) (model.Form, error) {
	if current || len(args) == 0 {
		return a.store.CurrentForm(), nil
	}
	form, ok := a.store.Form(args[0])
	if !ok {
		return model.Form{}, fmt.Errorf("form %q not found\nHint: run 'formbuilder form list' to see saved forms", args[0])
	}
	return form, nil
}
