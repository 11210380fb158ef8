package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/fieldtypes"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// FormCmd returns the form command.
func FormCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Create, list, save and load forms",
	}
	cmd.AddCommand(formNewCmd(app))
	cmd.AddCommand(formListCmd(app))
	cmd.AddCommand(formShowCmd(app))
	cmd.AddCommand(formRenameCmd(app))
	cmd.AddCommand(formSaveCmd(app))
	cmd.AddCommand(formLoadCmd(app))
	cmd.AddCommand(formDeleteCmd(app))
	return cmd
}

func formNewCmd(app *App) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Start a new empty form (unsaved edits to the current form are discarded)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			id := app.store.CreateNewForm(name)
			if save {
				app.store.SaveForm()
			}
			if err := app.commit(cmd.Context()); err != nil {
				return err
			}
			printOK(app.out, "Created form %s: %s", id, app.store.CurrentForm().Name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "save the new form immediately")
	return cmd
}

func formListCmd(app *App) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			forms := app.store.Forms()
			if query != "" {
				forms = app.store.FindForms(query)
			}
			if len(forms) == 0 {
				fmt.Fprintln(app.out, "No saved forms yet.")
				return nil
			}
			current := app.store.CurrentForm().ID
			w := tabwriter.NewWriter(app.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tFIELDS\tRESPONSES")
			fmt.Fprintln(w, "--\t----\t------\t---------")
			for _, form := range forms {
				marker := ""
				if form.ID == current {
					marker = color.New(color.FgHiMagenta).Sprint(" ←")
				}
				fmt.Fprintf(w, "%s\t%s%s\t%d\t%d\n", form.ID, form.Name, marker, len(form.Fields), len(form.Responses))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by name (case-insensitive)")
	return cmd
}

func formShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [formId]",
		Short: "Show the fields of a saved form, or of the current form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := app.resolveForm(args, false)
			if err != nil {
				return err
			}
			printFormDetails(app, form)
			return nil
		},
	}
}

func printFormDetails(app *App, form model.Form) {
	fmt.Fprintf(app.out, "%s (%s)\n", form.Name, form.ID)
	if len(form.Fields) == 0 {
		fmt.Fprintln(app.out, "No fields added yet.")
		return
	}
	w := tabwriter.NewWriter(app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tTYPE\tLABEL\tREQUIRED\tOPTIONS")
	for _, field := range form.Fields {
		kind := string(field.Type)
		if _, ok := fieldtypes.Lookup(field.Type); !ok {
			kind += " (as text)"
		}
		required := ""
		if field.Required {
			required = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", field.Order, field.ID, kind, field.Label, required, strings.Join(field.Choices(), ", "))
	}
	w.Flush()
}

func formRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name>",
		Short: "Rename the current form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.store.UpdateFormName(args[0])
			if err := app.commit(cmd.Context()); err != nil {
				return err
			}
			printOK(app.out, "Renamed form %s to %s", app.store.CurrentForm().ID, args[0])
			return nil
		},
	}
}

func formSaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the current form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.store.SaveForm()
			if err := app.commit(cmd.Context()); err != nil {
				return err
			}
			form := app.store.CurrentForm()
			printOK(app.out, "Saved form %s: %s", form.ID, form.Name)
			return nil
		},
	}
}

func formLoadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "load <formId>",
		Short: "Make a saved form the current form (unsaved edits are discarded)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.resolveForm(args, false); err != nil {
				return err
			}
			app.store.LoadForm(args[0])
			if err := app.commit(cmd.Context()); err != nil {
				return err
			}
			printOK(app.out, "Loaded form %s", args[0])
			return nil
		},
	}
}

func formDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <formId>",
		Short: "Delete a saved form and its responses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.resolveForm(args, false); err != nil {
				return err
			}
			app.store.DeleteForm(args[0])
			if err := app.commit(cmd.Context()); err != nil {
				return err
			}
			printOK(app.out, "Deleted form %s", args[0])
			if app.store.CurrentForm().ID == args[0] {
				printWarn(app.out, "The form is still open as the current form; saving it again restores it")
			}
			return nil
		},
	}
}
