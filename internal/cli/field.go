package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/fieldtypes"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// FieldCmd returns the field command.
func FieldCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Edit the fields of the current form",
	}
	cmd.AddCommand(fieldAddCmd(app))
	cmd.AddCommand(fieldRemoveCmd(app))
	cmd.AddCommand(fieldUpdateCmd(app))
	cmd.AddCommand(fieldMoveCmd(app))
	cmd.AddCommand(fieldTypesCmd(app))
	return cmd
}

// fieldType resolves raw against the catalogue. Unknown types are kept as
// typed and render as text inputs.
func (a *App) fieldType(raw string) model.FieldType {
	if t, ok := fieldtypes.Parse(raw); ok {
		return t
	}
	printWarn(a.out, "Unknown field type %q; it will be treated as text", raw)
	return model.FieldType(raw)
}

func fieldAddCmd(app *App) *cobra.Command {
	var (
		typeName    string
		label       string
		placeholder string
		required    bool
		options     []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a field to the current form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := fieldtypes.DefaultConfig(app.fieldType(typeName))
			flags := cmd.Flags()
			if flags.Changed("label") {
				cfg.Label = label
			}
			if flags.Changed("placeholder") {
				cfg.Placeholder = placeholder
			}
			if flags.Changed("required") {
				cfg.Required = required
			}
			if flags.Changed("option") {
				cfg.Options = options
			}
			id := app.store.AddField(cfg)
			if err := app.commit(cmd.Context()); err != nil {
				return err
			}
			printOK(app.out, "Added %s field %s: %s", cfg.Type, id, cfg.Label)
			return nil
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "field type (see 'field types')")
	cmd.Flags().StringVarP(&label, "label", "l", "", "field label")
	cmd.Flags().StringVar(&placeholder, "placeholder", "", "placeholder text")
	cmd.Flags().BoolVar(&required, "required", false, "require an answer")
	cmd.Flags().StringArrayVar(&options, "option", nil, "choice for select, radio and checkbox fields (repeatable)")
	cmd.MarkFlagRequired("type")
	return cmd
}

func fieldRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <fieldId>",
		Short: "Remove a field from the current form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireField(args[0]); err != nil {
				return err
			}
			app.store.RemoveField(args[0])
			if err := app.commit(cmd.Context()); err != nil {
				return err
			}
			printOK(app.out, "Removed field %s", args[0])
			return nil
		},
	}
}

func fieldUpdateCmd(app *App) *cobra.Command {
	var (
		typeName    string
		label       string
		placeholder string
		required    bool
		options     []string
	)
	cmd := &cobra.Command{
		Use:   "update <fieldId>",
		Short: "Change attributes of a field in the current form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireField(args[0]); err != nil {
				return err
			}
			patch := model.FieldPatch{ID: args[0]}
			flags := cmd.Flags()
			if flags.Changed("type") {
				t := app.fieldType(typeName)
				patch.Type = &t
			}
			if flags.Changed("label") {
				patch.Label = &label
			}
			if flags.Changed("placeholder") {
				patch.Placeholder = &placeholder
			}
			if flags.Changed("required") {
				patch.Required = &required
			}
			if flags.Changed("option") {
				patch.Options = options
			}
			app.store.UpdateField(patch)
			if err := app.commit(cmd.Context()); err != nil {
				return err
			}
			printOK(app.out, "Updated field %s", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "field type")
	cmd.Flags().StringVarP(&label, "label", "l", "", "field label")
	cmd.Flags().StringVar(&placeholder, "placeholder", "", "placeholder text")
	cmd.Flags().BoolVar(&required, "required", false, "require an answer")
	cmd.Flags().StringArrayVar(&options, "option", nil, "replace the choices (repeatable)")
	return cmd
}

func fieldMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move the field at position <from> to position <to> (zero based)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid source position %q", args[0])
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid destination position %q", args[1])
			}
			count := len(app.store.CurrentForm().Fields)
			if from < 0 || from >= count || to < 0 || to >= count {
				return fmt.Errorf("positions must be between 0 and %d", count-1)
			}
			app.store.ReorderFields(from, to)
			if err := app.commit(cmd.Context()); err != nil {
				return err
			}
			printOK(app.out, "Moved field from %d to %d", from, to)
			return nil
		},
	}
}

func fieldTypesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the available field types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := widgets.NewRegistry()
			w := tabwriter.NewWriter(app.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tLABEL\tWIDGET\tOPTIONS")
			for _, def := range fieldtypes.All() {
				widget, _ := registry.Resolve(model.Field{Type: def.Type})
				hasOptions := ""
				if def.HasOptions {
					hasOptions = "yes"
				}
				fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\n", def.Icon, def.Type, def.Label, widget, hasOptions)
			}
			return w.Flush()
		},
	}
}

func (a *App) requireField(id string) error {
	if _, ok := a.store.CurrentForm().FieldByID(id); !ok {
		return fmt.Errorf("field %q not found in the current form", id)
	}
	return nil
}
