package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/formfile"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
)

// ImportCmd returns the import command.
func ImportCmd(app *App) *cobra.Command {
	var fromOpenAPI bool
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import form definitions from a JSON/YAML file or directory",
		Long: `Import form definitions. A directory is walked for .json, .yaml and .yml
files. Each definition is replayed as new form, add fields, save, so imported
forms receive fresh ids. The last imported form becomes the current form.
With --openapi the file is an exported OpenAPI submission contract.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			var (
				defs []formfile.Definition
				err  error
			)
			switch info, statErr := os.Stat(path); {
			case statErr != nil:
				return fmt.Errorf("import: %w", statErr)
			case fromOpenAPI:
				defs, err = definitionsFromOpenAPI(cmd, path)
			case info.IsDir():
				defs, err = formfile.LoadFS(os.DirFS(path))
			default:
				defs, err = formfile.LoadFile(os.DirFS(filepath.Dir(path)), filepath.Base(path))
			}
			if err != nil {
				return err
			}
			if len(defs) == 0 {
				printWarn(app.out, "No form definitions found in %s", path)
				return nil
			}

			ids := formfile.Import(app.store, defs)
			if err := app.commit(cmd.Context()); err != nil {
				return err
			}
			for _, id := range ids {
				form, _ := app.store.Form(id)
				printOK(app.out, "Imported form %s: %s", id, form.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromOpenAPI, "openapi", false, "read an OpenAPI document produced by 'export --format openapi'")
	return cmd
}

func definitionsFromOpenAPI(cmd *cobra.Command, path string) ([]formfile.Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	doc, err := openapi.Parse(cmd.Context(), raw)
	if err != nil {
		return nil, err
	}
	form, err := openapi.FormFromDocument(doc)
	if err != nil {
		return nil, err
	}
	def := formfile.DefinitionOf(form)
	def.Source = path
	return []formfile.Definition{def}, nil
}
