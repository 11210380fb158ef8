package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/formfile"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/storage"
)

const formatOpenAPI = "openapi"

// ExportCmd returns the export command.
func ExportCmd(app *App) *cobra.Command {
	var (
		current    bool
		all        bool
		format     string
		output     string
		serverURL  string
		apiVersion string
	)
	cmd := &cobra.Command{
		Use:   "export [formId]",
		Short: "Export a form definition or its OpenAPI submission contract",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				out []byte
				err error
			)
			switch {
			case all && format == formatOpenAPI:
				return fmt.Errorf("--all cannot be combined with --format openapi")
			case all:
				out, err = exportDefinitions(app, format)
			default:
				out, err = exportForm(cmd.Context(), app, args, current, format, serverURL, apiVersion)
			}
			if err != nil {
				return err
			}
			if output == "" {
				_, err = app.out.Write(out)
				return err
			}
			if err := storage.AtomicWriteFile(output, out, 0o644); err != nil {
				return err
			}
			printOK(app.out, "Exported to %s", output)
			return nil
		},
	}
	cmd.Flags().BoolVar(&current, "current", false, "export the in-progress form")
	cmd.Flags().BoolVar(&all, "all", false, "export every saved form as one definition document")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: openapi, json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&serverURL, "server", "", "server URL recorded in the OpenAPI document")
	cmd.Flags().StringVar(&apiVersion, "api-version", "", "info.version of the OpenAPI document (default 1.0.0)")
	return cmd
}

func exportDefinitions(app *App, format string) ([]byte, error) {
	f, err := formfile.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return formfile.EncodeAll(app.store.Forms(), f)
}

func exportForm(ctx context.Context, app *App, args []string, current bool, format, serverURL, apiVersion string) ([]byte, error) {
	form, err := app.resolveForm(args, current)
	if err != nil {
		return nil, err
	}
	if format != formatOpenAPI {
		f, err := formfile.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		return formfile.Encode(form, f)
	}

	opts := []openapi.Option{
		openapi.WithTextMaxLength(app.cfg.TextMaxLength()),
		openapi.WithServerURL(serverURL),
		openapi.WithVersion(apiVersion),
	}
	if app.cfg.Validation.StrictOptions {
		opts = append(opts, openapi.WithStrictOptions())
	}
	doc, err := openapi.Document(form, opts...)
	if err != nil {
		return nil, err
	}
	if err := openapi.Validate(ctx, doc); err != nil {
		return nil, err
	}
	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("openapi: encode: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("openapi: indent: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
