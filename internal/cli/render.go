package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/filler"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/storage"
)

// RenderCmd returns the render command.
func RenderCmd(app *App) *cobra.Command {
	var (
		current      bool
		rendererName string
		output       string
		baseURL      string
		csrf         string
		templatesDir string
	)
	cmd := &cobra.Command{
		Use:   "render [formId]",
		Short: "Render a form as HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := app.resolveForm(args, current)
			if err != nil {
				return err
			}

			registry := render.NewRegistry()
			html, err := vanilla.New(vanilla.WithTemplatesDir(templatesDir))
			if err != nil {
				return err
			}
			registry.MustRegister(html)
			terminal, err := tui.New(
				tui.WithPromptDriver(app.promptDriver()),
				tui.WithFillerOptions(app.fillerOptions(false)...),
			)
			if err != nil {
				return err
			}
			registry.MustRegister(terminal)

			renderer, err := registry.Get(rendererName)
			if err != nil {
				return fmt.Errorf("%w (available: %v)", err, registry.List())
			}

			opts := render.RenderOptions{Action: filler.ShareLink(baseURL, form.ID)}
			if csrf != "" {
				opts.HiddenFields = render.MergeHiddenFields(nil, render.CSRFToken("_csrf", csrf))
			}
			out, err := renderer.Render(cmd.Context(), &form, opts)
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
			printOK(app.out, "Form written to %s", output)
			return nil
		},
	}
	cmd.Flags().BoolVar(&current, "current", false, "render the in-progress form")
	cmd.Flags().StringVarP(&rendererName, "renderer", "r", "vanilla", "renderer to use: vanilla or tui")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "base URL of the public fill page")
	cmd.Flags().StringVar(&csrf, "csrf-token", "", "CSRF token emitted as a hidden input")
	cmd.Flags().StringVar(&templatesDir, "templates", "", "directory overriding the embedded templates")
	return cmd
}
