package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// ResponsesCmd returns the responses command.
func ResponsesCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "responses <formId>",
		Short: "List the responses recorded for a saved form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, ok := app.store.Responses(args[0])
			if !ok {
				return fmt.Errorf("form %q not found\nHint: responses are only kept for saved forms", args[0])
			}
			if asJSON {
				data, err := json.MarshalIndent(list, "", "  ")
				if err != nil {
					return fmt.Errorf("encode responses: %w", err)
				}
				fmt.Fprintln(app.out, string(data))
				return nil
			}
			if len(list) == 0 {
				fmt.Fprintln(app.out, "No responses yet.")
				return nil
			}
			w := tabwriter.NewWriter(app.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tSUBMITTED\tVALUES")
			for idx, response := range list {
				values, err := json.Marshal(response.Values)
				if err != nil {
					return fmt.Errorf("encode response %d: %w", idx, err)
				}
				submitted := "-"
				if !response.SubmittedAt.IsZero() {
					submitted = response.SubmittedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", idx+1, submitted, values)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print responses as JSON")
	return cmd
}
