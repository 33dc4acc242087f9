package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/pinmap/internal/app"
	"github.com/five82/pinmap/internal/pin"
)

func newListCmd(flags *sessionFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pins in the order they were added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(flags, func(s *app.Session) error {
				pins := s.Repo.List()
				if asJSON {
					return writeJSON(cmd, pins)
				}
				return writeTable(cmd, pins)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func writeJSON(cmd *cobra.Command, pins []pin.Pin) error {
	if pins == nil {
		pins = []pin.Pin{}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(pins)
}

func writeTable(cmd *cobra.Command, pins []pin.Pin) error {
	out := cmd.OutOrStdout()
	if len(pins) == 0 {
		_, err := fmt.Fprintln(out, "No pins yet.")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tLAT\tLNG\tREMARKS\tADDRESS")
	for _, p := range pins {
		_, _ = fmt.Fprintf(w, "%s\t%.5f\t%.5f\t%s\t%s\n", p.ID.Short(), p.Lat, p.Lng, p.Label(), p.Address)
	}
	return w.Flush()
}
