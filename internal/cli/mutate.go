package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/pinmap/internal/app"
	"github.com/five82/pinmap/internal/pin"
)

func newAddCmd(flags *sessionFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add LAT LNG [REMARKS...]",
		Short: "Add a pin and look up its address",
		Example: `  pinmap add 51.505 -0.09 Home
  pinmap add -- -33.8568 151.2153 "Opera House"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, lng, err := parseCoordinates(args[0], args[1])
			if err != nil {
				return err
			}
			remarks := strings.Join(args[2:], " ")
			return withSession(flags, func(s *app.Session) error {
				p := s.Repo.Create(cmd.Context(), lat, lng, remarks)
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", p.ID.Short(), p.Address)
				warnIfDegraded(cmd, s.Repo)
				return nil
			})
		},
	}
}

func newRemarkCmd(flags *sessionFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remark ID REMARKS...",
		Short: "Replace a pin's remarks",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(flags, func(s *app.Session) error {
				id, err := resolveID(s.Repo, args[0])
				if err != nil {
					return err
				}
				p, err := s.Repo.Update(id, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", p.ID.Short(), p.Label())
				warnIfDegraded(cmd, s.Repo)
				return nil
			})
		},
	}
}

func newRmCmd(flags *sessionFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a pin",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(flags, func(s *app.Session) error {
				id, err := resolveID(s.Repo, args[0])
				if err != nil {
					return err
				}
				s.Repo.Delete(id)
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id.Short())
				warnIfDegraded(cmd, s.Repo)
				return nil
			})
		},
	}
}

func parseCoordinates(latArg, lngArg string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latArg), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("latitude %q: not a number", latArg)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngArg), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("longitude %q: not a number", lngArg)
	}
	if err := pin.ValidateCoordinates(lat, lng); err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}
