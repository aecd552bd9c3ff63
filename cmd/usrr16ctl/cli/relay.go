package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/go-usrr16/usrr16"
	"github.com/spf13/cobra"
)

func parseRelay(arg string) (int, error) {
	relay, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid relay %q: %w", arg, err)
	}
	if relay < usrr16.MinRelay || relay > usrr16.MaxRelay {
		return 0, fmt.Errorf("%w: expected %d-%d, got %d", usrr16.ErrInvalidRelay, usrr16.MinRelay, usrr16.MaxRelay, relay)
	}

	return relay, nil
}

func (a *app) newSwitchCmd(use, short string, op func(*usrr16.Client, int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			relay, err := parseRelay(args[0])
			if err != nil {
				return err
			}

			name := strings.Fields(use)[0]
			return a.withClient(cmd.Context(), func(client *usrr16.Client) error {
				if err := op(client, relay); err != nil {
					return fmt.Errorf("failed to %s relay %d: %w", name, relay, err)
				}
				on, err := client.State(relay)
				if err != nil {
					return fmt.Errorf("failed to query relay %d: %w", relay, err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "relay %d %s\n", relay, newStyles(out).state(on))

				return nil
			})
		},
	}
}

func (a *app) newAllOffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all-off",
		Short: "Turn every relay off",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd.Context(), func(client *usrr16.Client) error {
				if err := client.TurnOffAll(); err != nil {
					return fmt.Errorf("failed to turn off all relays: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "all relays off")

				return nil
			})
		},
	}
}

func (a *app) newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state <relay>",
		Short: "Show the state of a relay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			relay, err := parseRelay(args[0])
			if err != nil {
				return err
			}

			return a.withClient(cmd.Context(), func(client *usrr16.Client) error {
				on, err := client.State(relay)
				if err != nil {
					return fmt.Errorf("failed to query relay %d: %w", relay, err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "relay %d %s\n", relay, newStyles(out).state(on))

				return nil
			})
		},
	}
}
