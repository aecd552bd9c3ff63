package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/go-usrr16/usrr16"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// styles renders relay states for one output. Colors are only used when the output is a terminal.
type styles struct {
	on  lipgloss.Style
	off lipgloss.Style
	box lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)

	return styles{
		on:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		off: r.NewStyle().Foreground(lipgloss.Color("1")),
		box: r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

func (s styles) state(on bool) string {
	if on {
		return s.on.Render("ON")
	}

	return s.off.Render("OFF")
}

// states lays the relays out in two rows of eight, like the two banks of the board.
func (s styles) states(addr string, states usrr16.States) string {
	rows := []string{addr}
	for bank := 0; bank < 2; bank++ {
		cells := make([]string, 0, 8)
		for i := 1; i <= 8; i++ {
			relay := bank*8 + i
			cells = append(cells, fmt.Sprintf("%2d %s", relay, s.state(states.IsOn(relay))))
		}
		rows = append(rows, strings.Join(cells, "  "))
	}

	return s.box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)) + "\n"
}

func (a *app) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of every relay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd.Context(), func(client *usrr16.Client) error {
				states, err := client.States()
				if err != nil {
					return fmt.Errorf("failed to query relay states: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprint(out, newStyles(out).states(client.Config().Addr(), states))

				return nil
			})
		},
	}
}
