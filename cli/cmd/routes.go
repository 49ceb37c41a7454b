package cmd

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/topi314/statusdemo/server"
)

func NewRoutesCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "routes",
		GroupID: "actions",
		Short:   "Lists the api routes of the statusdemo server",
		Example: `statusdemo routes

Will list every route with the query it needs, its status and the id it answers with.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), routesTable())
			return err
		},
	}

	parent.AddCommand(cmd)
}

const statusColumn = 2

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// routesTable renders every api outcome plus the catch all 404 row, the status column is colored by class.
func routesTable() string {
	statuses := make([]int, 0, len(server.Endpoints)+1)
	rows := make([][]string, 0, len(server.Endpoints)+1)
	for _, endpoint := range server.Endpoints {
		statuses = append(statuses, endpoint.Status)
		rows = append(rows, []string{
			endpoint.Path,
			orDash(endpoint.Query),
			strconv.Itoa(endpoint.Status),
			orDash(endpoint.Payload.ID),
			endpoint.Payload.Message,
		})
	}
	statuses = append(statuses, http.StatusNotFound)
	rows = append(rows, []string{"*", "-", strconv.Itoa(http.StatusNotFound), server.PayloadNotFound.ID, server.PayloadNotFound.Message})

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PATH", "QUERY", "STATUS", "ID", "MESSAGE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 { // lipgloss v0.9.1 renders the header as row 0
				return tableHeaderStyle
			}
			// data rows start after the header
			i := row - 1
			if col == statusColumn && i >= 0 && i < len(statuses) {
				return statusStyle(statuses[i]).Copy().Padding(0, 1)
			}
			return tableCellStyle
		}).
		String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func routeCompletion(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var paths []string
	for _, endpoint := range server.Endpoints {
		if strings.HasPrefix(endpoint.Path, toComplete) && !slices.Contains(paths, endpoint.Path) {
			paths = append(paths, endpoint.Path)
		}
	}
	return paths, cobra.ShellCompDirectiveNoFileComp
}
