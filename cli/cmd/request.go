package cmd

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/topi314/statusdemo/internal/ezhttp"
)

var (
	successStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	clientErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	serverErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	headerStyle      = lipgloss.NewStyle().Faint(true)
)

func NewRequestCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "request [path]",
		GroupID: "actions",
		Short:   "Sends a request to the statusdemo server",
		Example: `statusdemo request /badRequest --query valid=true --format xml

Will request /badRequest?valid=true and ask for an xml response.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: routeCompletion,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("server", cmd.Flags().Lookup("server")); err != nil {
				return err
			}
			if err := viper.BindPFlag("format", cmd.Flags().Lookup("format")); err != nil {
				return err
			}
			if err := viper.BindPFlag("method", cmd.Flags().Lookup("method")); err != nil {
				return err
			}
			return viper.BindPFlag("query", cmd.Flags().Lookup("query"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			accept, err := acceptFor(viper.GetString("format"))
			if err != nil {
				return err
			}

			target, err := buildTarget(args[0], viper.GetStringSlice("query"))
			if err != nil {
				return err
			}

			method := strings.ToUpper(viper.GetString("method"))
			rs, err := ezhttp.Do(method, target, accept, nil)
			if err != nil {
				return fmt.Errorf("failed to send request: %w", err)
			}
			defer rs.Body.Close()

			body, err := io.ReadAll(rs.Body)
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}

			cmd.Println(statusStyle(rs.StatusCode).Render(fmt.Sprintf("%s %s", method, rs.Status)))
			cmd.Println(headerStyle.Render(fmt.Sprintf("%s: %s", ezhttp.HeaderContentType, rs.Header.Get(ezhttp.HeaderContentType))))
			cmd.Println(headerStyle.Render(fmt.Sprintf("Size: %s", humanize.Bytes(uint64(len(body))))))
			cmd.Println()
			cmd.Println(string(body))
			return nil
		},
	}

	parent.AddCommand(cmd)

	cmd.Flags().StringP("server", "s", "", "Server to send the request to")
	cmd.Flags().StringP("format", "f", "", "Response format to ask for (json or xml)")
	cmd.Flags().StringP("method", "m", "", "HTTP method to use")
	cmd.Flags().StringArrayP("query", "q", nil, "Query parameter as key=value, can be repeated")
}

func acceptFor(format string) (string, error) {
	switch strings.ToLower(format) {
	case "json":
		return ezhttp.ContentTypeJSON, nil
	case "xml":
		return ezhttp.ContentTypeXML, nil
	default:
		return "", fmt.Errorf("unknown format %q, must be json or xml", format)
	}
}

// buildTarget appends the key=value query parameters to path in the given order.
func buildTarget(path string, query []string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(query) == 0 {
		return path, nil
	}

	params := make([]string, 0, len(query))
	for _, q := range query {
		key, value, ok := strings.Cut(q, "=")
		if !ok || key == "" {
			return "", fmt.Errorf("invalid query parameter %q, must be key=value", q)
		}
		params = append(params, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}
	return path + "?" + strings.Join(params, "&"), nil
}

func statusStyle(status int) lipgloss.Style {
	switch {
	case status >= http.StatusInternalServerError:
		return serverErrorStyle
	case status >= http.StatusBadRequest:
		return clientErrorStyle
	default:
		return successStyle
	}
}
