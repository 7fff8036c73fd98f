package cmd

import (
	"net/http"

	"github.com/hyperjump/filebot/internal/cli"
	"github.com/hyperjump/filebot/internal/config"
	"github.com/hyperjump/filebot/internal/models"
	"github.com/spf13/cobra"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var (
		serverURL string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show file counts and disk usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseFormat(output)
			if err != nil {
				return err
			}
			var st *models.IndexStatus
			if serverURL != "" {
				st = &models.IndexStatus{}
				if err := newAPIClient(serverURL).do(cmd.Context(), http.MethodGet, "/api/v1/status", nil, st); err != nil {
					return err
				}
			} else {
				err := opts.withComponents(func(cfg *config.Config, c *Components) error {
					var err error
					st, err = c.Engine.Status(cmd.Context(), &cfg.Storage)
					return err
				})
				if err != nil {
					return err
				}
			}
			return cli.WriteStatus(cmd.OutOrStdout(), st, format)
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", defaultServerURL, "server URL (empty = open the data directory directly)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}
