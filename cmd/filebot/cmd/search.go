package cmd

import (
	"net/http"

	"github.com/hyperjump/filebot/internal/cli"
	"github.com/hyperjump/filebot/internal/config"
	"github.com/hyperjump/filebot/internal/inline"
	"github.com/hyperjump/filebot/internal/models"
	"github.com/spf13/cobra"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		serverURL string
		offset    string
		limit     int
		output    string
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search indexed files the way the inline bot does",
		Long: `Search indexed files with the inline query syntax.

The query is all arguments joined by spaces. Add "| type" to restrict results
to one file type. An empty query lists the newest files.`,
		Example: `  filebot search the matrix
  filebot search "the matrix | video"
  filebot search matrix --offset 10 --output json
  filebot search --server "" matrix          # read the data directory directly`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(output)
			if err != nil {
				return err
			}
			req := models.SearchRequest{Query: buildSearchQuery(args), Offset: offset, Limit: limit}
			if err := req.Validate(); err != nil {
				return err
			}

			var page *models.SearchPage
			if serverURL != "" {
				page = &models.SearchPage{}
				if err := newAPIClient(serverURL).do(cmd.Context(), http.MethodPost, "/api/v1/search", req, page); err != nil {
					return err
				}
			} else {
				err := opts.withComponents(func(_ *config.Config, c *Components) error {
					var err error
					page, err = inline.FetchPage(cmd.Context(), c.Engine, inline.ParseQuery(req.Query), req.Limit, req.Offset)
					return err
				})
				if err != nil {
					return err
				}
			}
			return cli.WriteSearchPage(cmd.OutOrStdout(), page, format)
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", defaultServerURL, "server URL (empty = open the data directory directly)")
	cmd.Flags().StringVar(&offset, "offset", "", "continuation offset from a previous page")
	cmd.Flags().IntVar(&limit, "limit", inline.DefaultPageSize, "results per page")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}
