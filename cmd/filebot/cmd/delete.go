package cmd

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/hyperjump/filebot/internal/config"
	"github.com/spf13/cobra"
)

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var serverURL string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an indexed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if serverURL != "" {
				if err := newAPIClient(serverURL).do(cmd.Context(), http.MethodDelete, "/api/v1/files/"+url.PathEscape(id), nil, nil); err != nil {
					return err
				}
			} else {
				err := opts.withComponents(func(_ *config.Config, c *Components) error {
					return c.Indexer.DeleteFile(cmd.Context(), id)
				})
				if err != nil {
					return err
				}
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return err
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", defaultServerURL, "server URL (empty = open the data directory directly)")
	return cmd
}
