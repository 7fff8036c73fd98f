package cmd

import (
	"fmt"

	"github.com/hyperjump/filebot/internal/config"
	"github.com/spf13/cobra"
)

func newReindexCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the keyword index from the database",
		Long: `Rebuild the keyword index from every stored file. Run it after deleting
the index directory or upgrading to a version with a new index mapping.
The bot must be stopped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withComponents(func(_ *config.Config, c *Components) error {
				n, err := c.Indexer.Reindex(cmd.Context())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Reindexed %d files\n", n)
				return err
			})
		},
	}
}
