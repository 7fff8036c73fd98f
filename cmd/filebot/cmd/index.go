package cmd

import (
	"net/http"

	"github.com/hyperjump/filebot/internal/cli"
	"github.com/hyperjump/filebot/internal/config"
	"github.com/hyperjump/filebot/internal/models"
	"github.com/spf13/cobra"
)

func newIndexCmd(opts *rootOptions) *cobra.Command {
	var (
		input     models.FileInput
		serverURL string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index a Telegram file by its file ID",
		Long: `Index a file that the bot can already send by file ID, for example one
forwarded to the bot or posted to a channel before indexing was enabled.`,
		Example: `  filebot index --file-id BQACAgUAAxk... --unique-id AgADqQ... --name The.Matrix.1999.mkv --size 1536000 --type video`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseFormat(output)
			if err != nil {
				return err
			}
			var rec *models.FileRecord
			if serverURL != "" {
				rec = &models.FileRecord{}
				if err := newAPIClient(serverURL).do(cmd.Context(), http.MethodPost, "/api/v1/files", &input, rec); err != nil {
					return err
				}
			} else {
				err := opts.withComponents(func(_ *config.Config, c *Components) error {
					var err error
					rec, err = c.Indexer.IndexFile(cmd.Context(), &input)
					return err
				})
				if err != nil {
					return err
				}
			}
			return cli.WriteFile(cmd.OutOrStdout(), rec, format)
		},
	}
	cmd.Flags().StringVar(&input.FileID, "file-id", "", "Telegram file_id used to re-send the file")
	cmd.Flags().StringVar(&input.FileUniqueID, "unique-id", "", "Telegram file_unique_id (keeps re-indexing idempotent)")
	cmd.Flags().StringVar(&input.FileName, "name", "", "file name")
	cmd.Flags().Int64Var(&input.FileSize, "size", 0, "file size in bytes")
	cmd.Flags().StringVar(&input.FileType, "type", models.FileTypeDocument, "file type: document, video, or audio")
	cmd.Flags().StringVar(&input.MimeType, "mime", "", "MIME type")
	cmd.Flags().StringVar(&input.Caption, "caption", "", "caption text")
	cmd.Flags().StringVar(&serverURL, "server", defaultServerURL, "server URL (empty = open the data directory directly)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	_ = cmd.MarkFlagRequired("file-id")
	return cmd
}
