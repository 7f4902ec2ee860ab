package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/six-degrees/internal/gmail"
	"github.com/Veraticus/six-degrees/internal/model"
)

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch messages from Gmail into a JSON file",
		Long: `Download messages matching a Gmail search query and write them as a
JSON array suitable for 'degrees process --input'.`,
		RunE: runFetch,
	}

	cmd.Flags().String("query", "", "Gmail search query")
	cmd.Flags().Int("max-messages", 0, "maximum messages to fetch")
	cmd.Flags().String("out", "messages.json", "output file")

	return cmd
}

func runFetch(cmd *cobra.Command, _ []string) error {
	msgs, account, err := fetchFromGmail(cmd)
	if err != nil {
		return err
	}

	outFile, _ := cmd.Flags().GetString("out")
	data, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode messages: %w", err)
	}
	if err := os.WriteFile(outFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write messages: %w", err)
	}

	slog.Info("✅ Messages fetched", "account", account, "count", len(msgs), "file", outFile)
	return nil
}

// fetchFromGmail authenticates against Gmail and downloads messages matching
// the configured query. Returns the messages and the account's address.
func fetchFromGmail(cmd *cobra.Command) ([]model.RawMessage, string, error) {
	ctx := cmd.Context()

	oauthCfg, err := gmailOAuthConfig()
	if err != nil {
		return nil, "", err
	}

	token, err := gmail.GetOrCreateToken(ctx, oauthCfg)
	if err != nil {
		return nil, "", fmt.Errorf("gmail authentication failed: %w", err)
	}

	client, err := gmail.NewClient(ctx, oauthCfg, token, slog.Default())
	if err != nil {
		return nil, "", err
	}

	account, err := client.AccountEmail(ctx)
	if err != nil {
		return nil, "", err
	}

	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		query = viper.GetString("gmail.query")
	}
	maxMessages, _ := cmd.Flags().GetInt("max-messages")
	if maxMessages == 0 {
		maxMessages = viper.GetInt("gmail.max_messages")
	}

	var bar *progressbar.ProgressBar
	msgs, err := client.FetchMessages(ctx, query, maxMessages, func(_, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("[cyan][bold]Fetching messages...[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	})
	if err != nil {
		return nil, "", err
	}

	return msgs, account, nil
}
