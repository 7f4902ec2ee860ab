package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/six-degrees/internal/gmail"
)

func authCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Gmail",
		Long: `Run the OAuth2 flow against Gmail and cache the resulting token.

Requires gmail.client_id and gmail.client_secret in config or the
DEGREES_GMAIL_CLIENT_ID / DEGREES_GMAIL_CLIENT_SECRET environment
variables. The token is saved to gmail.token_file for later commands.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			oauthCfg, err := gmailOAuthConfig()
			if err != nil {
				return err
			}

			token, err := gmail.GetOrCreateToken(cmd.Context(), oauthCfg)
			if err != nil {
				return err
			}

			slog.Info("✅ Gmail authentication complete", "expires", token.Expiry)
			return nil
		},
	}
}
