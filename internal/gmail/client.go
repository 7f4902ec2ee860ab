// Package gmail fetches messages from the Gmail API and converts them into
// raw messages for the pipeline.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/Veraticus/six-degrees/internal/common"
	"github.com/Veraticus/six-degrees/internal/model"
)

const listPageSize = 100

// Client wraps the Gmail API for read-only message fetching.
type Client struct {
	service *gmailapi.Service
	logger  *slog.Logger
}

// NewClient creates a Gmail client authenticated with the given token.
func NewClient(ctx context.Context, config OAuth2Config, token *oauth2.Token, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := config.oauthConfig().Client(ctx, token)
	service, err := gmailapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gmail service: %w", common.ErrGmailConnection, err)
	}

	return &Client{service: service, logger: logger}, nil
}

// AccountEmail returns the authenticated account's address.
func (c *Client) AccountEmail(ctx context.Context) (string, error) {
	profile, err := c.service.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: failed to get profile: %w", common.ErrGmailConnection, err)
	}
	return profile.EmailAddress, nil
}

// FetchMessages lists messages matching the Gmail search query and fetches
// each in full, up to maxMessages. The progress callback, when non-nil, is
// invoked after every fetched message.
func (c *Client) FetchMessages(ctx context.Context, query string, maxMessages int, progress func(fetched, total int)) ([]model.RawMessage, error) {
	ids, err := c.listMessageIDs(ctx, query, maxMessages)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: query %q matched nothing", common.ErrNoMessages, query)
	}

	c.logger.Info("fetching messages", "count", len(ids), "query", query)

	messages := make([]model.RawMessage, 0, len(ids))
	for i, id := range ids {
		msg, err := c.service.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
		if err != nil {
			// A single unreadable message shouldn't abort the batch.
			c.logger.Warn("failed to fetch message", "id", id, "error", err)
			continue
		}
		messages = append(messages, convertMessage(msg))
		if progress != nil {
			progress(i+1, len(ids))
		}
	}

	return messages, nil
}

func (c *Client) listMessageIDs(ctx context.Context, query string, maxMessages int) ([]string, error) {
	var (
		ids       []string
		pageToken string
	)
	for {
		call := c.service.Users.Messages.List("me").
			Q(query).
			MaxResults(listPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list messages: %w", common.ErrGmailConnection, err)
		}

		for _, m := range resp.Messages {
			ids = append(ids, m.Id)
			if maxMessages > 0 && len(ids) >= maxMessages {
				return ids, nil
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return ids, nil
		}
	}
}

// convertMessage maps an API message onto the pipeline's raw representation.
func convertMessage(msg *gmailapi.Message) model.RawMessage {
	raw := model.RawMessage{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
		LabelIDs: msg.LabelIds,
	}
	if msg.Payload == nil {
		return raw
	}

	for _, header := range msg.Payload.Headers {
		switch strings.ToLower(header.Name) {
		case "from":
			raw.From = header.Value
		case "to":
			raw.To = header.Value
		case "cc":
			raw.Cc = header.Value
		case "bcc":
			raw.Bcc = header.Value
		case "subject":
			raw.Subject = header.Value
		case "date":
			raw.Date = header.Value
		}
	}

	raw.Body = extractBody(msg.Payload)
	return raw
}

// extractBody walks the MIME tree preferring the first text/plain part and
// falling back to text/html.
func extractBody(payload *gmailapi.MessagePart) string {
	if body := findPart(payload, "text/plain"); body != "" {
		return body
	}
	return findPart(payload, "text/html")
}

func findPart(part *gmailapi.MessagePart, mimeType string) string {
	if part == nil {
		return ""
	}
	if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
		return decodeBody(part.Body.Data)
	}
	for _, child := range part.Parts {
		if body := findPart(child, mimeType); body != "" {
			return body
		}
	}
	return ""
}

func decodeBody(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}
