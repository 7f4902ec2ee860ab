// Package model defines the core domain types shared across the pipeline.
package model

import (
	"net/mail"
	"strings"
	"time"
)

// RawMessage is one email as delivered by an ingestion source (Gmail fetch
// or a JSON batch file). Header fields are kept as raw strings; parsing
// happens at the point of use.
type RawMessage struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"thread_id,omitempty"`
	From     string   `json:"from"`
	To       string   `json:"to,omitempty"`
	Cc       string   `json:"cc,omitempty"`
	Bcc      string   `json:"bcc,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Date     string   `json:"date,omitempty"`
	Snippet  string   `json:"snippet,omitempty"`
	Body     string   `json:"body,omitempty"`
	LabelIDs []string `json:"label_ids,omitempty"`
}

// dateLayouts covers Date header shapes seen in real mailboxes that
// mail.ParseDate rejects.
var dateLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	"2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339,
}

// SentAt parses the Date header. The boolean reports whether the header
// carried a usable timestamp; callers choose their own fallback.
func (m *RawMessage) SentAt() (time.Time, bool) {
	raw := strings.TrimSpace(m.Date)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := mail.ParseDate(raw); err == nil {
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ThreadKey returns the grouping key: the provider thread id when present,
// otherwise the message's own id (a single-message thread).
func (m *RawMessage) ThreadKey() string {
	if m.ThreadID != "" {
		return m.ThreadID
	}
	return m.ID
}

// HasLabel reports whether the message carries the given provider label.
func (m *RawMessage) HasLabel(label string) bool {
	for _, l := range m.LabelIDs {
		if l == label {
			return true
		}
	}
	return false
}

// Thread is an ordered conversation: messages sharing a thread key, sorted
// oldest first.
type Thread struct {
	ID       string       `json:"id"`
	Messages []RawMessage `json:"messages"`
}
