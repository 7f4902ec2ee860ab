package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/six-degrees/internal/model"
)

// substantiveBody is long enough to clear the short-body threshold.
const substantiveBody = "Hi, I wanted to follow up on our discussion about the project. " +
	"Let me know when you have time to chat this week."

func TestClassifierRules(t *testing.T) {
	tests := []struct {
		name           string
		msg            model.RawMessage
		wantRule       string
		wantConfidence float64
		wantDrop       bool
	}{
		{
			name: "automated sender",
			msg: model.RawMessage{
				ID:   "m1",
				From: "noreply@service.com",
				Body: substantiveBody,
			},
			wantDrop:       true,
			wantRule:       RuleAutomatedSender,
			wantConfidence: 0.9,
		},
		{
			name: "bulk mailer domain",
			msg: model.RawMessage{
				ID:   "m2",
				From: "Campaign Bot <campaigns@mailchimp.com>",
				Body: substantiveBody,
			},
			wantDrop:       true,
			wantRule:       RuleBulkDomain,
			wantConfidence: 0.8,
		},
		{
			name: "newsletter subject prefix",
			msg: model.RawMessage{
				ID:      "m3",
				From:    "newsletter@company.com",
				Subject: "[Newsletter] Weekly Update",
				Body:    substantiveBody,
			},
			wantDrop:       true,
			wantRule:       RuleSubjectPattern,
			wantConfidence: 0.7,
		},
		{
			name: "unsubscribe boilerplate in body",
			msg: model.RawMessage{
				ID:   "m4",
				From: "founder@startup.io",
				Body: "Big news this month! Click here to unsubscribe if you no longer wish to hear from us.",
			},
			wantDrop:       true,
			wantRule:       RuleBodyPattern,
			wantConfidence: 0.6,
		},
		{
			name: "short body",
			msg: model.RawMessage{
				ID:   "m5",
				From: "friend@example.com",
				Body: "ok",
			},
			wantDrop:       true,
			wantRule:       RuleShortBody,
			wantConfidence: 0.5,
		},
		{
			name: "mass recipient list",
			msg: model.RawMessage{
				ID:   "m6",
				From: "organizer@example.com",
				To:   strings.Repeat("person@example.com, ", 11),
				Body: substantiveBody,
			},
			wantDrop:       true,
			wantRule:       RuleRecipientCount,
			wantConfidence: 0.6,
		},
		{
			name: "promotions label",
			msg: model.RawMessage{
				ID:       "m7",
				From:     "deals@shop.example.com",
				Body:     substantiveBody,
				LabelIDs: []string{"INBOX", "CATEGORY_PROMOTIONS"},
			},
			wantDrop:       true,
			wantRule:       RuleBulkLabel,
			wantConfidence: 0.7,
		},
		{
			name: "google notification sender",
			msg: model.RawMessage{
				ID:   "m8",
				From: "Google <password-assistance@accounts.google.com>",
				Body: substantiveBody,
			},
			// The generic sender patterns do not match this address, so it
			// falls through to the exact-sender list.
			wantDrop:       true,
			wantRule:       RuleNotificationSender,
			wantConfidence: 0.9,
		},
		{
			name: "personal correspondence kept",
			msg: model.RawMessage{
				ID:      "m9",
				From:    "colleague@company.com",
				To:      "user@example.com",
				Subject: "Re: Project Discussion",
				Body:    substantiveBody,
			},
			wantDrop:       false,
			wantConfidence: 0,
		},
	}

	classifier, err := New()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := classifier.Classify(tt.msg)

			assert.Equal(t, tt.msg.ID, verdict.MessageID)
			assert.Equal(t, tt.wantDrop, verdict.Drop)
			assert.Equal(t, tt.wantRule, verdict.Rule)
			assert.InDelta(t, tt.wantConfidence, verdict.Confidence, 0.001)
			assert.NotEmpty(t, verdict.Reason)
		})
	}
}

func TestClassifierRulePriority(t *testing.T) {
	classifier, err := New()
	require.NoError(t, err)

	// Matches both the automated-sender rule and the short-body rule; the
	// sender rule is evaluated first and wins.
	msg := model.RawMessage{
		ID:   "m1",
		From: "noreply@service.com",
		Body: "hi",
	}

	verdict := classifier.Classify(msg)
	assert.True(t, verdict.Drop)
	assert.Equal(t, RuleAutomatedSender, verdict.Rule)
	assert.InDelta(t, 0.9, verdict.Confidence, 0.001)
}

func TestClassifyIsPure(t *testing.T) {
	classifier, err := New()
	require.NoError(t, err)

	msg := model.RawMessage{
		ID:      "m1",
		From:    "colleague@company.com",
		Subject: "Lunch?",
		Body:    substantiveBody,
	}

	first := classifier.Classify(msg)
	second := classifier.Classify(msg)
	assert.Equal(t, first, second)
}

func TestClassifierCustomThresholds(t *testing.T) {
	classifier, err := NewWithConfig(Config{MinBodyLength: 5, MaxRecipients: 1})
	require.NoError(t, err)

	short := classifier.Classify(model.RawMessage{ID: "m1", From: "a@b.com", Body: "hey there"})
	assert.False(t, short.Drop)

	crowded := classifier.Classify(model.RawMessage{
		ID:   "m2",
		From: "a@b.com",
		To:   "x@example.com, y@example.com",
		Body: substantiveBody,
	})
	assert.True(t, crowded.Drop)
	assert.Equal(t, RuleRecipientCount, crowded.Rule)
}

func TestClassifierShortBodyCountsRunes(t *testing.T) {
	classifier, err := New()
	require.NoError(t, err)

	// 40 characters but 120 bytes; the threshold is in characters.
	short := classifier.Classify(model.RawMessage{
		ID:      "m1",
		From:    "Alice <alice@acme.com>",
		Subject: "Re: 打ち合わせ",
		Body:    strings.Repeat("予", 40),
	})
	assert.True(t, short.Drop)
	assert.Equal(t, RuleShortBody, short.Rule)

	long := classifier.Classify(model.RawMessage{
		ID:      "m2",
		From:    "Alice <alice@acme.com>",
		Subject: "Re: 打ち合わせ",
		Body:    strings.Repeat("来週の打ち合わせの件ですが", 5),
	})
	assert.False(t, long.Drop)
}

func TestSenderDomain(t *testing.T) {
	tests := []struct {
		sender string
		want   string
	}{
		{"alice@example.com", "example.com"},
		{"bot <campaigns@mailchimp.com>", "mailchimp.com"},
		{"no address here", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, senderDomain(tt.sender), tt.sender)
	}
}
