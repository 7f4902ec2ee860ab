package extract

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/six-degrees/internal/model"
)

func TestHeuristicExtractEntities(t *testing.T) {
	backend := NewHeuristicBackend()

	msg := model.RawMessage{
		ID:   "m1",
		From: "Alice Johnson <alice@acme.com>",
		To:   "bob@acme.com, Carol Smith <carol@widgets.io>",
		Cc:   "alice@acme.com",
	}

	people, companies, err := backend.ExtractEntities(context.Background(), msg)
	require.NoError(t, err)

	// Alice appears in both From and Cc but is extracted once.
	require.Len(t, people, 3)
	assert.Equal(t, "Alice Johnson", people[0].Name)
	assert.Equal(t, "alice@acme.com", people[0].Email)
	assert.InDelta(t, 0.9, people[0].Confidence, 0.001)
	assert.Equal(t, "found in email headers", people[0].Context)

	// Bob has no display name, so the local part stands in.
	assert.Equal(t, "bob", people[1].Name)
	assert.Equal(t, "Carol Smith", people[2].Name)

	// Alice and Bob share a domain, so only two companies emerge.
	require.Len(t, companies, 2)
	assert.Equal(t, "Acme", companies[0].Name)
	assert.Equal(t, "acme.com", companies[0].Domain)
	assert.InDelta(t, 0.7, companies[0].Confidence, 0.001)
	assert.Equal(t, "Widgets", companies[1].Name)
	assert.Equal(t, "widgets.io", companies[1].Domain)
}

func TestHeuristicExtractEntitiesMalformedHeaders(t *testing.T) {
	backend := NewHeuristicBackend()

	msg := model.RawMessage{
		ID:   "m1",
		From: "not an address at all",
		To:   ", , <<>>",
	}

	people, companies, err := backend.ExtractEntities(context.Background(), msg)
	require.NoError(t, err)
	assert.Empty(t, people)
	assert.Empty(t, companies)
}

func TestHeuristicExtractInteraction(t *testing.T) {
	backend := NewHeuristicBackend()

	msg := model.RawMessage{
		ID:       "m1",
		ThreadID: "t1",
		From:     "alice@acme.com",
		Subject:  "Budget review",
		Date:     "Mon, 2 Jun 2025 10:30:00 -0700",
		Snippet:  "Here are the Q3 numbers",
		Body:     "Here are the Q3 numbers we discussed last week.",
	}

	record, err := backend.ExtractInteraction(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, "m1", record.MessageID)
	assert.Equal(t, "t1", record.ThreadID)
	assert.Equal(t, "Budget review", record.Subject)
	assert.Equal(t, "Here are the Q3 numbers", record.Summary)
	assert.Equal(t, model.KindEmail, record.Kind)
	assert.Equal(t, model.OutcomeHeuristic, record.Outcome)
	assert.Equal(t, 2025, record.Date.Year())
	assert.Equal(t, time.June, record.Date.Month())
}

func TestHeuristicInteractionDateFallback(t *testing.T) {
	fixed := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	backend := NewHeuristicBackend()
	backend.now = func() time.Time { return fixed }

	msg := model.RawMessage{
		ID:   "m1",
		Date: "sometime last tuesday",
		Body: "A body without a usable date header.",
	}

	record, err := backend.ExtractInteraction(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, fixed, record.Date)
}

func TestHeuristicInteractionBodyPreview(t *testing.T) {
	backend := NewHeuristicBackend()

	long := make([]byte, 400)
	for i := range long {
		long[i] = 'a'
	}

	record, err := backend.ExtractInteraction(context.Background(), model.RawMessage{ID: "m1", Body: string(long)})
	require.NoError(t, err)
	assert.Len(t, record.Summary, interactionPreviewLen)
}

func TestHeuristicInteractionBodyPreviewMultibyte(t *testing.T) {
	backend := NewHeuristicBackend()

	// 200 three-byte runes; a byte-index cut would land mid-rune.
	long := strings.Repeat("会", 200)

	record, err := backend.ExtractInteraction(context.Background(), model.RawMessage{ID: "m1", Body: long})
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(record.Summary))
	assert.Equal(t, interactionPreviewLen, utf8.RuneCountInString(record.Summary))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "短い", truncateRunes("短い", 10))
	assert.Equal(t, "会議会議", truncateRunes("会議会議の予定", 4))
	assert.True(t, utf8.ValidString(truncateRunes(strings.Repeat("é", 50), 7)))
}

func TestHeuristicEmptyExpertiseAndRoles(t *testing.T) {
	backend := NewHeuristicBackend()
	ctx := context.Background()

	known := []model.PersonCandidate{{Name: "Alice", Email: "alice@acme.com"}}

	expertise, err := backend.ExtractExpertise(ctx, model.RawMessage{ID: "m1"}, known)
	require.NoError(t, err)
	assert.Empty(t, expertise)

	roles, err := backend.ExtractParticipantRoles(ctx, model.RawMessage{ID: "m1"}, known)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestHeuristicSummarizeThread(t *testing.T) {
	backend := NewHeuristicBackend()
	ctx := context.Background()

	single := model.Thread{ID: "t1", Messages: []model.RawMessage{{ID: "m1"}}}
	summary, err := backend.SummarizeThread(ctx, single)
	require.NoError(t, err)
	assert.Nil(t, summary)

	multi := model.Thread{ID: "t2", Messages: []model.RawMessage{
		{ID: "m1", Subject: "Project kickoff"},
		{ID: "m2", Subject: "Re: Project kickoff"},
	}}
	summary, err = backend.SummarizeThread(ctx, multi)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Contains(t, summary.Summary, "2-message thread")
	assert.Contains(t, summary.Summary, "Project kickoff")
}
