package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/six-degrees/internal/common"
	"github.com/Veraticus/six-degrees/internal/extract"
	"github.com/Veraticus/six-degrees/internal/filter"
	"github.com/Veraticus/six-degrees/internal/model"
)

const personalBody = "Hi, I wanted to follow up on our discussion about the project. " +
	"Let me know when you have time to chat this week."

func newTestPipeline(t *testing.T, backend extract.Backend) *Pipeline {
	t.Helper()
	classifier, err := filter.New()
	require.NoError(t, err)
	return NewWithConfig(classifier, backend, nil, Config{Concurrency: 2})
}

func TestRunPartitionsBatch(t *testing.T) {
	p := newTestPipeline(t, extract.NewHeuristicBackend())

	msgs := []model.RawMessage{
		{ID: "m1", ThreadID: "ta", From: "Alice <alice@acme.com>", To: "user@example.com", Subject: "Re: Project Discussion", Body: personalBody, Date: "Mon, 2 Jun 2025 09:00:00 +0000"},
		{ID: "m2", From: "noreply@service.com", Body: personalBody},
		{ID: "m3", ThreadID: "ta", From: "user@example.com", To: "Alice <alice@acme.com>", Subject: "Re: Project Discussion", Body: personalBody, Date: "Mon, 2 Jun 2025 10:00:00 +0000"},
		{ID: "m4", From: "Bob <bob@widgets.io>", To: "user@example.com", Subject: "Re: Coffee", Body: personalBody},
	}

	bundle, err := p.Run(context.Background(), msgs, "user@example.com")
	require.NoError(t, err)

	// Every input message lands in exactly one of the two lists.
	processed := make(map[string]struct{})
	for _, id := range bundle.ProcessedIDs {
		processed[id] = struct{}{}
	}
	filteredIDs := make(map[string]struct{})
	for _, f := range bundle.Filtered {
		filteredIDs[f.MessageID] = struct{}{}
	}
	assert.Len(t, processed, 3)
	assert.Len(t, filteredIDs, 1)
	for _, msg := range msgs {
		_, inProcessed := processed[msg.ID]
		_, inFiltered := filteredIDs[msg.ID]
		assert.True(t, inProcessed != inFiltered, "message %s must be in exactly one list", msg.ID)
	}

	assert.Equal(t, "user@example.com", bundle.AccountEmail)
	assert.Equal(t, 4, bundle.Stats.TotalMessages)
	assert.Equal(t, 3, bundle.Stats.KeptMessages)
	assert.Equal(t, 1, bundle.Stats.FilteredMessages)
	assert.Equal(t, 2, bundle.Stats.Threads)
	assert.Zero(t, bundle.Stats.FailedThreads)

	// The two-message thread produced a summary; the single message did not.
	assert.Len(t, bundle.Summaries, 1)
}

func TestRunIsolatesThreadFailures(t *testing.T) {
	backend := &failingBackend{HeuristicBackend: extract.NewHeuristicBackend(), failOn: "m1"}
	p := newTestPipeline(t, backend)

	msgs := []model.RawMessage{
		{ID: "m1", ThreadID: "ta", From: "alice@acme.com", Subject: "Re: A", Body: personalBody},
		{ID: "m2", ThreadID: "tb", From: "bob@widgets.io", Subject: "Re: B", Body: personalBody},
	}

	bundle, err := p.Run(context.Background(), msgs, "user@example.com")
	require.NoError(t, err)

	assert.Equal(t, []string{"m2"}, bundle.ProcessedIDs)
	require.Len(t, bundle.Errors, 1)
	assert.Equal(t, "ta", bundle.Errors[0].ThreadID)
	assert.Equal(t, []string{"m1"}, bundle.Errors[0].MessageIDs)
	assert.Equal(t, 1, bundle.Stats.FailedThreads)
}

func TestRunRejectsInvalidBatches(t *testing.T) {
	p := newTestPipeline(t, extract.NewHeuristicBackend())
	ctx := context.Background()

	_, err := p.Run(ctx, nil, "")
	assert.ErrorIs(t, err, common.ErrInvalidBatch)

	_, err = p.Run(ctx, []model.RawMessage{{ID: "m1"}, {ID: "m1"}}, "user@example.com")
	assert.ErrorIs(t, err, common.ErrInvalidBatch)

	_, err = p.Run(ctx, []model.RawMessage{{}}, "user@example.com")
	assert.ErrorIs(t, err, common.ErrInvalidBatch)
}

func TestRunEmptyBatch(t *testing.T) {
	p := newTestPipeline(t, extract.NewHeuristicBackend())

	bundle, err := p.Run(context.Background(), []model.RawMessage{}, "user@example.com")
	require.NoError(t, err)

	assert.Empty(t, bundle.ProcessedIDs)
	assert.Empty(t, bundle.Filtered)
	assert.Empty(t, bundle.People)
	assert.Zero(t, bundle.Stats.TotalMessages)
}

func TestRunCanceledContext(t *testing.T) {
	p := newTestPipeline(t, extract.NewHeuristicBackend())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, []model.RawMessage{
		{ID: "m1", From: "alice@acme.com", Subject: "Re: A", Body: personalBody},
	}, "user@example.com")
	require.ErrorIs(t, err, context.Canceled)
}
