package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/six-degrees/internal/extract"
	"github.com/Veraticus/six-degrees/internal/model"
)

func TestProcessThreadDeduplicatesAcrossMessages(t *testing.T) {
	processor := NewProcessor(extract.NewHeuristicBackend(), nil)

	// Alice and Bob trade three messages; each appears in every message's
	// headers but must surface only once.
	thread := model.Thread{
		ID: "thread-a",
		Messages: []model.RawMessage{
			{ID: "m1", From: "Alice <alice@acme.com>", To: "Bob <bob@widgets.io>"},
			{ID: "m2", From: "Bob <bob@widgets.io>", To: "Alice <alice@acme.com>"},
			{ID: "m3", From: "Alice <alice@acme.com>", To: "Bob <bob@widgets.io>"},
		},
	}

	result, err := processor.ProcessThread(context.Background(), thread)
	require.NoError(t, err)

	require.Len(t, result.People, 2)
	assert.Equal(t, "alice@acme.com", result.People[0].Email)
	assert.Equal(t, "bob@widgets.io", result.People[1].Email)

	require.Len(t, result.Companies, 2)
	assert.Equal(t, "acme.com", result.Companies[0].Domain)
	assert.Equal(t, "widgets.io", result.Companies[1].Domain)

	assert.Len(t, result.Interactions, 3)
	assert.Equal(t, []string{"m1", "m2", "m3"}, result.ProcessedIDs)
	require.NotNil(t, result.Summary)
}

func TestProcessThreadSingleMessageHasNoSummary(t *testing.T) {
	processor := NewProcessor(extract.NewHeuristicBackend(), nil)

	result, err := processor.ProcessThread(context.Background(), model.Thread{
		ID:       "thread-a",
		Messages: []model.RawMessage{{ID: "m1", From: "alice@acme.com"}},
	})
	require.NoError(t, err)
	assert.Nil(t, result.Summary)
	assert.Equal(t, []string{"m1"}, result.ProcessedIDs)
}

// failingBackend errors on a configured message id and otherwise delegates
// to the heuristic backend.
type failingBackend struct {
	*extract.HeuristicBackend
	failOn string
}

func (f *failingBackend) ExtractInteraction(ctx context.Context, msg model.RawMessage) (model.InteractionRecord, error) {
	if msg.ID == f.failOn {
		return model.InteractionRecord{}, errors.New("backend exploded")
	}
	return f.HeuristicBackend.ExtractInteraction(ctx, msg)
}

func TestProcessThreadPropagatesBackendErrors(t *testing.T) {
	backend := &failingBackend{HeuristicBackend: extract.NewHeuristicBackend(), failOn: "m2"}
	processor := NewProcessor(backend, nil)

	_, err := processor.ProcessThread(context.Background(), model.Thread{
		ID: "thread-a",
		Messages: []model.RawMessage{
			{ID: "m1", From: "alice@acme.com"},
			{ID: "m2", From: "bob@widgets.io"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "m2")
}

func TestProcessThreadHonorsCancellation(t *testing.T) {
	processor := NewProcessor(extract.NewHeuristicBackend(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := processor.ProcessThread(ctx, model.Thread{
		ID:       "thread-a",
		Messages: []model.RawMessage{{ID: "m1"}},
	})
	require.ErrorIs(t, err, context.Canceled)
}
