// Package extract turns raw messages into people, companies, interactions,
// and expertise signals. Two backends implement the same contract: a
// header-based heuristic and an LLM-backed extractor that degrades to the
// heuristic per message when the model fails.
package extract

import (
	"context"

	"github.com/Veraticus/six-degrees/internal/model"
)

// Backend defines the extraction capabilities the pipeline depends on.
// Implementations must be safe for concurrent use; the pipeline calls them
// from multiple workers.
type Backend interface {
	// ExtractEntities returns the people and companies surfaced by one
	// message.
	ExtractEntities(ctx context.Context, msg model.RawMessage) ([]model.PersonCandidate, []model.CompanyCandidate, error)

	// ExtractInteraction renders one message as a relationship event.
	// Participants are attached separately via ExtractParticipantRoles.
	ExtractInteraction(ctx context.Context, msg model.RawMessage) (model.InteractionRecord, error)

	// ExtractExpertise finds expertise demonstrated in the message by
	// already-known people. An empty known set yields an empty result.
	ExtractExpertise(ctx context.Context, msg model.RawMessage, known []model.PersonCandidate) ([]model.ExpertiseInstance, error)

	// ExtractParticipantRoles assigns interaction roles to known people.
	ExtractParticipantRoles(ctx context.Context, msg model.RawMessage, known []model.PersonCandidate) ([]model.Participant, error)

	// SummarizeThread condenses a conversation of at least two messages.
	// Shorter threads yield a nil summary.
	SummarizeThread(ctx context.Context, thread model.Thread) (*model.ThreadSummary, error)
}
