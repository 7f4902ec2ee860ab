package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/six-degrees/internal/extract"
	"github.com/Veraticus/six-degrees/internal/model"
)

// Processor runs extraction over one thread at a time. The running people
// and company sets live here, scoped to a single thread, so extraction for
// later messages can reference people surfaced by earlier ones.
type Processor struct {
	backend extract.Backend
	logger  *slog.Logger
}

// NewProcessor creates a thread processor over the given backend.
func NewProcessor(backend extract.Backend, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{backend: backend, logger: logger}
}

// ProcessThread walks the thread's messages in order, accumulating
// deduplicated people and companies as it goes, then summarizes threads of
// two or more messages. Any backend error fails the whole thread.
func (p *Processor) ProcessThread(ctx context.Context, thread model.Thread) (*model.ThreadResult, error) {
	result := &model.ThreadResult{ThreadID: thread.ID}
	seenPeople := make(map[string]struct{})
	seenCompanies := make(map[string]struct{})

	for _, msg := range thread.Messages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		people, companies, err := p.backend.ExtractEntities(ctx, msg)
		if err != nil {
			return nil, fmt.Errorf("entity extraction for message %s: %w", msg.ID, err)
		}

		for _, person := range people {
			key := person.Key()
			if _, ok := seenPeople[key]; ok {
				continue
			}
			seenPeople[key] = struct{}{}
			result.People = append(result.People, person)
		}

		for _, company := range companies {
			key := company.Key()
			if _, ok := seenCompanies[key]; ok {
				continue
			}
			seenCompanies[key] = struct{}{}
			result.Companies = append(result.Companies, company)
		}

		interaction, err := p.backend.ExtractInteraction(ctx, msg)
		if err != nil {
			return nil, fmt.Errorf("interaction extraction for message %s: %w", msg.ID, err)
		}

		// Roles and expertise see every person surfaced so far in the
		// thread, current message included.
		participants, err := p.backend.ExtractParticipantRoles(ctx, msg, result.People)
		if err != nil {
			return nil, fmt.Errorf("role extraction for message %s: %w", msg.ID, err)
		}
		interaction.Participants = participants
		result.Interactions = append(result.Interactions, interaction)

		expertise, err := p.backend.ExtractExpertise(ctx, msg, result.People)
		if err != nil {
			return nil, fmt.Errorf("expertise extraction for message %s: %w", msg.ID, err)
		}
		result.Expertise = append(result.Expertise, expertise...)

		result.ProcessedIDs = append(result.ProcessedIDs, msg.ID)
	}

	if len(thread.Messages) >= 2 {
		summary, err := p.backend.SummarizeThread(ctx, thread)
		if err != nil {
			return nil, fmt.Errorf("summary for thread %s: %w", thread.ID, err)
		}
		result.Summary = summary
	}

	p.logger.Debug("processed thread",
		"thread_id", thread.ID,
		"messages", len(thread.Messages),
		"people", len(result.People),
		"companies", len(result.Companies))

	return result, nil
}
