package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/six-degrees/internal/common"
	"github.com/Veraticus/six-degrees/internal/extract"
	"github.com/Veraticus/six-degrees/internal/filter"
	"github.com/Veraticus/six-degrees/internal/model"
)

// Config tunes pipeline behavior.
type Config struct {
	// Concurrency caps the number of threads processed in parallel.
	Concurrency int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Concurrency: 4}
}

// Pipeline runs a full batch: classify, group, extract per thread on a
// bounded worker pool, merge. The extraction backend is fixed at
// construction.
type Pipeline struct {
	classifier  *filter.Classifier
	backend     extract.Backend
	logger      *slog.Logger
	now         func() time.Time
	concurrency int
}

// New creates a pipeline with the default configuration.
func New(classifier *filter.Classifier, backend extract.Backend, logger *slog.Logger) *Pipeline {
	return NewWithConfig(classifier, backend, logger, DefaultConfig())
}

// NewWithConfig creates a pipeline with custom configuration.
func NewWithConfig(classifier *filter.Classifier, backend extract.Backend, logger *slog.Logger, cfg Config) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	return &Pipeline{
		classifier:  classifier,
		backend:     backend,
		logger:      logger,
		now:         time.Now,
		concurrency: cfg.Concurrency,
	}
}

// Run processes one batch for one account holder. A structurally invalid
// batch fails outright; a failing thread is logged, recorded in the bundle,
// and skipped while the rest of the batch completes. An empty batch yields
// a valid empty bundle.
func (p *Pipeline) Run(ctx context.Context, msgs []model.RawMessage, accountEmail string) (*model.ProcessedBundle, error) {
	if err := validateBatch(msgs, accountEmail); err != nil {
		return nil, err
	}

	p.logger.Info("starting batch", "account", accountEmail, "messages", len(msgs))

	kept := make([]model.RawMessage, 0, len(msgs))
	filtered := make([]model.FilteredMessage, 0)
	for _, msg := range msgs {
		verdict := p.classifier.Classify(msg)
		if verdict.Drop {
			filtered = append(filtered, model.FilteredMessage{
				MessageID:  msg.ID,
				Rule:       verdict.Rule,
				Reason:     verdict.Reason,
				Confidence: verdict.Confidence,
			})
			continue
		}
		kept = append(kept, msg)
	}

	threads := GroupThreads(kept, p.now())
	results := make([]*model.ThreadResult, len(threads))
	threadErrs := make([]error, len(threads))

	processor := NewProcessor(p.backend, p.logger)
	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup

	for i, thread := range threads {
		select {
		case <-ctx.Done():
			threadErrs[i] = ctx.Err()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, thread model.Thread) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := processor.ProcessThread(ctx, thread)
			if err != nil {
				threadErrs[i] = err
				return
			}
			results[i] = result
		}(i, thread)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch canceled: %w", err)
	}

	bundle := Merge(results)
	bundle.AccountEmail = accountEmail
	bundle.Filtered = filtered

	for i, err := range threadErrs {
		if err == nil {
			continue
		}
		p.logger.Error("thread processing failed",
			"thread_id", threads[i].ID,
			"messages", len(threads[i].Messages),
			"error", err)
		bundle.Errors = append(bundle.Errors, model.ThreadError{
			ThreadID:   threads[i].ID,
			MessageIDs: messageIDs(threads[i]),
			Err:        err.Error(),
		})
	}

	bundle.Stats = model.ProcessingStats{
		TotalMessages:    len(msgs),
		KeptMessages:     len(kept),
		FilteredMessages: len(filtered),
		Threads:          len(threads),
		FailedThreads:    len(bundle.Errors),
		Degraded:         countDegraded(bundle.Interactions),
	}

	p.logger.Info("batch complete",
		"account", accountEmail,
		"people", len(bundle.People),
		"companies", len(bundle.Companies),
		"interactions", len(bundle.Interactions),
		"filtered", len(filtered),
		"failed_threads", len(bundle.Errors))

	return bundle, nil
}

func validateBatch(msgs []model.RawMessage, accountEmail string) error {
	if accountEmail == "" {
		return fmt.Errorf("%w: account email is required", common.ErrInvalidBatch)
	}

	seen := make(map[string]struct{}, len(msgs))
	for i, msg := range msgs {
		if msg.ID == "" {
			return fmt.Errorf("%w: message at index %d has no id", common.ErrInvalidBatch, i)
		}
		if _, ok := seen[msg.ID]; ok {
			return fmt.Errorf("%w: duplicate message id %s", common.ErrInvalidBatch, msg.ID)
		}
		seen[msg.ID] = struct{}{}
	}

	return nil
}

func messageIDs(thread model.Thread) []string {
	ids := make([]string, 0, len(thread.Messages))
	for _, msg := range thread.Messages {
		ids = append(ids, msg.ID)
	}
	return ids
}

func countDegraded(interactions []model.InteractionRecord) int {
	n := 0
	for _, record := range interactions {
		if record.Outcome == model.OutcomeHeuristicFallback {
			n++
		}
	}
	return n
}
