package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/six-degrees/internal/common"
	"github.com/Veraticus/six-degrees/internal/llm"
	"github.com/Veraticus/six-degrees/internal/model"
	"github.com/Veraticus/six-degrees/internal/service"
)

// ModelBackendConfig tunes the model-backed extractor.
type ModelBackendConfig struct {
	// RateLimit is the maximum model requests per minute.
	RateLimit int
	// Retry configures per-request retry behavior.
	Retry service.RetryOptions
}

// DefaultModelBackendConfig returns the standard tuning.
func DefaultModelBackendConfig() ModelBackendConfig {
	return ModelBackendConfig{RateLimit: 60}
}

// ModelBackend extracts entities with an LLM. Every operation degrades to
// the heuristic result for that one message when the model call fails or
// returns unparsable output; errors never propagate to the caller.
type ModelBackend struct {
	client   llm.Client
	fallback *HeuristicBackend
	limiter  *llm.RateLimiter
	logger   *slog.Logger
	retry    service.RetryOptions
}

// NewModelBackend creates a model-backed extractor with default tuning.
func NewModelBackend(client llm.Client, logger *slog.Logger) *ModelBackend {
	return NewModelBackendWithConfig(client, logger, DefaultModelBackendConfig())
}

// NewModelBackendWithConfig creates a model-backed extractor with custom
// tuning.
func NewModelBackendWithConfig(client llm.Client, logger *slog.Logger, cfg ModelBackendConfig) *ModelBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelBackend{
		client:   client,
		fallback: NewHeuristicBackend(),
		limiter:  llm.NewRateLimiter(cfg.RateLimit),
		logger:   logger,
		retry:    cfg.Retry,
	}
}

// Close releases the rate limiter.
func (b *ModelBackend) Close() {
	b.limiter.Close()
}

// complete runs one rate-limited, retried model call and returns the raw
// completion text.
func (b *ModelBackend) complete(ctx context.Context, userPrompt string) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var content string
	err := common.WithRetry(ctx, func() error {
		var completeErr error
		content, completeErr = b.client.Complete(ctx, jsonOnlySystemPrompt, userPrompt)
		return completeErr
	}, b.retry)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrExtractionFailed, err)
	}

	return content, nil
}

func (b *ModelBackend) degrade(msg model.RawMessage, op string, err error) {
	b.logger.Warn("model extraction failed, using heuristic result",
		"operation", op,
		"message_id", msg.ID,
		"error", err)
}

// ExtractEntities asks the model for people and companies, degrading to
// header parsing on failure.
func (b *ModelBackend) ExtractEntities(ctx context.Context, msg model.RawMessage) ([]model.PersonCandidate, []model.CompanyCandidate, error) {
	content, err := b.complete(ctx, entityPrompt(msg))
	if err != nil {
		b.degrade(msg, "entities", err)
		return b.fallback.ExtractEntities(ctx, msg)
	}

	var wire struct {
		People []struct {
			Name       string  `json:"name"`
			Email      string  `json:"email"`
			Role       string  `json:"role"`
			Company    string  `json:"company"`
			Context    string  `json:"context"`
			Confidence float64 `json:"confidence"`
		} `json:"people"`
		Companies []struct {
			Name       string  `json:"name"`
			Domain     string  `json:"domain"`
			Context    string  `json:"context"`
			Confidence float64 `json:"confidence"`
		} `json:"companies"`
	}

	if err := json.Unmarshal([]byte(llm.CleanMarkdownWrapper(content)), &wire); err != nil {
		b.degrade(msg, "entities", fmt.Errorf("failed to parse JSON response: %w", err))
		return b.fallback.ExtractEntities(ctx, msg)
	}

	people := make([]model.PersonCandidate, 0, len(wire.People))
	for _, p := range wire.People {
		if p.Name == "" && p.Email == "" {
			continue
		}
		people = append(people, model.PersonCandidate{
			Name:       p.Name,
			Email:      p.Email,
			Role:       p.Role,
			Company:    p.Company,
			Context:    p.Context,
			Confidence: llm.ClampConfidence(p.Confidence),
		})
	}

	companies := make([]model.CompanyCandidate, 0, len(wire.Companies))
	for _, c := range wire.Companies {
		if c.Name == "" && c.Domain == "" {
			continue
		}
		companies = append(companies, model.CompanyCandidate{
			Name:       c.Name,
			Domain:     c.Domain,
			Context:    c.Context,
			Confidence: llm.ClampConfidence(c.Confidence),
		})
	}

	return people, companies, nil
}

// ExtractInteraction asks the model for a summary and type, falling back to
// the snippet-based event on failure.
func (b *ModelBackend) ExtractInteraction(ctx context.Context, msg model.RawMessage) (model.InteractionRecord, error) {
	heuristic := func(err error) (model.InteractionRecord, error) {
		b.degrade(msg, "interaction", err)
		record, _ := b.fallback.ExtractInteraction(ctx, msg)
		record.Outcome = model.OutcomeHeuristicFallback
		return record, nil
	}

	content, err := b.complete(ctx, interactionPrompt(msg))
	if err != nil {
		return heuristic(err)
	}

	var wire struct {
		Summary string `json:"interaction_summary"`
		Type    string `json:"interaction_type"`
	}
	if err := json.Unmarshal([]byte(llm.CleanMarkdownWrapper(content)), &wire); err != nil {
		return heuristic(fmt.Errorf("failed to parse JSON response: %w", err))
	}
	if wire.Summary == "" {
		return heuristic(fmt.Errorf("no interaction summary in response"))
	}

	kind := model.KindEmail
	if wire.Type != "" {
		kind = model.InteractionKind(wire.Type)
	}

	// Reuse the heuristic envelope (id, subject, date) and overlay the
	// model's summary.
	record, _ := b.fallback.ExtractInteraction(ctx, msg)
	record.Summary = wire.Summary
	record.Kind = kind
	record.Outcome = model.OutcomeModel
	return record, nil
}

// ExtractExpertise asks the model which known people demonstrated
// expertise. An empty known set short-circuits without an API call.
func (b *ModelBackend) ExtractExpertise(ctx context.Context, msg model.RawMessage, known []model.PersonCandidate) ([]model.ExpertiseInstance, error) {
	if len(known) == 0 {
		return nil, nil
	}

	content, err := b.complete(ctx, expertisePrompt(msg, known))
	if err != nil {
		b.degrade(msg, "expertise", err)
		return nil, nil
	}

	var wire struct {
		Instances []struct {
			PersonName string  `json:"person_name"`
			Area       string  `json:"expertise_area"`
			Evidence   string  `json:"evidence"`
			Context    string  `json:"context"`
			Confidence float64 `json:"confidence"`
		} `json:"expertise_instances"`
	}
	if err := json.Unmarshal([]byte(llm.CleanMarkdownWrapper(content)), &wire); err != nil {
		b.degrade(msg, "expertise", fmt.Errorf("failed to parse JSON response: %w", err))
		return nil, nil
	}

	instances := make([]model.ExpertiseInstance, 0, len(wire.Instances))
	for _, inst := range wire.Instances {
		if inst.PersonName == "" || inst.Area == "" {
			continue
		}
		instances = append(instances, model.ExpertiseInstance{
			PersonName: inst.PersonName,
			Area:       inst.Area,
			Evidence:   inst.Evidence,
			Context:    inst.Context,
			Confidence: llm.ClampConfidence(inst.Confidence),
		})
	}

	return instances, nil
}

// ExtractParticipantRoles asks the model what role each known person played.
func (b *ModelBackend) ExtractParticipantRoles(ctx context.Context, msg model.RawMessage, known []model.PersonCandidate) ([]model.Participant, error) {
	if len(known) == 0 {
		return nil, nil
	}

	content, err := b.complete(ctx, rolesPrompt(msg, known))
	if err != nil {
		b.degrade(msg, "roles", err)
		return nil, nil
	}

	var wire struct {
		Roles []struct {
			PersonName string  `json:"person_name"`
			Email      string  `json:"email"`
			Role       string  `json:"role_in_interaction"`
			IsExpert   bool    `json:"is_expert"`
			Area       string  `json:"expertise_area"`
			Confidence float64 `json:"confidence"`
		} `json:"participant_roles"`
	}
	if err := json.Unmarshal([]byte(llm.CleanMarkdownWrapper(content)), &wire); err != nil {
		b.degrade(msg, "roles", fmt.Errorf("failed to parse JSON response: %w", err))
		return nil, nil
	}

	participants := make([]model.Participant, 0, len(wire.Roles))
	for _, r := range wire.Roles {
		if r.PersonName == "" {
			continue
		}
		participants = append(participants, model.Participant{
			Name:       r.PersonName,
			Email:      r.Email,
			Role:       r.Role,
			IsExpert:   r.IsExpert,
			Expertise:  r.Area,
			Confidence: llm.ClampConfidence(r.Confidence),
		})
	}

	return participants, nil
}

// SummarizeThread asks the model for a thread-level summary, degrading to
// the structural summary on failure.
func (b *ModelBackend) SummarizeThread(ctx context.Context, thread model.Thread) (*model.ThreadSummary, error) {
	if len(thread.Messages) < 2 {
		return nil, nil
	}

	heuristic := func(err error) (*model.ThreadSummary, error) {
		b.logger.Warn("model extraction failed, using heuristic result",
			"operation", "thread_summary",
			"thread_id", thread.ID,
			"error", err)
		return b.fallback.SummarizeThread(ctx, thread)
	}

	content, err := b.complete(ctx, threadSummaryPrompt(thread))
	if err != nil {
		return heuristic(err)
	}

	var wire struct {
		Summary   string   `json:"thread_summary"`
		KeyTopics []string `json:"key_topics"`
		Outcome   string   `json:"business_outcome"`
	}
	if err := json.Unmarshal([]byte(llm.CleanMarkdownWrapper(content)), &wire); err != nil {
		return heuristic(fmt.Errorf("failed to parse JSON response: %w", err))
	}
	if wire.Summary == "" {
		return heuristic(fmt.Errorf("no thread summary in response"))
	}

	return &model.ThreadSummary{
		Summary:   wire.Summary,
		KeyTopics: wire.KeyTopics,
		Outcome:   wire.Outcome,
	}, nil
}
