// Package loader persists pipeline output into storage.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/six-degrees/internal/common"
	"github.com/Veraticus/six-degrees/internal/model"
	"github.com/Veraticus/six-degrees/internal/service"
)

// Result summarizes what one bundle load touched.
type Result struct {
	UserID       int64
	People       int
	Companies    int
	Interactions int
	Expertise    int
	Processed    int
	Filtered     int
}

// Loader walks a processed bundle through storage in dependency order so
// every foreign key resolves: user, then companies, then people, then
// expertise, then interactions, then message bookkeeping.
type Loader struct {
	storage service.Storage
	logger  *slog.Logger
}

// New creates a loader writing through the given storage.
func New(storage service.Storage, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{storage: storage, logger: logger}
}

// LoadBundle persists the bundle for its account holder. Storage creates are
// idempotent on their natural keys, so reloading an overlapping bundle is
// safe.
func (l *Loader) LoadBundle(ctx context.Context, bundle *model.ProcessedBundle) (*Result, error) {
	if bundle == nil {
		return nil, fmt.Errorf("%w: bundle is nil", common.ErrInvalidBatch)
	}
	if strings.TrimSpace(bundle.AccountEmail) == "" {
		return nil, fmt.Errorf("%w: account email is empty", common.ErrInvalidBatch)
	}

	userID, err := l.storage.CreateOrGetUser(ctx, bundle.AccountEmail, "")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}
	result := &Result{UserID: userID}

	companyIDs, err := l.loadCompanies(ctx, bundle.Companies, result)
	if err != nil {
		return nil, err
	}

	peopleIDs, err := l.loadPeople(ctx, userID, bundle.People, companyIDs, result)
	if err != nil {
		return nil, err
	}

	if err := l.loadExpertise(ctx, userID, bundle.Expertise, peopleIDs, result); err != nil {
		return nil, err
	}

	if err := l.loadInteractions(ctx, userID, bundle.Interactions, peopleIDs, result); err != nil {
		return nil, err
	}

	if err := l.markMessages(ctx, userID, bundle, result); err != nil {
		return nil, err
	}

	l.logger.Info("bundle loaded",
		"account", bundle.AccountEmail,
		"people", result.People,
		"companies", result.Companies,
		"interactions", result.Interactions,
		"processed", result.Processed,
		"filtered", result.Filtered)

	return result, nil
}

// loadCompanies stores every company and returns lookup maps keyed by domain
// and by name for linking people.
func (l *Loader) loadCompanies(ctx context.Context, companies []model.CompanyCandidate, result *Result) (map[string]int64, error) {
	ids := make(map[string]int64, 2*len(companies))
	for _, company := range companies {
		if strings.TrimSpace(company.Name) == "" {
			continue
		}
		id, err := l.storage.CreateOrGetCompany(ctx, company)
		if err != nil {
			return nil, fmt.Errorf("failed to store company %q: %w", company.Name, err)
		}
		result.Companies++
		if company.Domain != "" {
			ids[strings.ToLower(company.Domain)] = id
		}
		ids[strings.ToLower(company.Name)] = id
	}
	return ids, nil
}

// loadPeople stores every person, linking each to a company via the email
// domain when possible and the company name otherwise. Returns person ids
// keyed the same way candidates dedup.
func (l *Loader) loadPeople(ctx context.Context, userID int64, people []model.PersonCandidate, companyIDs map[string]int64, result *Result) (map[string]int64, error) {
	ids := make(map[string]int64, len(people))
	for _, person := range people {
		if strings.TrimSpace(person.Name) == "" && strings.TrimSpace(person.Email) == "" {
			continue
		}
		if strings.TrimSpace(person.Name) == "" {
			person.Name = person.Email
		}

		id, err := l.storage.CreateOrGetPerson(ctx, userID, person, l.companyFor(person, companyIDs))
		if err != nil {
			return nil, fmt.Errorf("failed to store person %q: %w", person.Name, err)
		}
		result.People++
		ids[person.Key()] = id
		if person.Email != "" {
			ids[strings.ToLower(person.Email)] = id
		}
		ids[strings.ToLower(person.Name)] = id
	}
	return ids, nil
}

func (l *Loader) companyFor(person model.PersonCandidate, companyIDs map[string]int64) int64 {
	if person.Email != "" {
		if at := strings.LastIndex(person.Email, "@"); at >= 0 {
			if id, ok := companyIDs[strings.ToLower(person.Email[at+1:])]; ok {
				return id
			}
		}
	}
	if person.Company != "" {
		if id, ok := companyIDs[strings.ToLower(person.Company)]; ok {
			return id
		}
	}
	return 0
}

// loadExpertise links people to expertise areas. Instances referring to a
// person the bundle never surfaced get a name-only contact row.
func (l *Loader) loadExpertise(ctx context.Context, userID int64, expertise []model.ExpertiseInstance, peopleIDs map[string]int64, result *Result) error {
	for _, instance := range expertise {
		if strings.TrimSpace(instance.PersonName) == "" || strings.TrimSpace(instance.Area) == "" {
			continue
		}

		personID, err := l.resolvePerson(ctx, userID, instance.PersonName, "", peopleIDs)
		if err != nil {
			return err
		}

		areaID, err := l.storage.CreateOrGetExpertiseArea(ctx, instance.Area, instance.Context)
		if err != nil {
			return fmt.Errorf("failed to store expertise area %q: %w", instance.Area, err)
		}

		if err := l.storage.AddPersonExpertise(ctx, personID, areaID, instance.Confidence, instance.Evidence); err != nil {
			return fmt.Errorf("failed to link expertise %q to %q: %w", instance.Area, instance.PersonName, err)
		}
		result.Expertise++
	}
	return nil
}

// loadInteractions stores every interaction and its participants. Dates are
// truncated to the calendar day before persisting.
func (l *Loader) loadInteractions(ctx context.Context, userID int64, interactions []model.InteractionRecord, peopleIDs map[string]int64, result *Result) error {
	for _, interaction := range interactions {
		interaction.Date = truncateToDay(interaction.Date)

		interactionID, err := l.storage.CreateInteraction(ctx, userID, interaction)
		if err != nil {
			return fmt.Errorf("failed to store interaction %q: %w", interaction.MessageID, err)
		}
		result.Interactions++

		for _, participant := range interaction.Participants {
			if strings.TrimSpace(participant.Name) == "" && strings.TrimSpace(participant.Email) == "" {
				continue
			}

			personID, err := l.resolvePerson(ctx, userID, participant.Name, participant.Email, peopleIDs)
			if err != nil {
				return err
			}
			if err := l.storage.AddParticipant(ctx, interactionID, personID, participant.Role); err != nil {
				return fmt.Errorf("failed to link participant to %q: %w", interaction.MessageID, err)
			}
		}
	}
	return nil
}

// resolvePerson finds a person id by email, then by name, creating a minimal
// contact row as a last resort.
func (l *Loader) resolvePerson(ctx context.Context, userID int64, name, email string, peopleIDs map[string]int64) (int64, error) {
	if email != "" {
		if id, ok := peopleIDs[strings.ToLower(email)]; ok {
			return id, nil
		}
	}
	if name != "" {
		if id, ok := peopleIDs[strings.ToLower(name)]; ok {
			return id, nil
		}
	}

	candidate := model.PersonCandidate{Name: name, Email: email}
	if candidate.Name == "" {
		candidate.Name = email
	}
	id, err := l.storage.CreateOrGetPerson(ctx, userID, candidate, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to store person %q: %w", candidate.Name, err)
	}
	if email != "" {
		peopleIDs[strings.ToLower(email)] = id
	}
	peopleIDs[strings.ToLower(candidate.Name)] = id
	return id, nil
}

// markMessages records processed and filtered message ids so later runs can
// skip them.
func (l *Loader) markMessages(ctx context.Context, userID int64, bundle *model.ProcessedBundle, result *Result) error {
	threadByMessage := make(map[string]string, len(bundle.Interactions))
	for _, interaction := range bundle.Interactions {
		threadByMessage[interaction.MessageID] = interaction.ThreadID
	}

	for _, id := range bundle.ProcessedIDs {
		if err := l.storage.MarkMessageProcessed(ctx, userID, id, threadByMessage[id]); err != nil {
			return fmt.Errorf("failed to mark message %q processed: %w", id, err)
		}
		result.Processed++
	}
	for _, filtered := range bundle.Filtered {
		if err := l.storage.MarkMessageFiltered(ctx, userID, filtered.MessageID, filtered.Rule); err != nil {
			return fmt.Errorf("failed to mark message %q filtered: %w", filtered.MessageID, err)
		}
		result.Filtered++
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
