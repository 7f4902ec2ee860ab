// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/six-degrees/internal/model"
)

// InteractionFilter defines filtering options for interaction queries.
type InteractionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	PersonID  int64
	Limit     int
	Offset    int
}

// Storage defines the contract for our persistence layer. Every create
// operation is idempotent on its natural key so overlapping batches can be
// loaded more than once without duplicating rows.
type Storage interface {
	// Account operations
	CreateOrGetUser(ctx context.Context, email, name string) (int64, error)

	// Entity operations
	CreateOrGetPerson(ctx context.Context, userID int64, person model.PersonCandidate, companyID int64) (int64, error)
	CreateOrGetCompany(ctx context.Context, company model.CompanyCandidate) (int64, error)
	CreateOrGetExpertiseArea(ctx context.Context, name, description string) (int64, error)
	AddPersonExpertise(ctx context.Context, personID, areaID int64, confidence float64, evidence string) error
	GetPeople(ctx context.Context, userID int64) ([]model.Person, error)
	GetCompanies(ctx context.Context) ([]model.Company, error)

	// Interaction operations
	CreateInteraction(ctx context.Context, userID int64, interaction model.InteractionRecord) (int64, error)
	AddParticipant(ctx context.Context, interactionID, personID int64, role string) error
	GetInteractions(ctx context.Context, userID int64, filter InteractionFilter) ([]model.StoredInteraction, error)

	// Processing bookkeeping
	MarkMessageProcessed(ctx context.Context, userID int64, messageID, threadID string) error
	MarkMessageFiltered(ctx context.Context, userID int64, messageID, reason string) error
	IsMessageProcessed(ctx context.Context, userID int64, messageID string) (bool, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
