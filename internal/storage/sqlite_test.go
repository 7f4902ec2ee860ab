package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/six-degrees/internal/model"
	"github.com/Veraticus/six-degrees/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	storage, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	require.NoError(t, storage.Migrate(context.Background()))
	return storage
}

func TestMigrateIsIdempotent(t *testing.T) {
	storage := newTestStorage(t)
	require.NoError(t, storage.Migrate(context.Background()))

	var version int
	require.NoError(t, storage.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestCreateOrGetUser(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	id, err := storage.CreateOrGetUser(ctx, "User@Example.com", "Test User")
	require.NoError(t, err)
	assert.Positive(t, id)

	// Replaying with different casing returns the same row.
	again, err := storage.CreateOrGetUser(ctx, "user@example.com", "Test User")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	_, err = storage.CreateOrGetUser(ctx, "", "nobody")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestCreateOrGetCompany(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	id, err := storage.CreateOrGetCompany(ctx, model.CompanyCandidate{Name: "Acme", Domain: "acme.com"})
	require.NoError(t, err)

	// The domain is the key, not the display name.
	again, err := storage.CreateOrGetCompany(ctx, model.CompanyCandidate{Name: "Acme Corp", Domain: "acme.com"})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	// Domainless companies key on name and don't collide with each other.
	nameOnly, err := storage.CreateOrGetCompany(ctx, model.CompanyCandidate{Name: "Stealth Startup"})
	require.NoError(t, err)
	assert.NotEqual(t, id, nameOnly)

	other, err := storage.CreateOrGetCompany(ctx, model.CompanyCandidate{Name: "Another Startup"})
	require.NoError(t, err)
	assert.NotEqual(t, nameOnly, other)

	companies, err := storage.GetCompanies(ctx)
	require.NoError(t, err)
	assert.Len(t, companies, 3)
}

func TestCreateOrGetPerson(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	userID, err := storage.CreateOrGetUser(ctx, "user@example.com", "")
	require.NoError(t, err)
	companyID, err := storage.CreateOrGetCompany(ctx, model.CompanyCandidate{Name: "Acme", Domain: "acme.com"})
	require.NoError(t, err)

	id, err := storage.CreateOrGetPerson(ctx, userID, model.PersonCandidate{
		Name:  "Alice Smith",
		Email: "alice@acme.com",
	}, 0)
	require.NoError(t, err)

	// Same email resolves to the same row and backfills the company.
	again, err := storage.CreateOrGetPerson(ctx, userID, model.PersonCandidate{
		Name:  "Alice",
		Email: "Alice@Acme.com",
		Role:  "engineer",
	}, companyID)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	people, err := storage.GetPeople(ctx, userID)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "Alice Smith", people[0].Name)
	assert.Equal(t, "engineer", people[0].Role)
	assert.Equal(t, companyID, people[0].CompanyID)

	// People without an email key on name.
	bob, err := storage.CreateOrGetPerson(ctx, userID, model.PersonCandidate{Name: "Bob"}, 0)
	require.NoError(t, err)
	bobAgain, err := storage.CreateOrGetPerson(ctx, userID, model.PersonCandidate{Name: "Bob"}, 0)
	require.NoError(t, err)
	assert.Equal(t, bob, bobAgain)
}

func TestPersonExpertise(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	userID, err := storage.CreateOrGetUser(ctx, "user@example.com", "")
	require.NoError(t, err)
	personID, err := storage.CreateOrGetPerson(ctx, userID, model.PersonCandidate{Name: "Alice", Email: "alice@acme.com"}, 0)
	require.NoError(t, err)

	areaID, err := storage.CreateOrGetExpertiseArea(ctx, "machine learning", "")
	require.NoError(t, err)
	areaAgain, err := storage.CreateOrGetExpertiseArea(ctx, "machine learning", "models and training")
	require.NoError(t, err)
	assert.Equal(t, areaID, areaAgain)

	require.NoError(t, storage.AddPersonExpertise(ctx, personID, areaID, 0.8, "discussed model training"))
	// Replaying the link keeps the first observation.
	require.NoError(t, storage.AddPersonExpertise(ctx, personID, areaID, 0.2, "other evidence"))

	var confidence float64
	require.NoError(t, storage.db.QueryRow(
		`SELECT confidence FROM person_expertise WHERE person_id = ? AND expertise_id = ?`,
		personID, areaID).Scan(&confidence))
	assert.InDelta(t, 0.8, confidence, 0.001)
}

func TestInteractions(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	userID, err := storage.CreateOrGetUser(ctx, "user@example.com", "")
	require.NoError(t, err)
	personID, err := storage.CreateOrGetPerson(ctx, userID, model.PersonCandidate{Name: "Alice", Email: "alice@acme.com"}, 0)
	require.NoError(t, err)

	earlier := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	later := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	firstID, err := storage.CreateInteraction(ctx, userID, model.InteractionRecord{
		Date:      earlier,
		MessageID: "m1",
		ThreadID:  "t1",
		Subject:   "Project kickoff",
		Summary:   "Discussed the project kickoff",
		Kind:      model.KindEmail,
	})
	require.NoError(t, err)

	// Replaying the same message returns the existing interaction.
	replayID, err := storage.CreateInteraction(ctx, userID, model.InteractionRecord{
		Date:      earlier,
		MessageID: "m1",
		Summary:   "different summary",
		Kind:      model.KindEmail,
	})
	require.NoError(t, err)
	assert.Equal(t, firstID, replayID)

	secondID, err := storage.CreateInteraction(ctx, userID, model.InteractionRecord{
		Date:      later,
		MessageID: "m2",
		Summary:   "Follow-up call",
		Kind:      model.KindMeeting,
	})
	require.NoError(t, err)
	assert.NotEqual(t, firstID, secondID)

	require.NoError(t, storage.AddParticipant(ctx, firstID, personID, "sender"))
	require.NoError(t, storage.AddParticipant(ctx, firstID, personID, "recipient"))

	all, err := storage.GetInteractions(ctx, userID, service.InteractionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "m2", all[0].MessageID)
	assert.Equal(t, "m1", all[1].MessageID)

	byPerson, err := storage.GetInteractions(ctx, userID, service.InteractionFilter{PersonID: personID})
	require.NoError(t, err)
	require.Len(t, byPerson, 1)
	assert.Equal(t, "m1", byPerson[0].MessageID)

	from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	recent, err := storage.GetInteractions(ctx, userID, service.InteractionFilter{StartDate: &from})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "m2", recent[0].MessageID)

	limited, err := storage.GetInteractions(ctx, userID, service.InteractionFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "m1", limited[0].MessageID)
}

func TestMessageBookkeeping(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	userID, err := storage.CreateOrGetUser(ctx, "user@example.com", "")
	require.NoError(t, err)

	seen, err := storage.IsMessageProcessed(ctx, userID, "m1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, storage.MarkMessageProcessed(ctx, userID, "m1", "t1"))
	require.NoError(t, storage.MarkMessageProcessed(ctx, userID, "m1", "t1"))

	seen, err = storage.IsMessageProcessed(ctx, userID, "m1")
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, storage.MarkMessageFiltered(ctx, userID, "m2", "automated_sender"))
	seen, err = storage.IsMessageProcessed(ctx, userID, "m2")
	require.NoError(t, err)
	assert.True(t, seen)
}
