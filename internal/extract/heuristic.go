package extract

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Veraticus/six-degrees/internal/model"
)

// Confidence weights for header-derived candidates.
const (
	headerPersonConfidence  = 0.9
	domainCompanyConfidence = 0.7
)

// interactionPreviewLen caps the body preview used when a message has no
// snippet.
const interactionPreviewLen = 140

// HeuristicBackend extracts entities from message headers alone. It never
// errors: malformed input degrades to smaller, still valid results.
type HeuristicBackend struct {
	now func() time.Time
}

// NewHeuristicBackend creates a heuristic extraction backend.
func NewHeuristicBackend() *HeuristicBackend {
	return &HeuristicBackend{now: time.Now}
}

// ExtractEntities parses the address headers into one person per unique
// address and one company per unique address domain.
func (b *HeuristicBackend) ExtractEntities(_ context.Context, msg model.RawMessage) ([]model.PersonCandidate, []model.CompanyCandidate, error) {
	var people []model.PersonCandidate
	seenPeople := make(map[string]struct{})

	for _, header := range []string{msg.From, msg.To, msg.Cc, msg.Bcc} {
		for _, person := range parseAddressHeader(header) {
			key := strings.ToLower(person.Email)
			if _, ok := seenPeople[key]; ok {
				continue
			}
			seenPeople[key] = struct{}{}
			people = append(people, person)
		}
	}

	var companies []model.CompanyCandidate
	seenDomains := make(map[string]struct{})

	for _, person := range people {
		domain := addressDomain(person.Email)
		if domain == "" {
			continue
		}
		if _, ok := seenDomains[domain]; ok {
			continue
		}
		seenDomains[domain] = struct{}{}
		companies = append(companies, model.CompanyCandidate{
			Name:       titleCase(strings.SplitN(domain, ".", 2)[0]),
			Domain:     domain,
			Confidence: domainCompanyConfidence,
			Context:    fmt.Sprintf("extracted from %s's email address", person.Name),
		})
	}

	return people, companies, nil
}

// ExtractInteraction builds a minimal event from the message envelope: the
// snippet (or a body preview) as summary, kind always email.
func (b *HeuristicBackend) ExtractInteraction(_ context.Context, msg model.RawMessage) (model.InteractionRecord, error) {
	date, ok := msg.SentAt()
	if !ok {
		date = b.now()
	}

	summary := strings.TrimSpace(msg.Snippet)
	if summary == "" {
		summary = bodyPreview(msg.Body)
	}

	return model.InteractionRecord{
		MessageID: msg.ID,
		ThreadID:  msg.ThreadID,
		Subject:   msg.Subject,
		Summary:   summary,
		Kind:      model.KindEmail,
		Outcome:   model.OutcomeHeuristic,
		Date:      date,
	}, nil
}

// ExtractExpertise cannot infer expertise from headers and always returns
// an empty set.
func (b *HeuristicBackend) ExtractExpertise(_ context.Context, _ model.RawMessage, _ []model.PersonCandidate) ([]model.ExpertiseInstance, error) {
	return nil, nil
}

// ExtractParticipantRoles cannot infer roles from headers and always
// returns an empty set.
func (b *HeuristicBackend) ExtractParticipantRoles(_ context.Context, _ model.RawMessage, _ []model.PersonCandidate) ([]model.Participant, error) {
	return nil, nil
}

// SummarizeThread produces a minimal structural summary for multi-message
// threads.
func (b *HeuristicBackend) SummarizeThread(_ context.Context, thread model.Thread) (*model.ThreadSummary, error) {
	if len(thread.Messages) < 2 {
		return nil, nil
	}

	subject := thread.Messages[0].Subject
	if subject == "" {
		subject = "(no subject)"
	}

	return &model.ThreadSummary{
		Summary: fmt.Sprintf("%d-message thread: %s", len(thread.Messages), subject),
	}, nil
}

// parseAddressHeader splits a comma-separated address header into person
// candidates. Chunks that fail to parse are skipped rather than failing
// the whole header.
func parseAddressHeader(header string) []model.PersonCandidate {
	var people []model.PersonCandidate

	for _, chunk := range strings.Split(header, ",") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		addr, err := mail.ParseAddress(chunk)
		if err != nil {
			continue
		}

		name := addr.Name
		if name == "" {
			name = strings.SplitN(addr.Address, "@", 2)[0]
		}

		people = append(people, model.PersonCandidate{
			Name:       name,
			Email:      addr.Address,
			Confidence: headerPersonConfidence,
			Context:    "found in email headers",
		})
	}

	return people
}

// addressDomain returns the lowered domain part of an address, or "".
func addressDomain(address string) string {
	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return ""
	}
	return strings.ToLower(address[at+1:])
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func bodyPreview(body string) string {
	return truncateRunes(strings.TrimSpace(body), interactionPreviewLen)
}

// truncateRunes shortens s to at most n runes, never splitting a multi-byte
// character.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
