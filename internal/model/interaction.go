package model

import "time"

// InteractionKind tags the shape of an exchange.
type InteractionKind string

const (
	// KindEmail is a plain email exchange.
	KindEmail InteractionKind = "email"
	// KindMeeting is a scheduled or reported meeting.
	KindMeeting InteractionKind = "meeting"
	// KindIntroduction is one party introducing two others.
	KindIntroduction InteractionKind = "introduction"
)

// ExtractionOutcome records which path produced an extraction result.
type ExtractionOutcome string

const (
	// OutcomeModel means the model backend produced the result directly.
	OutcomeModel ExtractionOutcome = "model"
	// OutcomeHeuristicFallback means the model failed and the heuristic
	// substituted for this one message.
	OutcomeHeuristicFallback ExtractionOutcome = "heuristic_fallback"
	// OutcomeHeuristic means the heuristic backend was selected outright.
	OutcomeHeuristic ExtractionOutcome = "heuristic"
)

// Participant ties a person to an interaction with the role they played.
type Participant struct {
	Name       string  `json:"name"`
	Email      string  `json:"email,omitempty"`
	Role       string  `json:"role,omitempty"`
	IsExpert   bool    `json:"is_expert,omitempty"`
	Expertise  string  `json:"expertise,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// InteractionRecord is one message rendered as a relationship event. Date
// carries calendar-day significance only; persistence truncates to the day.
type InteractionRecord struct {
	Date         time.Time         `json:"date"`
	MessageID    string            `json:"message_id"`
	ThreadID     string            `json:"thread_id,omitempty"`
	Subject      string            `json:"subject,omitempty"`
	Summary      string            `json:"summary"`
	Kind         InteractionKind   `json:"kind"`
	Outcome      ExtractionOutcome `json:"outcome"`
	Participants []Participant     `json:"participants,omitempty"`
}
