package model

// ClassificationVerdict is the outcome of running one message through the
// keep/drop rules. Confidence is informational; the first matching rule is
// authoritative regardless of its weight.
type ClassificationVerdict struct {
	MessageID  string  `json:"message_id"`
	Rule       string  `json:"rule,omitempty"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
	Drop       bool    `json:"drop"`
}

// FilteredMessage records a dropped message in the output bundle so callers
// can audit what was excluded and why.
type FilteredMessage struct {
	MessageID  string  `json:"message_id"`
	Rule       string  `json:"rule"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}
