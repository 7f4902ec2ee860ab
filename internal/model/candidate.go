package model

import "strings"

// PersonCandidate is one person surfaced from a message, before merging.
type PersonCandidate struct {
	Name       string  `json:"name"`
	Email      string  `json:"email,omitempty"`
	Role       string  `json:"role,omitempty"`
	Company    string  `json:"company,omitempty"`
	Context    string  `json:"context,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Key returns the deduplication key. An email address identifies a person
// exactly; without one we fall back to name plus context, which can split
// the same person across threads. That ambiguity is accepted and resolved
// first-seen-wins at merge time.
func (p PersonCandidate) Key() string {
	if p.Email != "" {
		return strings.ToLower(p.Email)
	}
	return p.Name + "|" + p.Context
}

// CompanyCandidate is one organization surfaced from a message.
type CompanyCandidate struct {
	Name       string  `json:"name"`
	Domain     string  `json:"domain,omitempty"`
	Context    string  `json:"context,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Key returns the deduplication key: the domain when known, else the name.
func (c CompanyCandidate) Key() string {
	if c.Domain != "" {
		return strings.ToLower(c.Domain)
	}
	return c.Name
}
