// Package filter provides rule-based keep/drop classification of raw
// messages, separating personal correspondence from bulk and automated mail.
package filter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/six-degrees/internal/model"
)

// Rule names reported in verdicts, in evaluation order.
const (
	RuleAutomatedSender    = "automated_sender"
	RuleBulkDomain         = "bulk_domain"
	RuleSubjectPattern     = "subject_pattern"
	RuleBodyPattern        = "body_pattern"
	RuleShortBody          = "short_body"
	RuleRecipientCount     = "recipient_count"
	RuleBulkLabel          = "bulk_label"
	RuleNotificationSender = "notification_sender"
)

// Confidence weights per rule. Informational only: the first matching rule
// decides regardless of weight.
const (
	confidenceAutomatedSender    = 0.9
	confidenceBulkDomain         = 0.8
	confidenceSubjectPattern     = 0.7
	confidenceBodyPattern        = 0.6
	confidenceShortBody          = 0.5
	confidenceRecipientCount     = 0.6
	confidenceBulkLabel          = 0.7
	confidenceNotificationSender = 0.9
)

// Config tunes the non-pattern rules.
type Config struct {
	// MinBodyLength is the body length in characters below which a
	// message is treated as a notification.
	MinBodyLength int
	// MaxRecipients is the recipient count above which a message is
	// treated as an announcement.
	MaxRecipients int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MinBodyLength: 50,
		MaxRecipients: 10,
	}
}

type compiledPattern struct {
	regex  *regexp.Regexp
	source string
}

// Classifier decides keep/drop for each message. All state is immutable
// after construction, so one instance is safe for concurrent use.
type Classifier struct {
	bulkDomains   map[string]struct{}
	notifySenders map[string]struct{}
	senderRules   []compiledPattern
	subjectRules  []compiledPattern
	bodyRules     []compiledPattern
	bulkLabels    []string
	cfg           Config
}

// New creates a classifier with the default pattern sets and thresholds.
func New() (*Classifier, error) {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a classifier with custom thresholds.
func NewWithConfig(cfg Config) (*Classifier, error) {
	if cfg.MinBodyLength <= 0 {
		cfg.MinBodyLength = DefaultConfig().MinBodyLength
	}
	if cfg.MaxRecipients <= 0 {
		cfg.MaxRecipients = DefaultConfig().MaxRecipients
	}

	senderRules, err := compilePatterns(automatedSenderPatterns())
	if err != nil {
		return nil, fmt.Errorf("failed to compile sender patterns: %w", err)
	}
	subjectRules, err := compilePatterns(subjectPatterns())
	if err != nil {
		return nil, fmt.Errorf("failed to compile subject patterns: %w", err)
	}
	bodyRules, err := compilePatterns(bodyPatterns())
	if err != nil {
		return nil, fmt.Errorf("failed to compile body patterns: %w", err)
	}

	bulkDomains := make(map[string]struct{})
	for _, d := range bulkMailerDomains() {
		bulkDomains[d] = struct{}{}
	}
	notifySenders := make(map[string]struct{})
	for _, s := range notificationSenders() {
		notifySenders[s] = struct{}{}
	}

	return &Classifier{
		cfg:           cfg,
		senderRules:   senderRules,
		subjectRules:  subjectRules,
		bodyRules:     bodyRules,
		bulkDomains:   bulkDomains,
		notifySenders: notifySenders,
		bulkLabels:    bulkCategoryLabels(),
	}, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		regex, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		compiled = append(compiled, compiledPattern{regex: regex, source: p})
	}
	return compiled, nil
}

// Classify runs the rules in fixed order and returns the verdict for the
// first rule that matches. A keep verdict carries confidence 0.
func (c *Classifier) Classify(msg model.RawMessage) model.ClassificationVerdict {
	sender := strings.ToLower(msg.From)

	for _, rule := range c.senderRules {
		if rule.regex.MatchString(sender) {
			return drop(msg.ID, RuleAutomatedSender, confidenceAutomatedSender,
				fmt.Sprintf("automated sender pattern: %s", rule.source))
		}
	}

	if domain := senderDomain(sender); domain != "" {
		if _, ok := c.bulkDomains[domain]; ok {
			return drop(msg.ID, RuleBulkDomain, confidenceBulkDomain,
				fmt.Sprintf("known email marketing domain: %s", domain))
		}
	}

	for _, rule := range c.subjectRules {
		if rule.regex.MatchString(msg.Subject) {
			return drop(msg.ID, RuleSubjectPattern, confidenceSubjectPattern,
				fmt.Sprintf("subject filter pattern: %s", rule.source))
		}
	}

	for _, rule := range c.bodyRules {
		if rule.regex.MatchString(msg.Body) {
			return drop(msg.ID, RuleBodyPattern, confidenceBodyPattern,
				fmt.Sprintf("body filter pattern: %s", rule.source))
		}
	}

	if utf8.RuneCountInString(strings.TrimSpace(msg.Body)) < c.cfg.MinBodyLength {
		return drop(msg.ID, RuleShortBody, confidenceShortBody,
			"very short or empty body content")
	}

	if n := recipientCount(msg); n > c.cfg.MaxRecipients {
		return drop(msg.ID, RuleRecipientCount, confidenceRecipientCount,
			fmt.Sprintf("high recipient count: %d", n))
	}

	for _, label := range c.bulkLabels {
		if msg.HasLabel(label) {
			return drop(msg.ID, RuleBulkLabel, confidenceBulkLabel,
				fmt.Sprintf("bulk mail category label: %s", label))
		}
	}

	if addr := senderAddress(sender); addr != "" {
		if _, ok := c.notifySenders[addr]; ok {
			return drop(msg.ID, RuleNotificationSender, confidenceNotificationSender,
				fmt.Sprintf("known notification sender: %s", addr))
		}
	}

	return model.ClassificationVerdict{
		MessageID: msg.ID,
		Reason:    "no filtering criteria matched",
	}
}

func drop(messageID, rule string, confidence float64, reason string) model.ClassificationVerdict {
	return model.ClassificationVerdict{
		MessageID:  messageID,
		Rule:       rule,
		Reason:     reason,
		Confidence: confidence,
		Drop:       true,
	}
}

var (
	domainRegex  = regexp.MustCompile(`@([a-z0-9.-]+)`)
	addressRegex = regexp.MustCompile(`[a-z0-9._%+-]+@[a-z0-9.-]+`)
)

// senderDomain extracts the domain of the first address in a lowered
// From header.
func senderDomain(sender string) string {
	m := domainRegex.FindStringSubmatch(sender)
	if m == nil {
		return ""
	}
	return strings.TrimSuffix(m[1], ".")
}

// senderAddress extracts the bare address from a lowered From header,
// tolerating display names and angle brackets.
func senderAddress(sender string) string {
	return addressRegex.FindString(sender)
}

// recipientCount counts addresses across the To, Cc, and Bcc headers.
func recipientCount(msg model.RawMessage) int {
	count := 0
	for _, header := range []string{msg.To, msg.Cc, msg.Bcc} {
		for _, part := range strings.Split(header, ",") {
			if part = strings.TrimSpace(part); part != "" && strings.Contains(part, "@") {
				count++
			}
		}
	}
	return count
}
