package model

// ThreadSummary condenses a multi-message conversation.
type ThreadSummary struct {
	Summary   string   `json:"summary"`
	KeyTopics []string `json:"key_topics,omitempty"`
	Outcome   string   `json:"outcome,omitempty"`
}

// ThreadResult is the extraction output for one thread. People and
// companies are already deduplicated within the thread and kept in
// first-seen order so downstream merging stays deterministic.
type ThreadResult struct {
	ThreadID     string              `json:"thread_id"`
	People       []PersonCandidate   `json:"people,omitempty"`
	Companies    []CompanyCandidate  `json:"companies,omitempty"`
	Interactions []InteractionRecord `json:"interactions,omitempty"`
	Expertise    []ExpertiseInstance `json:"expertise,omitempty"`
	ProcessedIDs []string            `json:"processed_ids"`
	Summary      *ThreadSummary      `json:"summary,omitempty"`
}

// ThreadError records a thread whose extraction failed. The batch continues
// without it.
type ThreadError struct {
	ThreadID   string   `json:"thread_id"`
	MessageIDs []string `json:"message_ids"`
	Err        string   `json:"error"`
}

// ProcessingStats summarizes one pipeline run.
type ProcessingStats struct {
	TotalMessages    int `json:"total_messages"`
	KeptMessages     int `json:"kept_messages"`
	FilteredMessages int `json:"filtered_messages"`
	Threads          int `json:"threads"`
	FailedThreads    int `json:"failed_threads"`
	Degraded         int `json:"degraded"`
}

// ProcessedBundle is the final, serializable output of a pipeline run:
// everything learned from one batch for one account holder.
type ProcessedBundle struct {
	AccountEmail string              `json:"account_email"`
	People       []PersonCandidate   `json:"people"`
	Companies    []CompanyCandidate  `json:"companies"`
	Interactions []InteractionRecord `json:"interactions"`
	Expertise    []ExpertiseInstance `json:"expertise"`
	Summaries    []ThreadSummary     `json:"summaries,omitempty"`
	ProcessedIDs []string            `json:"processed_ids"`
	Filtered     []FilteredMessage   `json:"filtered"`
	Errors       []ThreadError       `json:"errors,omitempty"`
	Stats        ProcessingStats     `json:"stats"`
}
