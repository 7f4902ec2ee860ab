package model

import "time"

// Person is a persisted contact row.
type Person struct {
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id,omitempty"`
	UserID    int64     `json:"user_id"`
}

// Company is a persisted organization row.
type Company struct {
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
	Domain      string    `json:"domain,omitempty"`
	Description string    `json:"description,omitempty"`
	ID          int64     `json:"id"`
}

// ExpertiseArea is a persisted expertise vocabulary row.
type ExpertiseArea struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ID          int64  `json:"id"`
}

// StoredInteraction is a persisted interaction row.
type StoredInteraction struct {
	Date      time.Time `json:"date"`
	MessageID string    `json:"message_id"`
	ThreadID  string    `json:"thread_id,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Summary   string    `json:"summary"`
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
}
