package domain

import "time"

type FlowSession struct {
	ID          string
	SessionID   string
	FlowType    FlowType
	Status      SessionStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type EmailCapture struct {
	ID           string
	Email        string
	SessionID    string
	QuizResultID string
	Source       string
	CreatedAt    time.Time
}
