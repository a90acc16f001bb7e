package domain

import "time"

// NeedResult is the scored view of one need.
type NeedResult struct {
	ID           NeedID     `json:"id"`
	Answer       NeedAnswer `json:"answer"`
	IsAccomplish bool       `json:"is_accomplish"`
	IsConnect    bool       `json:"is_connect"`
	IsBlend      bool       `json:"is_blend"`
	IsUnmet      bool       `json:"is_unmet"`
}

// StructuralResult is the scored view of one structural question.
type StructuralResult struct {
	ID                 QuestionID `json:"id"`
	Answer             string     `json:"answer"`
	PointsToEmployment bool       `json:"points_to_employment"`
}

// QuizResult is derived from a completed set of answers and never mutated.
type QuizResult struct {
	Needs      []NeedResult       `json:"needs"`
	Structural []StructuralResult `json:"structural"`

	AccomplishCount     int `json:"accomplish_count"`
	ConnectCount        int `json:"connect_count"`
	EmploymentSignals   int `json:"employment_signals"`
	IndependenceSignals int `json:"independence_signals"`

	IsAccomplishOriented   bool `json:"is_accomplish_oriented"`
	IsConnectOriented      bool `json:"is_connect_oriented"`
	IsEmploymentOriented   bool `json:"is_employment_oriented"`
	IsIndependenceOriented bool `json:"is_independence_oriented"`

	Path       Path     `json:"path"`
	Quadrant   Quadrant `json:"quadrant"`
	UnmetNeeds []NeedID `json:"unmet_needs"`
}

// QuizRecord is the persisted form of a scored quiz, one row per session.
type QuizRecord struct {
	ID                string
	SessionID         string
	NeedAnswers       NeedAnswers
	StructuralAnswers StructuralAnswers
	PathResult        Path
	UnmetNeeds        []NeedID
	AccomplishScore   int
	EmploymentScore   int
	Email             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
