package flow

import (
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/google/uuid"
)

type IntegrationStage string

const (
	IntegrationWelcome    IntegrationStage = "welcome"
	IntegrationProcessing IntegrationStage = "processing"
	IntegrationResults    IntegrationStage = "results"
	IntegrationError      IntegrationStage = "error"
)

// NoDiscoveryDataMessage is shown on the welcome stage when no flow has
// stored clusters for the session.
const NoDiscoveryDataMessage = "No discovery data found. Please complete the Problems, Persona, and Skills flows first."

// AnalysisErrorMessage is the fallback when the analysis fails without a
// message of its own.
const AnalysisErrorMessage = "Error generating career analysis. Please try again."

// IntegrationState tracks the career analysis flow. Counts are the number
// of stored clusters per type.
type IntegrationState struct {
	Stage     IntegrationStage           `json:"stage"`
	SessionID string                     `json:"sessionId"`
	Counts    map[domain.ClusterType]int `json:"counts,omitempty"`
	Analysis  *domain.CareerAnalysis     `json:"analysis,omitempty"`
	Error     string                     `json:"error,omitempty"`
}

func NewIntegrationSessionID() string { return "integration-" + uuid.NewString() }

func NewIntegrationState(sessionID string) IntegrationState {
	return IntegrationState{Stage: IntegrationWelcome, SessionID: sessionID}
}

// RestoreIntegration resumes finished results; anything else restarts at
// welcome under the saved session id.
func RestoreIntegration(saved *IntegrationState, newID func() string) IntegrationState {
	if saved == nil {
		return NewIntegrationState(newID())
	}
	id := saved.SessionID
	if id == "" {
		id = newID()
	}
	if saved.Stage == IntegrationResults && saved.Analysis != nil {
		s := *saved
		s.SessionID = id
		return s
	}
	return NewIntegrationState(id)
}

// HasData reports whether any cluster list is non-empty.
func (s IntegrationState) HasData() bool {
	for _, n := range s.Counts {
		if n > 0 {
			return true
		}
	}
	return false
}

// WithCounts records what the welcome stage found.
func (s IntegrationState) WithCounts(counts map[domain.ClusterType]int) IntegrationState {
	s.Counts = counts
	return s
}

// Start moves to processing when there is data to analyze.
func (s IntegrationState) Start() IntegrationState {
	if (s.Stage == IntegrationWelcome || s.Stage == IntegrationError) && s.HasData() {
		s.Stage = IntegrationProcessing
		s.Error = ""
	}
	return s
}

func (s IntegrationState) WithAnalysis(a *domain.CareerAnalysis) IntegrationState {
	s.Analysis = a
	s.Error = ""
	s.Stage = IntegrationResults
	return s
}

func (s IntegrationState) WithFailure(msg string) IntegrationState {
	if msg == "" {
		msg = AnalysisErrorMessage
	}
	s.Error = msg
	s.Stage = IntegrationError
	return s
}

// Retry re-runs the analysis from the error stage.
func (s IntegrationState) Retry() IntegrationState {
	if s.Stage != IntegrationError {
		return s
	}
	return s.Start()
}

// GoBack returns from the error stage to welcome.
func (s IntegrationState) GoBack() IntegrationState {
	if s.Stage == IntegrationError {
		s.Stage = IntegrationWelcome
		s.Error = ""
	}
	return s
}
