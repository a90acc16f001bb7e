package flow

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/rating"
	"github.com/google/uuid"
)

type PersonaStage string

const (
	PersonaWelcome    PersonaStage = "welcome"
	PersonaConfirm    PersonaStage = "confirm"
	PersonaProcessing PersonaStage = "processing"
	PersonaRating     PersonaStage = "rating"
	PersonaSuccess    PersonaStage = "success"
)

type PersonaState = State[PersonaStage]

// Persona clusters the problems flow's output into personas; it has no
// free-text questions of its own.
var Persona = &Discovery[PersonaStage]{
	ID:          "persona",
	FlowType:    domain.FlowPersona,
	ClusterType: domain.ClusterPersona,
	Scale:       rating.PersonaScale,
	Forward: NewSequence(
		PersonaWelcome, PersonaConfirm, PersonaProcessing, PersonaRating, PersonaSuccess,
	),
	Back:        NewSequence(PersonaWelcome, PersonaConfirm),
	Welcome:     PersonaWelcome,
	Processing:  PersonaProcessing,
	Rating:      PersonaRating,
	Success:     PersonaSuccess,
	ErrorReturn: PersonaConfirm,
}

func NewPersonaSessionID() string { return "persona-" + uuid.NewString() }

// NoProblemsContext stands in for the context when there are no problems
// clusters to draw on.
const NoProblemsContext = "No problems data available"

// PersonaContext turns problems clusters into "label: insight" lines.
func PersonaContext(problems []domain.Cluster) []string {
	if len(problems) == 0 {
		return []string{NoProblemsContext}
	}
	out := make([]string, 0, len(problems))
	for _, c := range problems {
		out = append(out, fmt.Sprintf("%s: %s", c.Label, c.Insight))
	}
	return out
}

// PersonaContextText joins PersonaContext with newlines.
func PersonaContextText(problems []domain.Cluster) string {
	return strings.Join(PersonaContext(problems), "\n")
}
