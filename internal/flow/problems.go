package flow

import (
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/rating"
	"github.com/google/uuid"
)

type ProblemsStage string

const (
	ProblemsWelcome     ProblemsStage = "welcome"
	ProblemsQ1          ProblemsStage = "q1"
	ProblemsQ2          ProblemsStage = "q2"
	ProblemsProcessing1 ProblemsStage = "processing1"
	ProblemsQ3          ProblemsStage = "q3"
	ProblemsQ4          ProblemsStage = "q4"
	ProblemsQ5          ProblemsStage = "q5"
	ProblemsProcessing2 ProblemsStage = "processing2"
	ProblemsQ6          ProblemsStage = "q6"
	ProblemsQ7          ProblemsStage = "q7"
	ProblemsProcessing  ProblemsStage = "processing"
	ProblemsRating      ProblemsStage = "rating"
	ProblemsSuccess     ProblemsStage = "success"
	ProblemsError       ProblemsStage = "error"
)

type ProblemsState = State[ProblemsStage]

// Problems is the problems discovery flow.
var Problems = &Discovery[ProblemsStage]{
	ID:          "problems",
	FlowType:    domain.FlowProblems,
	ClusterType: domain.ClusterProblems,
	Scale:       rating.ProblemsScale,
	Forward: NewSequence(
		ProblemsWelcome, ProblemsQ1, ProblemsQ2, ProblemsProcessing1,
		ProblemsQ3, ProblemsQ4, ProblemsQ5, ProblemsProcessing2,
		ProblemsQ6, ProblemsQ7, ProblemsProcessing, ProblemsRating, ProblemsSuccess,
	),
	Back: NewSequence(
		ProblemsWelcome, ProblemsQ1, ProblemsQ2, ProblemsProcessing1,
		ProblemsQ3, ProblemsQ4, ProblemsQ5, ProblemsProcessing2,
		ProblemsQ6, ProblemsQ7,
	),
	Welcome:     ProblemsWelcome,
	Processing:  ProblemsProcessing,
	Rating:      ProblemsRating,
	Success:     ProblemsSuccess,
	ErrorStage:  ProblemsError,
	ErrorReturn: ProblemsQ7,
	Questions: map[ProblemsStage]string{
		ProblemsQ1: "q1_topics",
		ProblemsQ2: "q2_impact",
		ProblemsQ3: "q3_chapters",
		ProblemsQ4: "q4_struggles",
		ProblemsQ5: "q5_rolemodels",
		ProblemsQ6: "q6_future",
		ProblemsQ7: "q7_pulls",
	},
	Previews: map[ProblemsStage][]string{
		ProblemsProcessing1: {"q1_topics", "q2_impact"},
		ProblemsProcessing2: {"q1_topics", "q2_impact", "q3_chapters", "q4_struggles", "q5_rolemodels"},
	},
}

func NewProblemsSessionID() string { return "problems-" + uuid.NewString() }
