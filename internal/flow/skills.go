package flow

import (
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/rating"
	"github.com/google/uuid"
)

type SkillsStage string

const (
	SkillsWelcome     SkillsStage = "welcome"
	SkillsQ1          SkillsStage = "q1"
	SkillsQ2          SkillsStage = "q2"
	SkillsQ3          SkillsStage = "q3"
	SkillsProcessing1 SkillsStage = "processing1"
	SkillsQ4          SkillsStage = "q4"
	SkillsQ5          SkillsStage = "q5"
	SkillsProcessing  SkillsStage = "processing"
	SkillsRating      SkillsStage = "rating"
	SkillsSuccess     SkillsStage = "success"
)

type SkillsState = State[SkillsStage]

// Skills is the skills discovery flow. Its preview is best-effort and a
// failed final clustering returns to the last question.
var Skills = &Discovery[SkillsStage]{
	ID:          "skills",
	FlowType:    domain.FlowSkills,
	ClusterType: domain.ClusterSkills,
	Scale:       rating.SkillsScale,
	Forward: NewSequence(
		SkillsWelcome, SkillsQ1, SkillsQ2, SkillsQ3, SkillsProcessing1,
		SkillsQ4, SkillsQ5, SkillsProcessing, SkillsRating, SkillsSuccess,
	),
	Back: NewSequence(
		SkillsWelcome, SkillsQ1, SkillsQ2, SkillsQ3, SkillsProcessing1, SkillsQ4, SkillsQ5,
	),
	Welcome:     SkillsWelcome,
	Processing:  SkillsProcessing,
	Rating:      SkillsRating,
	Success:     SkillsSuccess,
	ErrorReturn: SkillsQ5,
	Questions: map[SkillsStage]string{
		SkillsQ1: "q1_childhood",
		SkillsQ2: "q2_highschool",
		SkillsQ3: "q3_postschool",
		SkillsQ4: "q4_work",
		SkillsQ5: "q5_skills",
	},
	Previews: map[SkillsStage][]string{
		SkillsProcessing1: {"q1_childhood", "q2_highschool", "q3_postschool"},
	},
	QuietPreviews: true,
}

func NewSkillsSessionID() string { return "skills-" + uuid.NewString() }
