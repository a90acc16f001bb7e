package domain

type QuestionID string

const (
	QuestionLocus     QuestionID = "locus"
	QuestionStructure QuestionID = "structure"
	QuestionRisk      QuestionID = "risk"
	QuestionEnergy    QuestionID = "energy"
	QuestionIdentity  QuestionID = "identity"
)

// QuestionOrder is the fixed order of the five structural questions.
var QuestionOrder = []QuestionID{
	QuestionLocus, QuestionStructure, QuestionRisk, QuestionEnergy, QuestionIdentity,
}

// StructuralAnswers maps question ids to the chosen option value.
type StructuralAnswers map[QuestionID]string

// Clone returns an independent copy.
func (s StructuralAnswers) Clone() StructuralAnswers {
	out := make(StructuralAnswers, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Complete reports whether every fixed question has an answer.
func (s StructuralAnswers) Complete() bool {
	for _, id := range QuestionOrder {
		if s[id] == "" {
			return false
		}
	}
	return true
}
