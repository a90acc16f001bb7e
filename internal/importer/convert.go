package importer

import (
	"github.com/alexanderramin/clarity/internal/domain"
)

// Convert transforms a validated AnswersSchema into the domain answer maps.
// Call ValidateAnswersSchema first; Convert assumes the schema is valid and
// drops unknown ids.
func Convert(schema *AnswersSchema) (domain.NeedAnswers, domain.StructuralAnswers) {
	needs := make(domain.NeedAnswers, len(domain.NeedOrder))
	for _, id := range domain.NeedOrder {
		a, ok := schema.Needs[string(id)]
		if !ok {
			continue
		}
		needs[id] = domain.NeedAnswer{
			Selection: domain.Selection(a.Selection),
			Met:       domain.MetLevel(a.Met),
		}
	}

	structural := make(domain.StructuralAnswers, len(domain.QuestionOrder))
	for _, id := range domain.QuestionOrder {
		if v, ok := schema.Structural[string(id)]; ok {
			structural[id] = v
		}
	}
	return needs, structural
}

// FromAnswers builds the file form of a set of answers, for export and tests.
func FromAnswers(sessionID string, needs domain.NeedAnswers, structural domain.StructuralAnswers) *AnswersSchema {
	s := &AnswersSchema{
		SessionID:  sessionID,
		Needs:      make(map[string]NeedImport, len(needs)),
		Structural: make(map[string]string, len(structural)),
	}
	for id, a := range needs {
		s.Needs[string(id)] = NeedImport{Selection: string(a.Selection), Met: string(a.Met)}
	}
	for id, v := range structural {
		s.Structural[string(id)] = v
	}
	return s
}
