// Package scoring classifies a completed quiz into a path and quadrant.
package scoring

import (
	"github.com/alexanderramin/clarity/internal/catalog"
	"github.com/alexanderramin/clarity/internal/domain"
)

// independenceThreshold is the number of independence signals (out of five)
// at which the own-thing path is recommended.
const independenceThreshold = 3

// Score derives a QuizResult from the answers. It is pure: the same answers
// always give the same result, and completeness is not re-checked. Missing
// answers simply count toward nothing.
func Score(cat *catalog.Catalog, needs domain.NeedAnswers, structural domain.StructuralAnswers) domain.QuizResult {
	var r domain.QuizResult

	r.Needs = make([]domain.NeedResult, 0, len(cat.Needs))
	r.UnmetNeeds = []domain.NeedID{}
	for _, n := range cat.Needs {
		a := needs[n.ID]
		nr := domain.NeedResult{
			ID:           n.ID,
			Answer:       a,
			IsAccomplish: a.IsAccomplish(),
			IsConnect:    a.IsConnect(),
			IsBlend:      a.IsBlend(),
			IsUnmet:      a.IsUnmet(),
		}
		if nr.IsAccomplish {
			r.AccomplishCount++
		}
		if nr.IsConnect {
			r.ConnectCount++
		}
		if nr.IsUnmet {
			r.UnmetNeeds = append(r.UnmetNeeds, n.ID)
		}
		r.Needs = append(r.Needs, nr)
	}

	r.Structural = make([]domain.StructuralResult, 0, len(cat.Questions))
	for _, q := range cat.Questions {
		ans := structural[q.ID]
		sr := domain.StructuralResult{
			ID:                 q.ID,
			Answer:             ans,
			PointsToEmployment: q.PointsToEmployment(ans),
		}
		if sr.PointsToEmployment {
			r.EmploymentSignals++
		}
		r.Structural = append(r.Structural, sr)
	}
	r.IndependenceSignals = len(domain.QuestionOrder) - r.EmploymentSignals

	r.IsAccomplishOriented = r.AccomplishCount > r.ConnectCount
	r.IsConnectOriented = r.ConnectCount > r.AccomplishCount
	r.IsEmploymentOriented = r.EmploymentSignals >= independenceThreshold
	r.IsIndependenceOriented = r.IndependenceSignals >= independenceThreshold

	r.Path = domain.PathJob
	if r.IsIndependenceOriented {
		r.Path = domain.PathOwnThing
	}
	r.Quadrant = QuadrantFor(r.IsIndependenceOriented, r.IsEmploymentOriented, r.IsAccomplishOriented, r.IsConnectOriented)
	return r
}

// QuadrantFor picks the first matching quadrant in priority order.
func QuadrantFor(independence, employment, accomplish, connect bool) domain.Quadrant {
	switch {
	case independence && accomplish:
		return domain.QuadrantIndependenceAccomplish
	case independence && connect:
		return domain.QuadrantIndependenceConnect
	case independence:
		return domain.QuadrantIndependenceBlend
	case employment && accomplish:
		return domain.QuadrantEmploymentAccomplish
	case employment && connect:
		return domain.QuadrantEmploymentConnect
	default:
		return domain.QuadrantEmploymentBlend
	}
}
