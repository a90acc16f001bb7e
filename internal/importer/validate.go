package importer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/alexanderramin/clarity/internal/catalog"
	"github.com/alexanderramin/clarity/internal/domain"
)

var (
	// ErrMissingAnswer marks a need or structural question with no answer.
	ErrMissingAnswer = errors.New("missing answer")
	// ErrInvalidAnswer marks an unknown id or a value outside the allowed set.
	ErrInvalidAnswer = errors.New("invalid answer")
)

// ValidateAnswersSchema checks the answers against the catalog before
// conversion. Returns a slice of all validation errors found, in catalog
// order followed by unknown ids sorted by name.
func ValidateAnswersSchema(cat *catalog.Catalog, schema *AnswersSchema) []error {
	var errs []error
	errs = append(errs, validateNeeds(schema.Needs)...)
	errs = append(errs, validateStructural(cat, schema.Structural)...)
	return errs
}

func validateNeeds(needs map[string]NeedImport) []error {
	var errs []error

	known := make(map[string]bool, len(domain.NeedOrder))
	for _, id := range domain.NeedOrder {
		known[string(id)] = true
		a, ok := needs[string(id)]
		if !ok {
			errs = append(errs, fmt.Errorf("need_answers.%s: %w", id, ErrMissingAnswer))
			continue
		}
		switch {
		case a.Selection == "":
			errs = append(errs, fmt.Errorf("need_answers.%s.selection: %w", id, ErrMissingAnswer))
		case !domain.Selection(a.Selection).Valid():
			errs = append(errs, fmt.Errorf("need_answers.%s.selection: %w %q (expected left, both or right)", id, ErrInvalidAnswer, a.Selection))
		}
		switch {
		case a.Met == "":
			errs = append(errs, fmt.Errorf("need_answers.%s.met: %w", id, ErrMissingAnswer))
		case !domain.MetLevel(a.Met).Valid():
			errs = append(errs, fmt.Errorf("need_answers.%s.met: %w %q (expected yes, partial or no)", id, ErrInvalidAnswer, a.Met))
		}
	}

	for _, id := range unknownKeys(needs, known) {
		errs = append(errs, fmt.Errorf("need_answers.%s: %w: unknown need", id, ErrInvalidAnswer))
	}
	return errs
}

func validateStructural(cat *catalog.Catalog, answers map[string]string) []error {
	var errs []error

	known := make(map[string]bool, len(cat.Questions))
	for _, q := range cat.Questions {
		known[string(q.ID)] = true
		v, ok := answers[string(q.ID)]
		if !ok || v == "" {
			errs = append(errs, fmt.Errorf("structural_answers.%s: %w", q.ID, ErrMissingAnswer))
			continue
		}
		if !q.ValidAnswer(v) {
			errs = append(errs, fmt.Errorf("structural_answers.%s: %w %q (expected %s or %s)",
				q.ID, ErrInvalidAnswer, v, q.OptionA.Value, q.OptionB.Value))
		}
	}

	for _, id := range unknownKeys(answers, known) {
		errs = append(errs, fmt.Errorf("structural_answers.%s: %w: unknown question", id, ErrInvalidAnswer))
	}
	return errs
}

func unknownKeys[V any](m map[string]V, known map[string]bool) []string {
	var out []string
	for k := range m {
		if !known[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
