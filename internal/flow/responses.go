package flow

import (
	"strings"

	"github.com/alexanderramin/clarity/internal/catalog"
)

// MinAnswers is how many non-blank fields a free-text question needs before
// the flow may advance.
const MinAnswers = 3

// MinAnswersHint is shown while the continue control is disabled.
const MinAnswersHint = "Please provide at least 3 answers to continue"

// Responses holds the free-text fields for each question key, including
// blank ones so field positions survive a reload.
type Responses map[string][]string

// NewResponses allocates the initial blank fields for each question.
func NewResponses(questions []catalog.FlowQuestion) Responses {
	r := make(Responses, len(questions))
	for _, q := range questions {
		r[q.Key] = make([]string, q.Fields)
	}
	return r
}

func (r Responses) Clone() Responses {
	out := make(Responses, len(r))
	for k, v := range r {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Filled returns the trimmed non-blank answers for key, in field order.
func (r Responses) Filled(key string) []string {
	var out []string
	for _, v := range r[key] {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// HasMinimum reports whether key has at least n non-blank answers.
func (r Responses) HasMinimum(key string, n int) bool {
	return len(r.Filled(key)) >= n
}

// Collect concatenates the filled answers of keys in order.
func (r Responses) Collect(keys ...string) []string {
	var out []string
	for _, k := range keys {
		out = append(out, r.Filled(k)...)
	}
	return out
}

// withValue returns a copy with field i of key set, growing the field list
// when i is past the end.
func (r Responses) withValue(key string, i int, v string) Responses {
	out := r.Clone()
	fields := out[key]
	for len(fields) <= i {
		fields = append(fields, "")
	}
	fields[i] = v
	out[key] = fields
	return out
}

func (r Responses) withExtraField(key string) Responses {
	out := r.Clone()
	out[key] = append(out[key], "")
	return out
}
