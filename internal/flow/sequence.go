package flow

// Sequence is an ordered, closed list of stages.
type Sequence[S ~string] struct {
	stages []S
}

func NewSequence[S ~string](stages ...S) Sequence[S] {
	return Sequence[S]{stages: stages}
}

// Index returns the position of s, or -1.
func (q Sequence[S]) Index(s S) int {
	for i, st := range q.stages {
		if st == s {
			return i
		}
	}
	return -1
}

func (q Sequence[S]) Contains(s S) bool { return q.Index(s) >= 0 }

// Next returns the stage after s. It reports false at the end or when s is
// not in the sequence.
func (q Sequence[S]) Next(s S) (S, bool) {
	i := q.Index(s)
	if i < 0 || i+1 >= len(q.stages) {
		return s, false
	}
	return q.stages[i+1], true
}

// At returns the stage at index i.
func (q Sequence[S]) At(i int) S { return q.stages[i] }

func (q Sequence[S]) Len() int { return len(q.stages) }

// Stages returns a copy of the ordered stages.
func (q Sequence[S]) Stages() []S {
	out := make([]S, len(q.stages))
	copy(out, q.stages)
	return out
}
