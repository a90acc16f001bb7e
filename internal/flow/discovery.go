package flow

import (
	"fmt"

	"github.com/alexanderramin/clarity/internal/catalog"
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/rating"
)

// Messages shown on failed clustering calls.
const (
	PreviewErrorMessage = "Could not generate preview. You can continue or retry."
	FinalErrorMessage   = "Error generating insights. Please try again."
	NoClustersMessage   = "No patterns found in your answers yet. Try adding more detail."
)

// State is the progress of one discovery flow. The json form is what gets
// mirrored to the local store.
type State[S ~string] struct {
	Stage        S                 `json:"stage"`
	SessionID    string            `json:"sessionId"`
	Responses    Responses         `json:"responses,omitempty"`
	Preview      []domain.Cluster  `json:"preview,omitempty"`
	PreviewError string            `json:"previewError,omitempty"`
	Clusters     []domain.Cluster  `json:"clusters,omitempty"`
	Ratings      map[string]string `json:"ratings,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// Discovery describes one free-text flow: its stage tables, the question
// behind each question stage and what each processing stage clusters.
type Discovery[S ~string] struct {
	ID          string
	FlowType    domain.FlowType
	ClusterType domain.ClusterType
	Scale       rating.Scale

	Forward Sequence[S]
	// Back is the order used by Go Back; stages missing from it have no
	// back action.
	Back Sequence[S]

	Welcome    S
	Processing S
	Rating     S
	Success    S
	// ErrorStage is where a failed final clustering lands. When empty the
	// flow returns to ErrorReturn with the message shown inline.
	ErrorStage  S
	ErrorReturn S

	Questions map[S]string
	Previews  map[S][]string
	// QuietPreviews drops preview failures instead of showing them.
	QuietPreviews bool
}

// New starts the flow at its welcome stage with blank fields sized from the
// catalog.
func (d *Discovery[S]) New(cat *catalog.Catalog, sessionID string) State[S] {
	s := State[S]{Stage: d.Welcome, SessionID: sessionID, Responses: Responses{}}
	if f, ok := cat.Flow(d.ID); ok {
		s.Responses = NewResponses(f.Questions)
	}
	return s
}

// Restore resumes saved progress when it is past welcome and still on a
// known stage; otherwise it starts fresh, keeping the saved session id.
func (d *Discovery[S]) Restore(cat *catalog.Catalog, saved *State[S], newID func() string) State[S] {
	if saved != nil && d.resumable(saved.Stage) {
		s := *saved
		fresh := d.New(cat, s.SessionID)
		if s.Responses == nil {
			s.Responses = fresh.Responses
		}
		if s.SessionID == "" {
			s.SessionID = newID()
		}
		// A reload mid-call has nothing in flight, so fall back to the
		// stage that triggers it.
		if s.Stage == d.Processing || s.Stage == d.Rating && len(s.Clusters) == 0 {
			s.Stage = d.ErrorReturn
		}
		return s
	}
	if saved != nil && saved.SessionID != "" {
		return d.New(cat, saved.SessionID)
	}
	return d.New(cat, newID())
}

func (d *Discovery[S]) resumable(stage S) bool {
	if stage == d.Welcome {
		return false
	}
	return d.Forward.Contains(stage) || d.ErrorStage != "" && stage == d.ErrorStage
}

// QuestionKey returns the response key shown at stage.
func (d *Discovery[S]) QuestionKey(stage S) (string, bool) {
	k, ok := d.Questions[stage]
	return k, ok
}

func (d *Discovery[S]) IsPreview(stage S) bool {
	_, ok := d.Previews[stage]
	return ok
}

// StepLabel returns "Question n of m" for question stages.
func (d *Discovery[S]) StepLabel(stage S) string {
	if _, ok := d.Questions[stage]; !ok {
		return ""
	}
	n := 0
	for _, st := range d.Forward.Stages() {
		if _, ok := d.Questions[st]; ok {
			n++
			if st == stage {
				break
			}
		}
	}
	return fmt.Sprintf("Question %d of %d", n, len(d.Questions))
}

// CanAdvance is the completeness predicate for the current stage.
func (d *Discovery[S]) CanAdvance(s State[S]) bool {
	if key, ok := d.Questions[s.Stage]; ok {
		return s.Responses.HasMinimum(key, MinAnswers)
	}
	switch {
	case s.Stage == d.Rating:
		return d.Overlay(s).AllRated(rating.ClusterKeys(len(s.Clusters)))
	case s.Stage == d.Processing, s.Stage == d.Success, d.ErrorStage != "" && s.Stage == d.ErrorStage:
		return false
	}
	return d.Forward.Contains(s.Stage)
}

// Next moves forward one stage when the current stage is complete.
func (d *Discovery[S]) Next(s State[S]) State[S] {
	if !d.CanAdvance(s) {
		return s
	}
	next, ok := d.Forward.Next(s.Stage)
	if !ok {
		return s
	}
	if d.IsPreview(s.Stage) {
		s.PreviewError = ""
	}
	if d.IsPreview(next) {
		s.Preview = nil
		s.PreviewError = ""
	}
	s.Error = ""
	s.Stage = next
	return s
}

// GoBack returns to the previous input stage, skipping over preview
// screens. It does nothing on the first stage or off the back table.
func (d *Discovery[S]) GoBack(s State[S]) State[S] {
	i := d.Back.Index(s.Stage)
	if i <= 0 {
		return s
	}
	target := i - 1
	if d.IsPreview(d.Back.At(target)) {
		target = i - 2
	}
	if target < 0 {
		target = 0
	}
	s.Stage = d.Back.At(target)
	s.Error = ""
	return s
}

// SetAnswer sets field i of the current question.
func (d *Discovery[S]) SetAnswer(s State[S], key string, i int, v string) State[S] {
	s.Responses = s.Responses.withValue(key, i, v)
	return s
}

// AddInput appends a blank field to key.
func (d *Discovery[S]) AddInput(s State[S], key string) State[S] {
	s.Responses = s.Responses.withExtraField(key)
	return s
}

// PreviewItems returns what the preview at the current stage clusters.
func (d *Discovery[S]) PreviewItems(s State[S]) []string {
	return s.Responses.Collect(d.Previews[s.Stage]...)
}

// AllItems returns every filled answer in question order.
func (d *Discovery[S]) AllItems(s State[S]) []string {
	var keys []string
	for _, st := range d.Forward.Stages() {
		if k, ok := d.Questions[st]; ok {
			keys = append(keys, k)
		}
	}
	return s.Responses.Collect(keys...)
}

func (d *Discovery[S]) WithPreview(s State[S], clusters []domain.Cluster) State[S] {
	s.Preview = clusters
	s.PreviewError = ""
	return s
}

// WithPreviewError records a failed preview. Quiet flows show the screen
// without a preview instead.
func (d *Discovery[S]) WithPreviewError(s State[S], msg string) State[S] {
	s.Preview = nil
	s.PreviewError = msg
	if d.QuietPreviews {
		s.PreviewError = ""
	}
	return s
}

// BeginProcessing moves to the final clustering stage.
func (d *Discovery[S]) BeginProcessing(s State[S]) State[S] {
	s.Stage = d.Processing
	s.Error = ""
	return s
}

// WithClusters records the final clustering and moves to rating. An empty
// result has nothing to rate and is handled as a failure.
func (d *Discovery[S]) WithClusters(s State[S], clusters []domain.Cluster) State[S] {
	if len(clusters) == 0 {
		s.Clusters = nil
		s.Ratings = nil
		return d.WithFailure(s, NoClustersMessage)
	}
	s.Clusters = clusters
	s.Ratings = nil
	s.Error = ""
	s.Stage = d.Rating
	return s
}

// WithFailure records a failed final clustering.
func (d *Discovery[S]) WithFailure(s State[S], msg string) State[S] {
	s.Error = msg
	if d.ErrorStage != "" {
		s.Stage = d.ErrorStage
	} else {
		s.Stage = d.ErrorReturn
	}
	return s
}

// Retry re-enters processing from the error stage.
func (d *Discovery[S]) Retry(s State[S]) State[S] {
	if d.ErrorStage == "" || s.Stage != d.ErrorStage {
		return s
	}
	return d.BeginProcessing(s)
}

// Abandon leaves the error stage for the last input stage.
func (d *Discovery[S]) Abandon(s State[S]) State[S] {
	if d.ErrorStage == "" || s.Stage != d.ErrorStage {
		return s
	}
	s.Stage = d.ErrorReturn
	s.Error = ""
	return s
}

// Overlay rebuilds the rating overlay from saved levels.
func (d *Discovery[S]) Overlay(s State[S]) *rating.Overlay[string] {
	return rating.FromLevels(d.Scale, s.Ratings)
}

// Rate assigns a level to cluster i.
func (d *Discovery[S]) Rate(s State[S], i int, level string) (State[S], error) {
	if i < 0 || i >= len(s.Clusters) {
		return s, fmt.Errorf("rating cluster %d: out of range", i)
	}
	o := d.Overlay(s)
	if err := o.Set(rating.ClusterKey(i), level); err != nil {
		return s, err
	}
	s.Ratings = o.Levels()
	return s, nil
}

// Rated returns the clusters with ratings flattened onto them.
func (d *Discovery[S]) Rated(s State[S]) []domain.Cluster {
	return rating.Flatten(s.Clusters, d.Overlay(s))
}

// Complete marks the flow finished.
func (d *Discovery[S]) Complete(s State[S]) State[S] {
	s.Stage = d.Success
	return s
}
