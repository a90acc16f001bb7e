package domain

type NeedID string

const (
	NeedGrowth      NeedID = "growth"
	NeedFreedom     NeedID = "freedom"
	NeedVisibility  NeedID = "visibility"
	NeedProgress    NeedID = "progress"
	NeedSecurity    NeedID = "security"
	NeedStimulation NeedID = "stimulation"
)

// NeedOrder is the fixed presentation and scoring order of the six needs.
var NeedOrder = []NeedID{
	NeedGrowth, NeedFreedom, NeedVisibility, NeedProgress, NeedSecurity, NeedStimulation,
}

// NeedAnswer holds the two choices a user makes for one need.
// Zero values mean "not answered yet".
type NeedAnswer struct {
	Selection Selection `json:"selection,omitempty"`
	Met       MetLevel  `json:"met,omitempty"`
}

// Complete reports whether both choices have been made.
func (a NeedAnswer) Complete() bool {
	return a.Selection != "" && a.Met != ""
}

func (a NeedAnswer) IsAccomplish() bool { return a.Selection == SelectionLeft }
func (a NeedAnswer) IsConnect() bool    { return a.Selection == SelectionRight }
func (a NeedAnswer) IsBlend() bool      { return a.Selection == SelectionBoth }

// IsUnmet is true for "no" and "partial".
func (a NeedAnswer) IsUnmet() bool {
	return a.Met == MetNo || a.Met == MetPartial
}

// NeedAnswers maps need ids to the user's answers.
type NeedAnswers map[NeedID]NeedAnswer

// Clone returns an independent copy.
func (n NeedAnswers) Clone() NeedAnswers {
	out := make(NeedAnswers, len(n))
	for k, v := range n {
		out[k] = v
	}
	return out
}

// Complete reports whether every fixed need has both choices set.
func (n NeedAnswers) Complete() bool {
	for _, id := range NeedOrder {
		if !n[id].Complete() {
			return false
		}
	}
	return true
}
