// Package catalog holds the static quiz and flow content: the six needs, the
// five structural questions and the free-text question sets of each flow.
package catalog

import (
	"embed"
	"fmt"
	"sync"

	"github.com/alexanderramin/clarity/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed quiz.yaml flows.yaml
var catalogFS embed.FS

// Pole is one side of a need's either/or choice.
type Pole struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Vibe        string `yaml:"vibe" json:"vibe"`
}

type JobFix struct {
	What  string   `yaml:"what" json:"what"`
	How   []string `yaml:"how" json:"how"`
	Where string   `yaml:"where" json:"where"`
}

type OwnThingFix struct {
	Why    string `yaml:"why" json:"why"`
	Unlock string `yaml:"unlock" json:"unlock"`
}

// Unmet is the guidance shown when a need is partly or wholly unmet.
type Unmet struct {
	Seen          string      `yaml:"seen" json:"seen"`
	JobFix        JobFix      `yaml:"job_fix" json:"job_fix"`
	OwnThingFix   OwnThingFix `yaml:"own_thing_fix" json:"own_thing_fix"`
	ChecklistItem string      `yaml:"checklist_item" json:"checklist_item"`
}

type Need struct {
	ID              domain.NeedID `yaml:"id" json:"id"`
	Name            string        `yaml:"name" json:"name"`
	Icon            string        `yaml:"icon" json:"icon"`
	Question        string        `yaml:"question" json:"question"`
	Accomplish      Pole          `yaml:"accomplish" json:"accomplish"`
	Connect         Pole          `yaml:"connect" json:"connect"`
	AccomplishMet   string        `yaml:"accomplish_met" json:"accomplish_met"`
	ConnectMet      string        `yaml:"connect_met" json:"connect_met"`
	AccomplishUnmet Unmet         `yaml:"accomplish_unmet" json:"accomplish_unmet"`
	ConnectUnmet    Unmet         `yaml:"connect_unmet" json:"connect_unmet"`
}

type Option struct {
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
	Value       string `yaml:"value" json:"value"`
}

type Question struct {
	ID               domain.QuestionID `yaml:"id" json:"id"`
	Name             string            `yaml:"name" json:"name"`
	Icon             string            `yaml:"icon" json:"icon"`
	Question         string            `yaml:"question" json:"question"`
	OptionA          Option            `yaml:"option_a" json:"option_a"`
	OptionB          Option            `yaml:"option_b" json:"option_b"`
	EmploymentSignal string            `yaml:"employment_signal" json:"employment_signal"`
}

// PointsToEmployment reports whether answer is this question's employment signal.
func (q Question) PointsToEmployment(answer string) bool {
	return answer != "" && answer == q.EmploymentSignal
}

// ValidAnswer reports whether answer is one of the two option values.
func (q Question) ValidAnswer(answer string) bool {
	return answer == q.OptionA.Value || answer == q.OptionB.Value
}

// FlowQuestion is one multi-field free-text prompt within a flow.
type FlowQuestion struct {
	Key          string   `yaml:"key" json:"key"`
	Title        string   `yaml:"title" json:"title"`
	Subtext      string   `yaml:"subtext" json:"subtext"`
	Fields       int      `yaml:"fields" json:"fields"`
	Placeholders []string `yaml:"placeholders" json:"placeholders"`
}

// Placeholder returns the example text for field i, or "" past the list.
func (q FlowQuestion) Placeholder(i int) string {
	if i < 0 || i >= len(q.Placeholders) {
		return ""
	}
	return q.Placeholders[i]
}

type Flow struct {
	ID            string         `yaml:"id" json:"id"`
	Title         string         `yaml:"title" json:"title"`
	Intro         string         `yaml:"intro" json:"intro"`
	CompleteTitle string         `yaml:"complete_title" json:"complete_title"`
	Questions     []FlowQuestion `yaml:"questions" json:"questions,omitempty"`
	Confirm       []string       `yaml:"confirm" json:"confirm,omitempty"`
}

// Question looks up a flow question by response key.
func (f *Flow) Question(key string) (FlowQuestion, bool) {
	for _, q := range f.Questions {
		if q.Key == key {
			return q, true
		}
	}
	return FlowQuestion{}, false
}

// Catalog is the full static content set. It is read-only after Load.
type Catalog struct {
	Needs     []Need     `yaml:"needs" json:"needs"`
	Questions []Question `yaml:"structural_questions" json:"structural_questions"`
	Flows     []Flow     `yaml:"flows" json:"flows"`
}

// Load parses the embedded catalog files and checks them against the fixed
// need and question orders.
func Load() (*Catalog, error) {
	var c Catalog
	for _, name := range []string{"quiz.yaml", "flows.yaml"} {
		data, err := catalogFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the process-wide catalog and panics if the embedded
// content is broken.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load()
		if err != nil {
			panic(fmt.Sprintf("catalog: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

func (c *Catalog) validate() error {
	if len(c.Needs) != len(domain.NeedOrder) {
		return fmt.Errorf("catalog has %d needs, want %d", len(c.Needs), len(domain.NeedOrder))
	}
	for i, id := range domain.NeedOrder {
		if c.Needs[i].ID != id {
			return fmt.Errorf("need %d is %q, want %q", i, c.Needs[i].ID, id)
		}
	}
	if len(c.Questions) != len(domain.QuestionOrder) {
		return fmt.Errorf("catalog has %d structural questions, want %d", len(c.Questions), len(domain.QuestionOrder))
	}
	for i, id := range domain.QuestionOrder {
		q := c.Questions[i]
		if q.ID != id {
			return fmt.Errorf("question %d is %q, want %q", i, q.ID, id)
		}
		if !q.ValidAnswer(q.EmploymentSignal) {
			return fmt.Errorf("question %q: employment signal %q is not an option", q.ID, q.EmploymentSignal)
		}
	}
	for _, f := range c.Flows {
		for _, q := range f.Questions {
			if q.Fields <= 0 {
				return fmt.Errorf("flow %q question %q: fields must be positive", f.ID, q.Key)
			}
		}
	}
	return nil
}

// Need returns the metadata for id.
func (c *Catalog) Need(id domain.NeedID) (Need, bool) {
	for _, n := range c.Needs {
		if n.ID == id {
			return n, true
		}
	}
	return Need{}, false
}

// Question returns the structural question for id.
func (c *Catalog) Question(id domain.QuestionID) (Question, bool) {
	for _, q := range c.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Flow returns the question set for a flow id (problems, skills, persona).
func (c *Catalog) Flow(id string) (*Flow, bool) {
	for i := range c.Flows {
		if c.Flows[i].ID == id {
			return &c.Flows[i], true
		}
	}
	return nil, false
}
