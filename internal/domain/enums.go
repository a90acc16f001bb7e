package domain

type Selection string

const (
	SelectionLeft  Selection = "left"
	SelectionBoth  Selection = "both"
	SelectionRight Selection = "right"
)

// Valid reports whether s is one of the three pole choices.
func (s Selection) Valid() bool {
	switch s {
	case SelectionLeft, SelectionBoth, SelectionRight:
		return true
	}
	return false
}

type MetLevel string

const (
	MetYes     MetLevel = "yes"
	MetPartial MetLevel = "partial"
	MetNo      MetLevel = "no"
)

// Valid reports whether m is one of the three met levels.
func (m MetLevel) Valid() bool {
	switch m {
	case MetYes, MetPartial, MetNo:
		return true
	}
	return false
}

type Path string

const (
	PathJob      Path = "job"
	PathOwnThing Path = "own-thing"
)

type Quadrant string

const (
	QuadrantIndependenceAccomplish Quadrant = "independence-accomplish"
	QuadrantIndependenceConnect    Quadrant = "independence-connect"
	QuadrantIndependenceBlend      Quadrant = "independence-blend"
	QuadrantEmploymentAccomplish   Quadrant = "employment-accomplish"
	QuadrantEmploymentConnect      Quadrant = "employment-connect"
	QuadrantEmploymentBlend        Quadrant = "employment-blend"
)

type FlowType string

const (
	FlowProblems    FlowType = "nikigai_problems"
	FlowPersona     FlowType = "nikigai_persona"
	FlowSkills      FlowType = "nikigai_skills"
	FlowIntegration FlowType = "nikigai_integration"
)

// ValidFlowTypes is the canonical set of accepted flow type strings.
var ValidFlowTypes = map[FlowType]bool{
	FlowProblems:    true,
	FlowPersona:     true,
	FlowSkills:      true,
	FlowIntegration: true,
}

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

type ClusterType string

const (
	ClusterProblems ClusterType = "problems"
	ClusterPersona  ClusterType = "persona"
	ClusterSkills   ClusterType = "skills"
)

// ValidClusterTypes is the canonical set of stored cluster types.
var ValidClusterTypes = map[ClusterType]bool{
	ClusterProblems: true,
	ClusterPersona:  true,
	ClusterSkills:   true,
}

type ClusterStage string

const (
	ClusterStagePreview ClusterStage = "preview"
	ClusterStageFinal   ClusterStage = "final"
)

// Email capture sources.
const (
	SourceCareerQuiz       = "career-clarity-quiz"
	SourceAnalysisDownload = "career_analysis_download"
)
