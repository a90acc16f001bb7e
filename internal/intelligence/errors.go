package intelligence

import "errors"

var (
	// ErrNoAnalysisData means the analysis was asked for with no quiz result
	// and no stored clusters.
	ErrNoAnalysisData = errors.New("no data to analyze")

	// ErrNoClusterer means no language model is configured to cluster or
	// analyze answers.
	ErrNoClusterer = errors.New("clustering service unavailable")
)

// NoAnalysisDataMessage is the user-facing text for ErrNoAnalysisData.
const NoAnalysisDataMessage = "No data to analyze. Please complete at least one discovery flow."
