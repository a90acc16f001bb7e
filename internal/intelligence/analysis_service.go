package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/llm"
)

type careerAnalysisService struct {
	client llm.LLMClient
}

// NewCareerAnalysisService creates a CareerAnalysisService backed by an LLM client.
func NewCareerAnalysisService(client llm.LLMClient) CareerAnalysisService {
	return &careerAnalysisService{client: client}
}

func (s *careerAnalysisService) Analyze(ctx context.Context, in AnalysisInput) (*domain.CareerAnalysis, error) {
	if !in.HasData() {
		return nil, ErrNoAnalysisData
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskCareerAnalysis,
		SystemPrompt: careerAnalysisSystemPrompt,
		UserPrompt:   BuildAnalysisPrompt(in),
	})
	if err != nil {
		return nil, fmt.Errorf("generating career analysis: %w", err)
	}

	analysis, err := llm.ExtractJSON(resp.Text, validateAnalysis)
	if err != nil {
		return nil, fmt.Errorf("parsing career analysis: %w", err)
	}
	return &analysis, nil
}

func validateAnalysis(a domain.CareerAnalysis) error {
	if strings.TrimSpace(a.CareerSummary) == "" {
		return errors.New("career_summary is empty")
	}
	return nil
}
