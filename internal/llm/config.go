package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskClusterPreview TaskType = "cluster_preview"
	TaskClusterFinal   TaskType = "cluster_final"
	TaskCareerAnalysis TaskType = "career_analysis"
	TaskClassify       TaskType = "classify"
)

// Provider names accepted by NewClient.
const (
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Provider   string
	Endpoint   string
	Model      string
	APIKey     string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		LogCalls:   false,
		Provider:   ProviderOllama,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  30000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskClusterPreview: {Temperature: 0.4, MaxTokens: 2048, TimeoutMs: 30000},
			TaskClusterFinal:   {Temperature: 0.4, MaxTokens: 2048, TimeoutMs: 45000},
			TaskCareerAnalysis: {Temperature: 0.3, MaxTokens: 4096, TimeoutMs: 90000},
			TaskClassify:       {Temperature: 0.1, MaxTokens: 256, TimeoutMs: 10000},
		},
	}
}

// DefaultEndpoint returns the API base URL used when none is configured.
func DefaultEndpoint(provider string) string {
	if provider == ProviderAnthropic {
		return "https://api.anthropic.com"
	}
	return "http://localhost:11434"
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	if provider == ProviderAnthropic {
		return "claude-3-5-haiku-20241022"
	}
	return "llama3.2"
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("CLARITY_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CLARITY_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CLARITY_LLM_PROVIDER"); v != "" {
		cfg.Provider = v
		cfg.Endpoint = DefaultEndpoint(v)
		cfg.Model = DefaultModel(v)
	}
	if v := os.Getenv("CLARITY_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("CLARITY_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("CLARITY_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	} else if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && cfg.Provider == ProviderAnthropic {
		cfg.APIKey = v
	}
	if v := os.Getenv("CLARITY_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("CLARITY_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskClusterPreview, "CLARITY_LLM_CLUSTER_PREVIEW_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskClusterFinal, "CLARITY_LLM_CLUSTER_FINAL_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskCareerAnalysis, "CLARITY_LLM_CAREER_ANALYSIS_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// SetTemperature applies t to every task.
func (c *LLMConfig) SetTemperature(t float64) {
	for task, tc := range c.Tasks {
		tc.Temperature = t
		c.Tasks[task] = tc
	}
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
