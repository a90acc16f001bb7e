package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// AnswersSchema is the top-level JSON structure for a quiz answers file.
type AnswersSchema struct {
	SessionID  string                `json:"session_id,omitempty"`
	Needs      map[string]NeedImport `json:"need_answers"`
	Structural map[string]string     `json:"structural_answers"`
}

// NeedImport holds the two choices for one need.
type NeedImport struct {
	Selection string `json:"selection"`
	Met       string `json:"met"`
}

// LoadAnswersSchema reads and parses a quiz answers JSON file.
func LoadAnswersSchema(path string) (*AnswersSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseAnswersSchema(data)
}

// ParseAnswersSchema parses quiz answers JSON.
func ParseAnswersSchema(data []byte) (*AnswersSchema, error) {
	var schema AnswersSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing answers: %w", err)
	}
	return &schema, nil
}
