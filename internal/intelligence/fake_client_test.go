package intelligence

import (
	"context"
	"sync"

	"github.com/alexanderramin/clarity/internal/llm"
)

// fakeClient returns canned text and records every request.
type fakeClient struct {
	mu       sync.Mutex
	text     string
	err      error
	requests []llm.GenerateRequest
}

func (f *fakeClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Text: f.text, Model: "fake"}, nil
}

func (f *fakeClient) Available(context.Context) bool { return f.err == nil }

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}
