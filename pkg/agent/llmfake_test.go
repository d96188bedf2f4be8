package agent

import (
	"context"
	"sync"

	"github.com/wayfarer-ai/wayfarer/pkg/llm"
)

// fakeLLM is a scripted model client. Chat pops responses in order,
// repeating the last one when exhausted; ChatStream replays tokens.
type fakeLLM struct {
	mu        sync.Mutex
	responses []string
	err       error
	tokens    []string
	calls     int
}

func (f *fakeLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.RequestOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", nil
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func (f *fakeLLM) ChatStream(_ context.Context, _ []llm.Message, _ ...llm.RequestOption) <-chan string {
	ch := make(chan string, len(f.tokens)+1)
	for _, tok := range f.tokens {
		ch <- tok
	}
	close(ch)
	return ch
}

func (f *fakeLLM) Model() string { return "fake-model" }
