package agentrpc

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/wayfarer-ai/wayfarer/pkg/agent"
	agentpb "github.com/wayfarer-ai/wayfarer/proto"
)

// scriptedRunner replays a fixed turn through the callbacks.
type scriptedRunner struct {
	thinking []string
	answers  []string
	result   map[string]any
}

func (r *scriptedRunner) Process(context.Context, string) map[string]any {
	return r.result
}

func (r *scriptedRunner) ProcessStream(_ context.Context, _ string, cb agent.Callbacks) map[string]any {
	for _, text := range r.thinking {
		if cb.Thinking != nil {
			cb.Thinking(text, 0.1)
		}
	}
	for _, chunk := range r.answers {
		if cb.Answer != nil {
			cb.Answer(chunk)
		}
	}
	if cb.Done != nil {
		cb.Done(r.result)
	}
	return r.result
}

// overlapRunner counts how many turns drive it at once.
type overlapRunner struct {
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (r *overlapRunner) Process(context.Context, string) map[string]any {
	return map[string]any{"success": true, "answer": "ok"}
}

func (r *overlapRunner) ProcessStream(_ context.Context, _ string, cb agent.Callbacks) map[string]any {
	n := r.active.Add(1)
	for {
		seen := r.maxSeen.Load()
		if n <= seen || r.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	r.active.Add(-1)

	result := map[string]any{"success": true, "answer": "ok"}
	if cb.Answer != nil {
		cb.Answer("ok")
	}
	if cb.Done != nil {
		cb.Done(result)
	}
	return result
}

type fakeStream struct {
	grpc.ServerStream
	ctx    context.Context
	chunks []*agentpb.StreamChunk
}

func (f *fakeStream) Context() context.Context { return f.ctx }

func (f *fakeStream) Send(c *agentpb.StreamChunk) error {
	f.chunks = append(f.chunks, c)
	return nil
}

func (f *fakeStream) types() []string {
	types := make([]string, 0, len(f.chunks))
	for _, c := range f.chunks {
		types = append(types, c.GetChunkType())
	}
	return types
}

func newTestService(runner Runner, factoryErr error) *Service {
	sessions := NewSessions(func(string) (Runner, error) {
		if factoryErr != nil {
			return nil, factoryErr
		}
		return runner, nil
	}, 0, 0)
	return NewService(sessions, "1.0.0")
}

func successResult(answer string, history []agent.StepRecord) map[string]any {
	return map[string]any{
		"success": true,
		"answer":  answer,
		"mode":    "react",
		"reasoning": map[string]any{
			"text":        "<thinking>ok</thinking>",
			"total_steps": len(history),
			"tools_used":  []string{"search_cities"},
		},
		"history": history,
	}
}

func TestStreamMessageFrameOrder(t *testing.T) {
	runner := &scriptedRunner{
		thinking: []string{"分析任务", "执行计划"},
		answers:  []string{"你好", "，旅程开始"},
		result:   successResult("你好，旅程开始", nil),
	}
	svc := newTestService(runner, nil)
	stream := &fakeStream{ctx: context.Background()}

	err := svc.StreamMessage(&agentpb.MessageRequest{SessionId: "s1", UserInput: "推荐城市"}, stream)
	require.NoError(t, err)

	assert.Equal(t, []string{
		ChunkThinkingStart,
		ChunkThinking, ChunkThinking,
		ChunkThinkingEnd,
		ChunkAnswerStart,
		ChunkAnswer, ChunkAnswer,
		ChunkDone,
	}, stream.types())

	// Thinking chunks carry the elapsed-time prefix over the raw text.
	assert.True(t, strings.HasPrefix(stream.chunks[1].GetContent(), "[已思考 "))
	assert.Contains(t, stream.chunks[1].GetContent(), "分析任务")
	assert.Equal(t, "你好", stream.chunks[5].GetContent())
}

func TestStreamMessageSingleTerminalChunk(t *testing.T) {
	runner := &scriptedRunner{
		answers: []string{"答案"},
		result:  successResult("答案", nil),
	}
	svc := newTestService(runner, nil)
	stream := &fakeStream{ctx: context.Background()}

	require.NoError(t, svc.StreamMessage(&agentpb.MessageRequest{UserInput: "hi"}, stream))

	lastCount := 0
	for _, c := range stream.chunks {
		if c.GetIsLast() {
			lastCount++
			assert.Equal(t, ChunkDone, c.GetChunkType())
		}
	}
	assert.Equal(t, 1, lastCount)
	assert.True(t, stream.chunks[len(stream.chunks)-1].GetIsLast())

	// No thinking was produced, so no thinking_end marker.
	assert.NotContains(t, stream.types(), ChunkThinkingEnd)
}

func TestStreamMessageErrorAfterThinking(t *testing.T) {
	runner := &scriptedRunner{
		thinking: []string{"分析任务"},
		result:   map[string]any{"success": false, "error": "模型未配置", "mode": "react"},
	}
	svc := newTestService(runner, nil)
	stream := &fakeStream{ctx: context.Background()}

	require.NoError(t, svc.StreamMessage(&agentpb.MessageRequest{UserInput: "hi"}, stream))

	assert.Equal(t, []string{
		ChunkThinkingStart,
		ChunkThinking,
		ChunkThinkingEnd,
		ChunkError,
	}, stream.types())

	last := stream.chunks[len(stream.chunks)-1]
	assert.True(t, last.GetIsLast())
	assert.Equal(t, "模型未配置", last.GetContent())
}

func TestStreamMessageErrorWithoutThinking(t *testing.T) {
	runner := &scriptedRunner{
		result: map[string]any{"success": false, "error": "处理失败"},
	}
	svc := newTestService(runner, nil)
	stream := &fakeStream{ctx: context.Background()}

	require.NoError(t, svc.StreamMessage(&agentpb.MessageRequest{UserInput: "hi"}, stream))

	assert.Equal(t, []string{ChunkThinkingStart, ChunkError}, stream.types())
}

func TestStreamMessageUnknownModel(t *testing.T) {
	svc := newTestService(nil, errors.New("unknown model \"nope\""))
	stream := &fakeStream{ctx: context.Background()}

	require.NoError(t, svc.StreamMessage(&agentpb.MessageRequest{ModelId: "nope"}, stream))

	require.Len(t, stream.chunks, 1)
	assert.Equal(t, ChunkError, stream.chunks[0].GetChunkType())
	assert.True(t, stream.chunks[0].GetIsLast())
}

func TestStreamMessageSerializesPerSession(t *testing.T) {
	runner := &overlapRunner{}
	svc := newTestService(runner, nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stream := &fakeStream{ctx: context.Background()}
			assert.NoError(t, svc.StreamMessage(&agentpb.MessageRequest{SessionId: "s1", UserInput: "hi"}, stream))
		}()
	}
	wg.Wait()

	// Concurrent requests on one session queue up; the runner never
	// sees overlapping turns.
	assert.Equal(t, int32(1), runner.maxSeen.Load())
}

func TestProcessMessageSuccess(t *testing.T) {
	history := []agent.StepRecord{
		{
			Step: 1,
			Thought: agent.ThoughtRecord{
				ID:         "thought_0",
				Type:       agent.ThoughtAnalysis,
				Content:    "任务分析",
				Confidence: 0.85,
			},
			Action: agent.ActionRecord{
				ID:       "action_0",
				ToolName: "search_cities",
				Status:   agent.ActionSuccess,
				Duration: 12,
			},
			Evaluation: agent.Evaluation{Success: true, Duration: 12, HasResult: true},
		},
	}
	runner := &scriptedRunner{result: successResult("去杭州吧", history)}
	svc := newTestService(runner, nil)

	resp, err := svc.ProcessMessage(context.Background(), &agentpb.MessageRequest{
		SessionId: "s1",
		UserInput: "推荐城市",
	})
	require.NoError(t, err)

	assert.True(t, resp.GetSuccess())
	assert.Equal(t, "去杭州吧", resp.GetAnswer())
	require.NotNil(t, resp.GetReasoning())
	assert.Equal(t, int32(1), resp.GetReasoning().GetTotalSteps())
	assert.Equal(t, []string{"search_cities"}, resp.GetReasoning().GetToolsUsed())

	require.Len(t, resp.GetHistory(), 1)
	step := resp.GetHistory()[0]
	assert.Equal(t, int32(1), step.GetStep())
	assert.Equal(t, "ANALYSIS", step.GetThought().GetType())
	assert.Equal(t, "search_cities", step.GetAction().GetToolName())
	assert.Equal(t, "SUCCESS", step.GetAction().GetStatus())
	assert.True(t, step.GetEvaluation().GetSuccess())
}

func TestProcessMessageFailure(t *testing.T) {
	runner := &scriptedRunner{
		result: map[string]any{"success": false, "error": "规划生成失败", "history": []agent.StepRecord{}},
	}
	svc := newTestService(runner, nil)

	resp, err := svc.ProcessMessage(context.Background(), &agentpb.MessageRequest{UserInput: "hi"})
	require.NoError(t, err)

	assert.False(t, resp.GetSuccess())
	assert.Equal(t, "规划生成失败", resp.GetError())
	assert.Empty(t, resp.GetAnswer())
}

func TestHealthCheck(t *testing.T) {
	svc := newTestService(&scriptedRunner{}, nil)

	resp, err := svc.HealthCheck(context.Background(), &agentpb.HealthRequest{})
	require.NoError(t, err)

	assert.True(t, resp.GetHealthy())
	assert.Equal(t, "1.0.0", resp.GetVersion())
	assert.Equal(t, "running", resp.GetStatus())
}
