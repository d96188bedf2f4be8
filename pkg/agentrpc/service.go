package agentrpc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"

	"github.com/wayfarer-ai/wayfarer/pkg/agent"
	agentpb "github.com/wayfarer-ai/wayfarer/proto"
)

// Streaming cadence. Queue polls mirror the upstream frame protocol:
// thinking output is checked first each cycle, answers are paced so the
// browser renders them progressively.
const (
	queuePoll    = 50 * time.Millisecond
	answerPacing = 20 * time.Millisecond

	// queueDepth bounds the in-flight chunk buffers between the
	// orchestrator goroutine and the stream writer.
	queueDepth = 256
)

// Chunk types emitted on the stream. The final chunk is exactly one of
// done or error and carries is_last.
const (
	ChunkThinkingStart = "thinking_start"
	ChunkThinking      = "thinking_chunk"
	ChunkThinkingEnd   = "thinking_end"
	ChunkAnswerStart   = "answer_start"
	ChunkAnswer        = "answer"
	ChunkDone          = "done"
	ChunkError         = "error"
)

// Service implements the AgentService RPCs over a session registry.
type Service struct {
	agentpb.UnimplementedAgentServiceServer

	sessions *Sessions
	version  string
	log      *slog.Logger
}

// NewService creates the gRPC service. version is reported by
// HealthCheck.
func NewService(sessions *Sessions, version string) *Service {
	return &Service{
		sessions: sessions,
		version:  version,
		log:      slog.With("component", "agent_service"),
	}
}

// ProcessMessage runs one turn to completion and returns the full
// result, including the reasoning trace and step history.
func (s *Service) ProcessMessage(ctx context.Context, req *agentpb.MessageRequest) (*agentpb.MessageResponse, error) {
	s.log.Info("ProcessMessage", "session_id", req.GetSessionId(), "model_id", req.GetModelId())

	runner, release, err := s.sessions.Acquire(req.GetSessionId(), req.GetModelId())
	if err != nil {
		return &agentpb.MessageResponse{Success: false, Error: err.Error()}, nil
	}
	defer release()

	result := runner.Process(ctx, req.GetUserInput())

	success, _ := result["success"].(bool)
	if !success {
		errMsg, _ := result["error"].(string)
		return &agentpb.MessageResponse{
			Success: false,
			Error:   errMsg,
			History: historyProto(result["history"]),
		}, nil
	}

	answer, _ := result["answer"].(string)
	return &agentpb.MessageResponse{
		Success:   true,
		Answer:    answer,
		Reasoning: reasoningProto(result["reasoning"]),
		History:   historyProto(result["history"]),
	}, nil
}

// StreamMessage runs one turn while streaming typed chunks. The
// orchestrator pushes thinking and answer text into buffered queues; the
// writer loop interleaves them, bracketing the phases with
// thinking_start/thinking_end and answer_start markers.
func (s *Service) StreamMessage(req *agentpb.MessageRequest, stream grpc.ServerStreamingServer[agentpb.StreamChunk]) error {
	ctx := stream.Context()
	s.log.Info("StreamMessage", "session_id", req.GetSessionId(), "model_id", req.GetModelId())

	runner, release, err := s.sessions.Acquire(req.GetSessionId(), req.GetModelId())
	if err != nil {
		return send(stream, ChunkError, err.Error(), true)
	}

	if err := send(stream, ChunkThinkingStart, "", false); err != nil {
		release()
		return err
	}

	start := time.Now()
	thinkingCh := make(chan string, queueDepth)
	answerCh := make(chan string, queueDepth)
	doneCh := make(chan struct{})
	workerDone := make(chan struct{})
	stopCh := make(chan struct{})
	var turnErr string

	// The session stays locked until the orchestrator goroutine exits,
	// even when the writer loop bails out early on a send error.
	// Closing stopCh unblocks callbacks still pushing into full queues.
	defer func() {
		close(stopCh)
		<-workerDone
		release()
	}()

	go func() {
		defer close(workerDone)
		runner.ProcessStream(ctx, req.GetUserInput(), agent.Callbacks{
			Thinking: func(text string, _ float64) {
				select {
				case thinkingCh <- text:
				case <-ctx.Done():
				case <-stopCh:
				}
			},
			Answer: func(chunk string) {
				select {
				case answerCh <- chunk:
				case <-ctx.Done():
				case <-stopCh:
				}
			},
			Done: func(result map[string]any) {
				if success, _ := result["success"].(bool); !success {
					turnErr, _ = result["error"].(string)
					if turnErr == "" {
						turnErr = "处理失败"
					}
				}
				close(doneCh)
			},
		})
	}()

	thinkingSent := false
	answerStarted := false

	startAnswer := func() error {
		if answerStarted {
			return nil
		}
		if thinkingSent {
			if err := send(stream, ChunkThinkingEnd, "", false); err != nil {
				return err
			}
		}
		answerStarted = true
		return send(stream, ChunkAnswerStart, "", false)
	}

loop:
	for {
		select {
		case content := <-thinkingCh:
			elapsed := time.Since(start).Seconds()
			text := fmt.Sprintf("[已思考 %.1f秒]\n\n%s", elapsed, content)
			if err := send(stream, ChunkThinking, text, false); err != nil {
				return err
			}
			thinkingSent = true
			continue loop
		case <-time.After(queuePoll):
		}

		select {
		case chunk := <-answerCh:
			if err := startAnswer(); err != nil {
				return err
			}
			if err := send(stream, ChunkAnswer, chunk, false); err != nil {
				return err
			}
			time.Sleep(answerPacing)
			continue loop
		case <-time.After(queuePoll):
		}

		select {
		case <-doneCh:
			// Flush answer text the orchestrator produced after the
			// last poll.
			for {
				select {
				case chunk := <-answerCh:
					if err := startAnswer(); err != nil {
						return err
					}
					if err := send(stream, ChunkAnswer, chunk, false); err != nil {
						return err
					}
				default:
					break loop
				}
			}
		case <-ctx.Done():
			s.log.Warn("Stream cancelled", "session_id", req.GetSessionId(), "error", ctx.Err())
			return ctx.Err()
		default:
		}
	}

	if turnErr != "" {
		if thinkingSent && !answerStarted {
			if err := send(stream, ChunkThinkingEnd, "", false); err != nil {
				return err
			}
		}
		return send(stream, ChunkError, turnErr, true)
	}
	return send(stream, ChunkDone, "", true)
}

// HealthCheck reports liveness and the running version.
func (s *Service) HealthCheck(context.Context, *agentpb.HealthRequest) (*agentpb.HealthResponse, error) {
	return &agentpb.HealthResponse{
		Healthy: true,
		Version: s.version,
		Status:  "running",
	}, nil
}

func send(stream grpc.ServerStreamingServer[agentpb.StreamChunk], chunkType, content string, isLast bool) error {
	return stream.Send(&agentpb.StreamChunk{
		ChunkType: chunkType,
		Content:   content,
		IsLast:    isLast,
	})
}

// reasoningProto converts the orchestrator's reasoning map.
func reasoningProto(v any) *agentpb.ReasoningInfo {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	text, _ := m["text"].(string)
	steps, _ := m["total_steps"].(int)
	tools, _ := m["tools_used"].([]string)
	return &agentpb.ReasoningInfo{
		Text:       text,
		TotalSteps: int32(steps),
		ToolsUsed:  tools,
	}
}

// historyProto converts the step records attached to a turn result.
func historyProto(v any) []*agentpb.HistoryStep {
	history, ok := v.([]agent.StepRecord)
	if !ok {
		return nil
	}
	steps := make([]*agentpb.HistoryStep, 0, len(history))
	for _, record := range history {
		steps = append(steps, &agentpb.HistoryStep{
			Step: int32(record.Step),
			Thought: &agentpb.ThoughtInfo{
				Id:         record.Thought.ID,
				Type:       string(record.Thought.Type),
				Content:    record.Thought.Content,
				Confidence: record.Thought.Confidence,
				Decision:   record.Thought.Decision,
			},
			Action: &agentpb.ActionInfo{
				Id:       record.Action.ID,
				ToolName: record.Action.ToolName,
				Status:   string(record.Action.Status),
				Duration: float64(record.Action.Duration),
			},
			Evaluation: &agentpb.EvaluationInfo{
				Success:  record.Evaluation.Success,
				Duration: float64(record.Evaluation.Duration),
			},
		})
	}
	return steps
}
