package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	echo "github.com/labstack/echo/v5"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	agentpb "github.com/wayfarer-ai/wayfarer/proto"
)

const (
	// maxMessageLen bounds the chat input, counted in characters.
	maxMessageLen = 5000

	// eventPacing is the small delay after each SSE event so the
	// browser renders the stream progressively.
	eventPacing = 10 * time.Millisecond
)

// ChatStreamRequest is the body for POST /api/chat/stream.
type ChatStreamRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// chatStreamHandler handles POST /api/chat/stream: it opens the
// server-streaming RPC to the agent and re-frames its chunks as SSE
// events for the browser.
func (s *Server) chatStreamHandler(c *echo.Context) error {
	var req ChatStreamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Message) == "" {
		return unprocessable(c, "消息不能为空")
	}
	if utf8.RuneCountInString(req.Message) > maxMessageLen {
		return unprocessable(c, "消息长度不能超过5000字符")
	}

	sessionID := req.SessionID
	modelID := ""
	if sessionID == "" {
		sessionID = s.store.Create("").ID
	} else if m, err := s.store.Model(sessionID); err == nil {
		modelID = m
	}

	h := c.Response().Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	emit := newSSEEmitter(c.Response())

	ctx, cancel := context.WithTimeout(c.Request().Context(), s.cfg.Web.StreamTimeout.Std())
	defer cancel()

	emit.event(map[string]any{"type": "session_id", "session_id": sessionID})

	stream, err := s.agent.StreamMessage(ctx, &agentpb.MessageRequest{
		SessionId: sessionID,
		UserInput: req.Message,
		ModelId:   modelID,
		Stream:    true,
	})
	if err != nil {
		s.log.Error("StreamMessage failed", "session_id", sessionID, "error", err)
		emit.rpcFailure(err)
		return nil
	}

	s.consumeStream(ctx, stream, emit, sessionID)

	// Two messages per completed turn: the user's and the answer.
	if err := s.store.Touch(sessionID, 2); err != nil {
		s.log.Warn("Session touch failed", "session_id", sessionID, "error", err)
	}
	return nil
}

// consumeStream pumps RPC chunks into SSE events until the stream ends,
// emitting heartbeats across idle gaps.
func (s *Server) consumeStream(ctx context.Context, stream agentpb.AgentService_StreamMessageClient, emit *sseEmitter, sessionID string) {
	type recvResult struct {
		chunk *agentpb.StreamChunk
		err   error
	}

	chunkCh := make(chan recvResult)
	go func() {
		for {
			chunk, err := stream.Recv()
			select {
			case chunkCh <- recvResult{chunk, err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	heartbeatEvery := s.cfg.Web.HeartbeatInterval.Std()
	if heartbeatEvery <= 0 {
		heartbeatEvery = 30 * time.Second
	}

	for {
		select {
		case r := <-chunkCh:
			if r.err != nil {
				if r.err == io.EOF {
					return
				}
				s.log.Error("Stream recv failed", "session_id", sessionID, "error", r.err)
				emit.rpcFailure(r.err)
				return
			}
			if done := emit.translate(r.chunk); done {
				return
			}
		case <-time.After(heartbeatEvery):
			emit.heartbeat()
		case <-ctx.Done():
			s.log.Info("Stream closed by client", "session_id", sessionID)
			return
		}
	}
}

// sseEmitter writes `data: {json}` frames with flushing and pacing.
type sseEmitter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func newSSEEmitter(w http.ResponseWriter) *sseEmitter {
	return &sseEmitter{w: w, rc: http.NewResponseController(w)}
}

func (e *sseEmitter) event(payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(e.w, "data: %s\n\n", data)
	e.rc.Flush()
	time.Sleep(eventPacing)
}

func (e *sseEmitter) heartbeat() {
	e.event(map[string]any{
		"type":      "heartbeat",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// translate maps one RPC chunk to its SSE event(s). Returns true when
// the stream is finished.
func (e *sseEmitter) translate(chunk *agentpb.StreamChunk) bool {
	switch chunk.GetChunkType() {
	case "thinking_start":
		e.event(map[string]any{"type": "reasoning_start"})
	case "thinking_chunk":
		e.event(map[string]any{"type": "reasoning_chunk", "content": chunk.GetContent()})
	case "thinking_end":
		e.event(map[string]any{"type": "reasoning_end"})
	case "answer_start":
		e.event(map[string]any{"type": "answer_start"})
	case "answer":
		e.event(map[string]any{"type": "chunk", "content": chunk.GetContent()})
	case "done":
		e.event(map[string]any{"type": "done"})
		return true
	case "error":
		e.recovery("处理出错: "+chunk.GetContent(), "抱歉，处理您的请求时出现问题。", false)
		return true
	}
	return chunk.GetIsLast()
}

// rpcFailure emits the canonical recovery sequence for transport-level
// failures so the browser still renders a complete turn.
func (e *sseEmitter) rpcFailure(err error) {
	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		e.recovery(
			fmt.Sprintf("连接后端服务失败: %s", st.Code()),
			"抱歉，连接后端服务失败，请稍后重试。",
			true,
		)
		return
	}
	e.recovery(fmt.Sprintf("处理异常: %v", err), "抱歉，处理您的请求时出现异常。", true)
}

// recovery renders an error as a short reasoning-plus-answer sequence.
func (e *sseEmitter) recovery(reason, apology string, withDone bool) {
	e.event(map[string]any{"type": "reasoning_chunk", "content": reason})
	e.event(map[string]any{"type": "reasoning_end"})
	e.event(map[string]any{"type": "answer_start"})
	e.event(map[string]any{"type": "chunk", "content": apology})
	if withDone {
		e.event(map[string]any{"type": "done"})
	}
}
