package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/wayfarer-ai/wayfarer/pkg/config"
	"github.com/wayfarer-ai/wayfarer/pkg/session"
	agentpb "github.com/wayfarer-ai/wayfarer/proto"
)

// fakeAgentClient is a scripted AgentServiceClient.
type fakeAgentClient struct {
	chunks    []*agentpb.StreamChunk
	streamErr error
	recvErr   error

	response   *agentpb.MessageResponse
	healthErr  error
	lastStream *agentpb.MessageRequest
}

func (f *fakeAgentClient) ProcessMessage(context.Context, *agentpb.MessageRequest, ...grpc.CallOption) (*agentpb.MessageResponse, error) {
	return f.response, nil
}

func (f *fakeAgentClient) StreamMessage(_ context.Context, in *agentpb.MessageRequest, _ ...grpc.CallOption) (grpc.ServerStreamingClient[agentpb.StreamChunk], error) {
	f.lastStream = in
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	return &fakeStreamClient{chunks: f.chunks, err: f.recvErr}, nil
}

func (f *fakeAgentClient) HealthCheck(context.Context, *agentpb.HealthRequest, ...grpc.CallOption) (*agentpb.HealthResponse, error) {
	if f.healthErr != nil {
		return nil, f.healthErr
	}
	return &agentpb.HealthResponse{Healthy: true, Version: "1.0.0", Status: "running"}, nil
}

type fakeStreamClient struct {
	grpc.ClientStream
	chunks []*agentpb.StreamChunk
	err    error
	next   int
}

func (f *fakeStreamClient) Recv() (*agentpb.StreamChunk, error) {
	if f.next < len(f.chunks) {
		chunk := f.chunks[f.next]
		f.next++
		return chunk, nil
	}
	if f.err != nil {
		return nil, f.err
	}
	return nil, io.EOF
}

func testConfig() *config.Config {
	return &config.Config{
		Web: &config.WebConfig{
			StreamTimeout:     config.Duration(5 * time.Second),
			HeartbeatInterval: config.Duration(30 * time.Second),
		},
		DefaultModel: "qwen",
		ModelRegistry: config.NewModelRegistry(map[string]*config.ModelConfig{
			"qwen":   {ID: "qwen", Name: "通义千问", Provider: "alibaba", APIKey: "sk-test"},
			"hidden": {ID: "hidden", Name: "占位", Provider: "openai", APIKey: "YOUR_API_KEY"},
		}),
	}
}

func newTestServer(agent agentpb.AgentServiceClient) (*Server, *session.Store) {
	store := session.NewStore(0, 0)
	return NewServer(testConfig(), store, agent), store
}

// sseEvents parses the data frames of an SSE body.
func sseEvents(t *testing.T, body string) []map[string]any {
	t.Helper()
	var events []map[string]any
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event))
		events = append(events, event)
	}
	return events
}

func eventTypes(events []map[string]any) []string {
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e["type"].(string))
	}
	return types
}

func postChat(s *Server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat/stream", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestChatStreamRejectsEmptyMessage(t *testing.T) {
	s, _ := newTestServer(&fakeAgentClient{})

	for _, body := range []string{`{"message":""}`, `{"message":"   "}`} {
		rec := postChat(s, body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "消息不能为空")
	}
}

func TestChatStreamRejectsOversizedMessage(t *testing.T) {
	s, _ := newTestServer(&fakeAgentClient{})

	long := strings.Repeat("游", maxMessageLen+1)
	rec := postChat(s, `{"message":"`+long+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "消息长度不能超过5000字符")

	// Exactly at the limit passes validation.
	ok := strings.Repeat("游", maxMessageLen)
	rec = postChat(s, `{"message":"`+ok+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChatStreamTranslatesChunks(t *testing.T) {
	agent := &fakeAgentClient{chunks: []*agentpb.StreamChunk{
		{ChunkType: "thinking_start"},
		{ChunkType: "thinking_chunk", Content: "[已思考 0.1秒]\n\n分析任务"},
		{ChunkType: "thinking_end"},
		{ChunkType: "answer_start"},
		{ChunkType: "answer", Content: "推荐杭州"},
		{ChunkType: "done", IsLast: true},
	}}
	s, store := newTestServer(agent)

	rec := postChat(s, `{"message":"推荐一个城市"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no", rec.Header().Get("X-Accel-Buffering"))

	events := sseEvents(t, rec.Body.String())
	assert.Equal(t, []string{
		"session_id",
		"reasoning_start",
		"reasoning_chunk",
		"reasoning_end",
		"answer_start",
		"chunk",
		"done",
	}, eventTypes(events))

	assert.Contains(t, events[2]["content"], "分析任务")
	assert.Equal(t, "推荐杭州", events[5]["content"])

	// A session was auto-created and credited with the turn.
	sessionID := events[0]["session_id"].(string)
	sess, err := store.Get(sessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, sess.MessageCount)
	assert.Equal(t, sessionID, agent.lastStream.GetSessionId())
}

func TestChatStreamCarriesSessionModel(t *testing.T) {
	agent := &fakeAgentClient{chunks: []*agentpb.StreamChunk{{ChunkType: "done", IsLast: true}}}
	s, store := newTestServer(agent)

	sess := store.Create("")
	require.NoError(t, store.SetModel(sess.ID, "qwen"))

	rec := postChat(s, `{"message":"hi","session_id":"`+sess.ID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, sess.ID, agent.lastStream.GetSessionId())
	assert.Equal(t, "qwen", agent.lastStream.GetModelId())
}

func TestChatStreamErrorChunkRecovery(t *testing.T) {
	agent := &fakeAgentClient{chunks: []*agentpb.StreamChunk{
		{ChunkType: "thinking_start"},
		{ChunkType: "error", Content: "模型未配置", IsLast: true},
	}}
	s, _ := newTestServer(agent)

	rec := postChat(s, `{"message":"hi"}`)
	events := sseEvents(t, rec.Body.String())

	assert.Equal(t, []string{
		"session_id",
		"reasoning_start",
		"reasoning_chunk",
		"reasoning_end",
		"answer_start",
		"chunk",
	}, eventTypes(events))

	assert.Equal(t, "处理出错: 模型未配置", events[2]["content"])
	assert.Equal(t, "抱歉，处理您的请求时出现问题。", events[5]["content"])
}

func TestChatStreamTransportFailure(t *testing.T) {
	agent := &fakeAgentClient{streamErr: status.Error(codes.Unavailable, "connection refused")}
	s, _ := newTestServer(agent)

	rec := postChat(s, `{"message":"hi"}`)
	events := sseEvents(t, rec.Body.String())

	assert.Equal(t, []string{
		"session_id",
		"reasoning_chunk",
		"reasoning_end",
		"answer_start",
		"chunk",
		"done",
	}, eventTypes(events))

	assert.Contains(t, events[1]["content"], "连接后端服务失败")
	assert.Equal(t, "抱歉，连接后端服务失败，请稍后重试。", events[4]["content"])
}

func TestChatStreamRecvFailure(t *testing.T) {
	agent := &fakeAgentClient{
		chunks:  []*agentpb.StreamChunk{{ChunkType: "thinking_start"}},
		recvErr: status.Error(codes.DeadlineExceeded, "deadline"),
	}
	s, _ := newTestServer(agent)

	rec := postChat(s, `{"message":"hi"}`)
	events := sseEvents(t, rec.Body.String())
	types := eventTypes(events)

	assert.Equal(t, "reasoning_start", types[1])
	assert.Contains(t, events[2]["content"], "连接后端服务失败")
	assert.Equal(t, "done", types[len(types)-1])
}
