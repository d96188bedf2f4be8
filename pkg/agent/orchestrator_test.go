package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestratorDirectMode(t *testing.T) {
	client := &fakeLLM{responses: []string{"你好，旅行者！"}}
	o := NewOrchestrator(client, Options{Mode: ModeDirect})

	result := o.Process(context.Background(), "你好")

	assert.Equal(t, true, result["success"])
	assert.Equal(t, "你好，旅行者！", result["answer"])
	assert.Equal(t, ModeDirect, result["mode"])

	reasoning := result["reasoning"].(map[string]any)
	assert.Contains(t, reasoning["text"], "[Direct Mode]")
	assert.Equal(t, 0, reasoning["total_steps"])
	assert.Equal(t, []string{}, reasoning["tools_used"])
	assert.Empty(t, result["history"].([]StepRecord))

	// Both turn sides land in conversation memory.
	history := o.Memory().History(10)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, "你好，旅行者！", history[1].Content)
}

func TestOrchestratorDirectModeStreams(t *testing.T) {
	client := &fakeLLM{tokens: []string{"你", "好"}}
	o := NewOrchestrator(client, Options{Mode: ModeDirect})

	var chunks []string
	result := o.ProcessStream(context.Background(), "打个招呼", Callbacks{
		Answer: func(chunk string) { chunks = append(chunks, chunk) },
	})

	assert.Equal(t, []string{"你", "好"}, chunks)
	assert.Equal(t, "你好", result["answer"])
}

func TestOrchestratorDirectModeWithoutModel(t *testing.T) {
	o := NewOrchestrator(nil, Options{Mode: ModeDirect})

	result := o.Process(context.Background(), "你好")

	assert.Equal(t, false, result["success"])
	assert.Equal(t, "模型未配置", result["error"])
	assert.Equal(t, ModeDirect, result["mode"])
	assert.Empty(t, result["history"].([]StepRecord))
}

func TestOrchestratorDoneFiresOnce(t *testing.T) {
	o := NewOrchestrator(nil, Options{Mode: ModeDirect})

	var calls int
	var done map[string]any
	result := o.ProcessStream(context.Background(), "你好", Callbacks{
		Done: func(r map[string]any) {
			calls++
			done = r
		},
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, result["success"], done["success"])
}

func TestOrchestratorReactWithoutModel(t *testing.T) {
	o := NewOrchestrator(nil, Options{MaxSteps: 3})
	assert.Equal(t, ModeReact, o.Mode())

	result := o.Process(context.Background(), "推荐适合美食的城市")

	assert.Equal(t, true, result["success"])
	assert.Equal(t, defaultAnswer, result["answer"])
	assert.Equal(t, ModeReact, result["mode"])

	reasoning := result["reasoning"].(map[string]any)
	assert.Equal(t, 2, reasoning["total_steps"])
	assert.Equal(t, []string{"search_cities"}, reasoning["tools_used"])
	assert.Contains(t, reasoning["text"], "<thinking>")

	history := result["history"].([]StepRecord)
	require.Len(t, history, 2)
	assert.Equal(t, "search_cities", history[0].Action.ToolName)
}

func TestOrchestratorReactAborted(t *testing.T) {
	o := NewOrchestrator(nil, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := o.Process(ctx, "你好")
	assert.Equal(t, false, result["success"])
	assert.Equal(t, "context canceled", result["error"])
}

func TestOrchestratorPlanMode(t *testing.T) {
	client := &fakeLLM{responses: []string{
		`{"steps":[{"step":1,"action":"search_cities","params":{},"description":"搜索城市"}],"estimated_time":"1分钟"}`,
		"为你准备好了行程！",
	}}
	o := NewOrchestrator(client, Options{Mode: ModePlan})

	var thinking []string
	var chunks []string
	result := o.ProcessStream(context.Background(), "推荐草原城市", Callbacks{
		Thinking: func(text string, _ float64) { thinking = append(thinking, text) },
		Answer:   func(chunk string) { chunks = append(chunks, chunk) },
	})

	assert.Equal(t, true, result["success"])
	assert.Equal(t, "为你准备好了行程！", result["answer"])
	assert.Equal(t, ModePlan, result["mode"])
	assert.Equal(t, []string{"为你准备好了行程！"}, chunks)

	reasoning := result["reasoning"].(map[string]any)
	assert.Contains(t, reasoning["text"], "[规划模式]")
	assert.Contains(t, reasoning["text"], "步骤 1: 搜索城市")
	assert.Equal(t, 1, reasoning["total_steps"])
	assert.Equal(t, []string{"search_cities"}, reasoning["tools_used"])

	history := result["history"].([]StepRecord)
	require.Len(t, history, 1)
	assert.Equal(t, ThoughtPlanning, history[0].Thought.Type)
	assert.Equal(t, "搜索城市", history[0].Thought.Content)
	assert.Equal(t, ActionSuccess, history[0].Action.Status)

	require.NotEmpty(t, thinking)
	assert.Contains(t, thinking[0], "正在生成执行计划")
	assert.Contains(t, thinking[1], "共 1 个步骤")
	assert.Contains(t, thinking[2], "执行步骤 1/1")
	assert.Contains(t, thinking[len(thinking)-1], "正在生成最终回答")
}

func TestOrchestratorPlanModeFailures(t *testing.T) {
	t.Run("no model", func(t *testing.T) {
		o := NewOrchestrator(nil, Options{Mode: ModePlan})
		result := o.Process(context.Background(), "规划行程")
		assert.Equal(t, false, result["success"])
		assert.Equal(t, "模型未配置", result["error"])
	})

	t.Run("plan generation fails", func(t *testing.T) {
		client := &fakeLLM{err: errors.New("boom")}
		o := NewOrchestrator(client, Options{Mode: ModePlan})
		result := o.Process(context.Background(), "规划行程")
		assert.Equal(t, false, result["success"])
		assert.Equal(t, "规划生成失败", result["error"])
	})
}

func TestExtractPlanSteps(t *testing.T) {
	t.Run("full json", func(t *testing.T) {
		steps := extractPlanSteps(`{"steps":[{"step":1,"action":"search_cities","params":{"interests":["草原"]},"description":"搜索"}]}`)
		require.Len(t, steps, 1)
		assert.Equal(t, "search_cities", steps[0].Action)
		assert.Equal(t, "搜索", steps[0].Description)
		assert.Equal(t, []any{"草原"}, steps[0].Params["interests"])
	})

	t.Run("per step objects", func(t *testing.T) {
		content := `计划如下 {"action":"search_cities","params":{},"description":"搜索"} 然后 {"action":"generate_route","params":{"days":3},"description":"规划"}`
		steps := extractPlanSteps(content)
		require.Len(t, steps, 2)
		assert.Equal(t, "generate_route", steps[1].Action)
		assert.Equal(t, "规划", steps[1].Description)
		assert.Equal(t, float64(3), steps[1].Params["days"])
	})

	t.Run("bare action names", func(t *testing.T) {
		content := `先调用 "action": "search_cities" 再调用 "action": "llm_chat"`
		steps := extractPlanSteps(content)
		require.Len(t, steps, 2)
		assert.Equal(t, "llm_chat", steps[1].Action)
		assert.Equal(t, "llm_chat", steps[1].Description)
	})

	t.Run("garbage", func(t *testing.T) {
		assert.Nil(t, extractPlanSteps("没有计划可言"))
	})
}

func TestExtractAnswer(t *testing.T) {
	successStep := StepRecord{
		Step: 1,
		Action: ActionRecord{
			ToolName: "search_cities",
			Status:   ActionSuccess,
			Result:   map[string]any{"success": true, "cities": []any{}},
		},
	}

	t.Run("renders structured recommendation", func(t *testing.T) {
		client := &fakeLLM{responses: []string{`{"opening":"走起！","cities":[],"tips":"带好证件"}`}}
		o := NewOrchestrator(client, Options{})

		answer := o.extractAnswer(context.Background(), []StepRecord{successStep})
		assert.Contains(t, answer, "走起！")
		assert.Contains(t, answer, "带好证件")
	})

	t.Run("passes through non-JSON answers", func(t *testing.T) {
		client := &fakeLLM{responses: []string{"直接说结论"}}
		o := NewOrchestrator(client, Options{})

		assert.Equal(t, "直接说结论", o.extractAnswer(context.Background(), []StepRecord{successStep}))
	})

	t.Run("default answer without results", func(t *testing.T) {
		o := NewOrchestrator(&fakeLLM{}, Options{})
		assert.Equal(t, defaultAnswer, o.extractAnswer(context.Background(), nil))
	})

	t.Run("default answer without model", func(t *testing.T) {
		o := NewOrchestrator(nil, Options{})
		assert.Equal(t, defaultAnswer, o.extractAnswer(context.Background(), []StepRecord{successStep}))
	})

	t.Run("chat failure", func(t *testing.T) {
		client := &fakeLLM{err: errors.New("boom")}
		o := NewOrchestrator(client, Options{})

		answer := o.extractAnswer(context.Background(), []StepRecord{successStep})
		assert.Contains(t, answer, "生成回答失败")
	})
}

func TestToolsUsedDeduplicates(t *testing.T) {
	history := []StepRecord{
		{Action: ActionRecord{ToolName: "search_cities"}},
		{Action: ActionRecord{ToolName: "none"}},
		{Action: ActionRecord{ToolName: "search_cities"}},
		{Action: ActionRecord{ToolName: "llm_chat"}},
	}
	assert.Equal(t, []string{"search_cities", "llm_chat"}, toolsUsed(history))
}

func TestBuildReasoningText(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		text := buildReasoningText(nil)
		assert.Contains(t, text, "<thinking>")
		assert.Contains(t, text, "No reasoning history available.")
	})

	t.Run("sections by thought type", func(t *testing.T) {
		history := []StepRecord{
			{
				Thought: ThoughtRecord{Type: ThoughtAnalysis, Content: "分析用户意图"},
				Action:  ActionRecord{ToolName: "search_cities", Status: ActionSuccess},
			},
			{
				Thought: ThoughtRecord{Type: ThoughtInference, Content: "执行成功"},
				Action:  ActionRecord{ToolName: "llm_chat", Status: ActionSuccess},
			},
		}
		text := buildReasoningText(history)
		assert.Contains(t, text, "[Intent Analysis]\nStep 1: 分析用户意图")
		assert.Contains(t, text, "[Context Evaluation]\nStep 2: 执行成功")
		assert.Contains(t, text, "  - Tool: llm_chat [SUCCESS]")
		assert.Contains(t, text, "[Constraint Check]")
	})
}
