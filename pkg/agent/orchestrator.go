package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/wayfarer-ai/wayfarer/pkg/llm"
	"github.com/wayfarer-ai/wayfarer/pkg/memory"
)

// Chat modes. React is the default; direct skips tools entirely; plan
// asks the model for a step list up front and executes it.
const (
	ModeDirect = "direct"
	ModeReact  = "react"
	ModePlan   = "plan"
)

// answerPacing spaces answer tokens so downstream consumers render them
// progressively.
const answerPacing = 10 * time.Millisecond

const (
	defaultAnswer = "让我来帮你规划这次旅行吧！🎉"

	reactAnswerSystemPrompt = "你是一个专业的旅游助手。请根据用户的问题，提供详细、准确的旅游建议和规划。"
	directSystemPrompt      = "你是一个专业的旅游助手。"
	planSystemPrompt        = "你是一个专业的旅游规划助手。"

	answerStylePrompt = `你是一个超级热情、活泼的AI旅游小伙伴！

【任务】
根据工具查询结果，生成结构化的旅游推荐信息。

【说话风格】
- 使用轻松活泼的语气，多用口语化表达。适当使用emoji表情符号增添趣味。
- 适当加入旅行的氛围感描写
- 重点信息用**加粗**标记

【输出格式】
必须输出JSON格式，不要包含任何Markdown格式！JSON结构如下：
{
    "opening": "开场白，使用轻松活泼的语气",
    "cities": [
        {
            "name": "城市名",
            "emoji": "城市emoji",
            "days": "推荐天数",
            "budget": "预算描述",
            "season": "最佳旅行季节",
            "attractions": [
                {"name": "景点名", "type": "景点类型", "ticket": "门票价格", "description": "简短描述"}
            ]
        }
    ],
    "tips": "旅行小贴士"
}

【重要】
- 只输出JSON，不要输出任何Markdown语法
- 确保JSON格式正确，可以被解析
- 每个城市至少推荐2-4个景点`
)

const executionPlanPromptFmt = `用户请求: %s

请制定一个详细的执行计划，以 JSON 格式返回：
{
    "steps": [
        {
            "step": 1,
            "action": "工具名称",
            "params": {"参数": "值"},
            "description": "步骤描述"
        }
    ],
    "estimated_time": "预计总时间"
}

只返回 JSON，不要其他内容。`

// Callbacks receive orchestrator output as it is produced. Any field
// may be nil. Done fires exactly once per ProcessStream call.
type Callbacks struct {
	Answer   func(chunk string)
	Done     func(result map[string]any)
	Thinking ThinkStreamCallback
}

// Options configures one orchestrator instance.
type Options struct {
	Mode             string
	MaxSteps         int
	ToolTimeout      time.Duration
	MaxWorkingMemory int
}

// Orchestrator owns a full agent stack for one conversation: tool
// registry, planner, engine, conversation memory, and the model client.
// It is not safe for concurrent ProcessStream calls.
type Orchestrator struct {
	engine   *Engine
	registry *Registry
	llm      LLMClient
	memory   *memory.Manager
	mode     string
	log      *slog.Logger
}

// NewOrchestrator assembles the stack with the built-in travel tools.
// client may be nil, which disables the LLM-backed paths.
func NewOrchestrator(client LLMClient, opts Options) *Orchestrator {
	registry := NewRegistry(opts.ToolTimeout)
	RegisterTravelTools(registry, NewTravelData(), client)

	mode := opts.Mode
	if mode == "" {
		mode = ModeReact
	}

	return &Orchestrator{
		engine:   NewEngine(registry, NewPlanner(client), opts.MaxSteps),
		registry: registry,
		llm:      client,
		memory:   memory.NewManager(opts.MaxWorkingMemory, 0),
		mode:     mode,
		log:      slog.With("component", "orchestrator", "mode", mode),
	}
}

// Mode returns the configured chat mode.
func (o *Orchestrator) Mode() string {
	return o.mode
}

// Memory exposes the conversation memory.
func (o *Orchestrator) Memory() *memory.Manager {
	return o.memory
}

// Process handles one turn synchronously and returns the final result
// map. Used by the unary RPC.
func (o *Orchestrator) Process(ctx context.Context, userInput string) map[string]any {
	return o.ProcessStream(ctx, userInput, Callbacks{})
}

// ProcessStream handles one turn, pushing output through the callbacks.
// The returned map is the same value handed to cb.Done: {"success",
// "answer"|"error", "mode", "reasoning", "history"}.
func (o *Orchestrator) ProcessStream(ctx context.Context, userInput string, cb Callbacks) map[string]any {
	start := time.Now()
	o.log.Info("Turn started", "input", truncate(userInput, 50))

	o.memory.AddMessage("user", userInput)
	runCtx := map[string]any{
		"user_query":      userInput,
		"user_preference": o.memory.Preference(),
	}

	var result map[string]any
	switch o.mode {
	case ModeDirect:
		result = o.processDirect(ctx, userInput, cb)
	case ModePlan:
		result = o.processPlan(ctx, userInput, cb)
	default:
		result = o.processReact(ctx, userInput, runCtx, cb)
	}

	o.log.Info("Turn finished", "success", result["success"], "elapsed", time.Since(start).Round(time.Millisecond))

	if cb.Done != nil {
		cb.Done(result)
	}
	return result
}

// processDirect streams a plain LLM answer with no tool calls.
func (o *Orchestrator) processDirect(ctx context.Context, userInput string, cb Callbacks) map[string]any {
	if cb.Thinking != nil {
		cb.Thinking("【直接模式】直接生成回答...\n\n", 0)
	}
	if o.llm == nil {
		return errorResult(ModeDirect, "模型未配置", nil)
	}

	messages := []llm.Message{
		llm.SystemMessage(directSystemPrompt),
		llm.UserMessage(userInput),
	}

	var answer string
	if cb.Answer != nil {
		answer = o.streamAnswer(ctx, messages, cb.Answer)
	} else {
		content, err := o.llm.Chat(ctx, messages, llm.WithTemperature(0.7))
		if err != nil {
			return errorResult(ModeDirect, err.Error(), nil)
		}
		answer = content
	}

	o.memory.AddMessage("assistant", answer)

	return map[string]any{
		"success": true,
		"answer":  answer,
		"mode":    ModeDirect,
		"reasoning": map[string]any{
			"text":        "<thinking>\n[Direct Mode]\n直接调用 LLM 生成回答\n</thinking>",
			"total_steps": 0,
			"tools_used":  []string{},
		},
		"history": []StepRecord{},
	}
}

// processReact runs the engine, then streams a final answer.
func (o *Orchestrator) processReact(ctx context.Context, userInput string, runCtx map[string]any, cb Callbacks) map[string]any {
	o.engine.SetThinkStream(cb.Thinking)
	defer o.engine.SetThinkStream(nil)

	run := o.engine.Run(ctx, userInput, runCtx)
	if !run.Success {
		errMsg := run.Error
		if errMsg == "" {
			errMsg = "处理失败"
		}
		return errorResult(ModeReact, errMsg, run.History)
	}

	history := run.History
	o.recordOutcomes(history)

	answer := o.extractAnswer(ctx, history)
	o.memory.AddMessage("assistant", answer)

	if cb.Answer != nil && o.llm != nil {
		streamed := o.streamAnswer(ctx, []llm.Message{
			llm.SystemMessage(reactAnswerSystemPrompt),
			llm.UserMessage(userInput),
		}, cb.Answer)
		if streamed != "" {
			answer = streamed
		}
	}

	return map[string]any{
		"success": true,
		"answer":  answer,
		"mode":    ModeReact,
		"reasoning": map[string]any{
			"text":        buildReasoningText(history),
			"total_steps": len(history),
			"tools_used":  toolsUsed(history),
		},
		"history": history,
	}
}

// processPlan asks the model for a step list, executes it, then
// synthesizes one answer.
func (o *Orchestrator) processPlan(ctx context.Context, userInput string, cb Callbacks) map[string]any {
	if cb.Thinking != nil {
		cb.Thinking("【规划模式】正在生成执行计划...\n\n", 0)
	}
	if o.llm == nil {
		return errorResult(ModePlan, "模型未配置", nil)
	}

	planStart := time.Now()
	content, err := o.llm.Chat(ctx, []llm.Message{
		llm.SystemMessage(planSystemPrompt),
		llm.UserMessage(fmt.Sprintf(executionPlanPromptFmt, userInput)),
	}, llm.WithTemperature(0.3))
	if err != nil {
		return errorResult(ModePlan, "规划生成失败", nil)
	}

	steps := extractPlanSteps(content)
	if cb.Thinking != nil {
		cb.Thinking(fmt.Sprintf("【规划模式】计划生成完成，共 %d 个步骤\n\n", len(steps)), time.Since(planStart).Seconds())
	}

	var (
		history   []StepRecord
		reasoning strings.Builder
	)
	reasoning.WriteString("[规划模式执行]\n\n")

	for i, step := range steps {
		if cb.Thinking != nil {
			cb.Thinking(fmt.Sprintf("【规划模式】执行步骤 %d/%d: %s\n\n", i+1, len(steps), step.Description), 0)
		}
		fmt.Fprintf(&reasoning, "步骤 %d: %s\n", i+1, step.Description)

		action := &Action{
			ID:       fmt.Sprintf("action_%d", i),
			ToolName: step.Action,
			Params:   step.Params,
		}
		if step.Action != "" && step.Action != "none" {
			action.MarkRunning()
			result, err := o.registry.Execute(ctx, step.Action, step.Params)
			if err != nil {
				action.MarkFailed(err.Error())
				fmt.Fprintf(&reasoning, "  - 错误: %s\n", err)
			} else {
				action.MarkSuccess(result)
				fmt.Fprintf(&reasoning, "  - 执行: %s\n", step.Action)
				if raw, err := json.Marshal(result); err == nil {
					fmt.Fprintf(&reasoning, "  - 结果: %s...\n", truncate(string(raw), 100))
				}
			}
		} else {
			action.MarkSuccess(map[string]any{"message": "无操作需要执行"})
		}

		history = append(history, StepRecord{
			Step: i + 1,
			Thought: ThoughtRecord{
				ID:      fmt.Sprintf("plan_step_%d", i+1),
				Type:    ThoughtPlanning,
				Content: step.Description,
			},
			Action: ActionRecord{
				ID:       action.ID,
				ToolName: action.ToolName,
				Status:   action.Status,
				Duration: action.Duration,
				Result:   action.Result,
				Error:    action.Error,
			},
			Evaluation: evaluate(action),
			Timestamp:  time.Now().Format(time.RFC3339),
		})
	}
	reasoning.WriteString("\n执行完成。")

	if cb.Thinking != nil {
		cb.Thinking("【规划模式】正在生成最终回答...\n\n", 0)
	}

	answer := o.planAnswer(ctx, userInput, history)
	if cb.Answer != nil {
		cb.Answer(answer)
	}
	o.memory.AddMessage("assistant", answer)
	o.recordOutcomes(history)

	return map[string]any{
		"success": true,
		"answer":  answer,
		"mode":    ModePlan,
		"reasoning": map[string]any{
			"text":        fmt.Sprintf("<thinking>\n[规划模式]\n%s\n</thinking>", reasoning.String()),
			"total_steps": len(steps),
			"tools_used":  toolsUsed(history),
		},
		"history": history,
	}
}

// planAnswer synthesizes the final plan-mode answer from the executed
// steps.
func (o *Orchestrator) planAnswer(ctx context.Context, userInput string, history []StepRecord) string {
	var results []map[string]any
	for _, step := range history {
		if step.Evaluation.Success && step.Action.Result != nil {
			if ok, _ := step.Action.Result["success"].(bool); ok {
				results = append(results, step.Action.Result)
			}
		}
	}

	var prompt string
	if len(results) > 0 {
		raw, _ := json.MarshalIndent(results, "", "  ")
		prompt = fmt.Sprintf("用户请求: %s\n\n工具执行结果:\n%s\n\n请根据以上结果，生成一个结构清晰、内容丰富的旅游回答。", userInput, raw)
	} else {
		raw, _ := json.MarshalIndent(history, "", "  ")
		prompt = fmt.Sprintf("用户请求: %s\n\n执行计划已完成。请根据以下信息生成最终回答：\n%s\n\n请提供详细、结构化的回答。", userInput, raw)
	}

	content, err := o.llm.Chat(ctx, []llm.Message{
		llm.SystemMessage(directSystemPrompt),
		llm.UserMessage(prompt),
	}, llm.WithTemperature(0.7))
	if err != nil {
		return "抱歉，处理过程中出现问题。"
	}
	return content
}

// planStep is one entry of a parsed execution plan.
type planStep struct {
	Action      string
	Params      map[string]any
	Description string
}

var (
	planStepPattern   = regexp.MustCompile(`\{\s*"action"\s*:\s*"([^"]+)"\s*,\s*"params"\s*:\s*(\{[^}]*\})\s*,\s*"description"\s*:\s*"([^"]+)"\s*\}`)
	planActionPattern = regexp.MustCompile(`"action"\s*:\s*"([^"]+)"`)
)

// extractPlanSteps parses the model's plan. Tiered: full JSON parse,
// then per-step object regex, then bare action names.
func extractPlanSteps(content string) []planStep {
	if data := ParseJSONResponse(content); data != nil {
		if raw, ok := data["steps"].([]any); ok {
			steps := make([]planStep, 0, len(raw))
			for _, entry := range raw {
				m, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				step := planStep{
					Action:      asString(m["action"]),
					Description: asString(m["description"]),
				}
				if params, ok := m["params"].(map[string]any); ok {
					step.Params = params
				} else {
					step.Params = map[string]any{}
				}
				steps = append(steps, step)
			}
			if len(steps) > 0 {
				return steps
			}
		}
	}

	if matches := planStepPattern.FindAllStringSubmatch(content, -1); len(matches) > 0 {
		steps := make([]planStep, 0, len(matches))
		for _, m := range matches {
			params := map[string]any{}
			_ = json.Unmarshal([]byte(m[2]), &params)
			steps = append(steps, planStep{Action: m[1], Params: params, Description: m[3]})
		}
		return steps
	}

	if matches := planActionPattern.FindAllStringSubmatch(content, -1); len(matches) > 0 {
		steps := make([]planStep, 0, len(matches))
		for _, m := range matches {
			steps = append(steps, planStep{Action: m[1], Params: map[string]any{}, Description: m[1]})
		}
		return steps
	}

	return nil
}

// streamAnswer streams model tokens through the answer callback with
// pacing and returns the accumulated text.
func (o *Orchestrator) streamAnswer(ctx context.Context, messages []llm.Message, answerCb func(string)) string {
	var b strings.Builder
	for token := range o.llm.ChatStream(ctx, messages, llm.WithTemperature(0.7)) {
		b.WriteString(token)
		answerCb(token)
		time.Sleep(answerPacing)
	}
	return b.String()
}

// extractAnswer builds the final answer from the run history: with
// successful tool results it asks the model for the structured
// recommendation JSON and renders it; otherwise it falls back to the
// default greeting.
func (o *Orchestrator) extractAnswer(ctx context.Context, history []StepRecord) string {
	type toolResult struct {
		Tool   string         `json:"tool"`
		Result map[string]any `json:"result"`
	}
	var results []toolResult
	for _, step := range history {
		if step.Action.Status == ActionSuccess && step.Action.Result != nil {
			results = append(results, toolResult{Tool: step.Action.ToolName, Result: step.Action.Result})
		}
	}
	if len(results) == 0 || o.llm == nil {
		return defaultAnswer
	}

	raw, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return defaultAnswer
	}
	userPrompt := fmt.Sprintf("我想要规划一次旅行，这是我的查询结果：\n%s\n\n请只输出JSON格式的结果，不要有任何其他内容。", raw)

	content, err := o.llm.Chat(ctx, []llm.Message{
		llm.SystemMessage(answerStylePrompt),
		llm.UserMessage(userPrompt),
	}, llm.WithTemperature(0.7))
	if err != nil {
		return fmt.Sprintf("生成回答失败：%s", err)
	}

	if data := ParseJSONResponse(content); data != nil {
		return FormatTravelResponse(data)
	}
	return content
}

// recordOutcomes mirrors tool outcomes into the session memory so later
// turns can reference them.
func (o *Orchestrator) recordOutcomes(history []StepRecord) {
	for _, step := range history {
		result := step.Action.Result
		if step.Action.Status != ActionSuccess || result == nil {
			continue
		}
		switch step.Action.ToolName {
		case "search_cities", "generate_city_recommendation":
			if cities, ok := result["cities"].([]any); ok {
				names := make([]string, 0, len(cities))
				for _, entry := range cities {
					if m, ok := entry.(map[string]any); ok {
						if name := asString(m["city"]); name != "" {
							names = append(names, name)
						}
					}
				}
				o.memory.RecordCities(names)
			}
		case "generate_route", "generate_route_plan":
			o.memory.RecordPlan(result)
		case "query_attractions":
			if data, ok := result["data"].(map[string]any); ok {
				for city := range data {
					o.memory.RecordAttractions([]string{city})
				}
			}
		}
	}
}

// buildReasoningText formats the run history as the sectioned thinking
// block the web tier shows in the reasoning panel.
func buildReasoningText(history []StepRecord) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	if len(history) == 0 {
		return fmt.Sprintf("<thinking>\n[Timestamp: %s]\n\n[Intent Analysis]\nNo reasoning history available.\n\n[Context Evaluation]\nNo context available.\n\n[Response Planning]\nUnable to generate response.\n\n[Constraint Check]\nNo constraints checked.\n</thinking>", timestamp)
	}

	var intent, contextEval, planning, constraint []string
	for i, step := range history {
		line := fmt.Sprintf("Step %d: %s", i+1, step.Thought.Content)
		switch step.Thought.Type {
		case ThoughtAnalysis:
			intent = append(intent, line)
		case ThoughtPlanning:
			planning = append(planning, line)
		case ThoughtInference:
			contextEval = append(contextEval, line)
			if name := step.Action.ToolName; name != "" && name != "none" {
				contextEval = append(contextEval, fmt.Sprintf("  - Tool: %s [%s]", name, step.Action.Status))
			}
		case ThoughtReflection:
			constraint = append(constraint, line)
		}
	}

	section := func(header string, lines []string, fallback string) string {
		if len(lines) > 0 {
			return header + "\n" + strings.Join(lines, "\n")
		}
		return header + "\n" + fallback
	}

	used := toolsUsed(history)
	constraintFallback := fmt.Sprintf("All constraints satisfied.\n- Total reasoning steps: %d\n- Tools executed: %d\n- Response format: Standard text response", len(history), len(used))

	return fmt.Sprintf("<thinking>\n[Timestamp: %s]\n\n%s\n\n%s\n\n%s\n\n%s\n</thinking>",
		timestamp,
		section("[Intent Analysis]", intent, fmt.Sprintf("User query analysis based on %d reasoning steps.", len(history))),
		section("[Context Evaluation]", contextEval, "No explicit context evaluation steps recorded."),
		section("[Response Planning]", planning, "Response generation based on tool execution results."),
		section("[Constraint Check]", constraint, constraintFallback))
}

// toolsUsed collects the distinct tool names in execution order.
func toolsUsed(history []StepRecord) []string {
	var tools []string
	seen := map[string]bool{}
	for _, step := range history {
		name := step.Action.ToolName
		if name == "" || name == "none" || seen[name] {
			continue
		}
		seen[name] = true
		tools = append(tools, name)
	}
	return tools
}

func errorResult(mode, errMsg string, history []StepRecord) map[string]any {
	if history == nil {
		history = []StepRecord{}
	}
	return map[string]any{
		"success": false,
		"error":   errMsg,
		"mode":    mode,
		"history": history,
	}
}
