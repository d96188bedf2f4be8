package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/wayfarer-ai/wayfarer/pkg/llm"
)

const analysisSystemPrompt = `你是一个专业的旅游助手，负责分析用户的旅游需求。

可用工具：
- search_cities: 根据兴趣、预算搜索城市
- query_attractions: 查询城市景点
- get_city_info: 获取城市详情
- generate_route_plan: 生成详细路线规划
- llm_chat: 一般对话

请分析用户输入，判断意图，并决定使用哪些工具。`

const analysisUserPromptFmt = `用户输入：%s

请分析这个请求，以JSON格式返回intent、reasoning、tools和confidence。只返回JSON格式。`

const planSystemPromptFmt = `你是 ReAct 智能体，负责规划行动步骤。

用户任务：%s

可用工具：
%s

请规划执行步骤。返回JSON格式：
{
  "reasoning": "选择理由",
  "steps": [
    {"action": "工具名", "params": {"参数名": "参数值"}, "reasoning": "为什么选这个工具"}
  ]
}`

// Task classification keyword buckets, checked in order.
var (
	recommendKeywords = []string{"推荐", "建议", "哪些", "适合"}
	queryKeywords     = []string{"查询", "搜索", "有什么", "信息"}
	planningKeywords  = []string{"规划", "计划", "路线", "行程", "安排", "攻略", "旅游", "旅行", "游玩", "出游", "出发"}

	// Rule decomposition uses narrower planning triggers than task
	// classification does.
	routeIntentKeywords  = []string{"规划", "路线", "行程", "安排"}
	travelIntentKeywords = []string{"旅游", "旅行", "游玩", "出游", "出发"}
)

var taskTypeNames = map[string]string{
	"recommendation": "城市推荐",
	"query":          "信息查询",
	"planning":       "路线规划",
	"budget":         "预算计算",
	"general":        "一般对话",
}

var (
	daysPattern   = regexp.MustCompile(`(\d+)\s*天`)
	budgetPattern = regexp.MustCompile(`(\d+)\s*元`)

	// City extraction patterns, tried in priority order. Candidates that
	// contain question words are rejected.
	cityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(.+?)\s+计划`),
		regexp.MustCompile(`^(.+?)\s+想要`),
		regexp.MustCompile(`(?:去|在|到)(.+?)(?:旅游|游玩|旅行)?`),
		regexp.MustCompile(`(.+?)的?攻略`),
	}
	cityExcludeWords = []string{"推荐", "建议", "哪些", "什么"}
)

// Entities holds the structured fields pulled from a task by the rule
// extractor. Days always carries a value; the rest are optional.
type Entities struct {
	Days   int    `json:"days"`
	City   string `json:"city,omitempty"`
	Budget int    `json:"budget,omitempty"`
}

// Planner turns a task into thoughts: the initial analysis and action
// plan, and the reflection after a failed step. With an LLM client it
// asks the model first and falls back to keyword rules; without one it
// uses the rules directly.
type Planner struct {
	llm LLMClient
	log *slog.Logger

	// Thought ids stay unique across runs of the same planner.
	counter atomic.Int64
}

// NewPlanner creates a planner. client may be nil, which disables the
// LLM paths.
func NewPlanner(client LLMClient) *Planner {
	return &Planner{
		llm: client,
		log: slog.With("component", "planner"),
	}
}

func (p *Planner) newThought(typ ThoughtType, content string) *Thought {
	return &Thought{
		ID:         fmt.Sprintf("thought_%d", p.counter.Add(1)),
		Type:       typ,
		Content:    content,
		Confidence: 0.85,
	}
}

// AnalyzeTask classifies the task and proposes tools. The context is the
// run's ambient data; the current rules do not consult it.
func (p *Planner) AnalyzeTask(ctx context.Context, task string, _ map[string]any) *Thought {
	if p.llm != nil {
		if thought := p.analyzeWithLLM(ctx, task); thought != nil {
			return thought
		}
	}
	return p.analyzeWithKeywords(task)
}

func (p *Planner) analyzeWithLLM(ctx context.Context, task string) *Thought {
	messages := []llm.Message{
		llm.SystemMessage(analysisSystemPrompt),
		llm.UserMessage(fmt.Sprintf(analysisUserPromptFmt, task)),
	}

	raw, err := p.llm.Chat(ctx, messages, llm.WithTemperature(0.3))
	if err != nil {
		p.log.Warn("LLM analysis failed, falling back to rules", "error", err)
		return nil
	}

	content := ExtractJSONFromMarkdown(raw)
	var analysis map[string]any
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		// Models occasionally emit single-quoted pseudo-JSON.
		fixed := strings.ReplaceAll(content, "'", `"`)
		if err := json.Unmarshal([]byte(fixed), &analysis); err != nil {
			p.log.Warn("LLM analysis returned unparseable JSON, falling back to rules",
				"snippet", truncate(content, 100))
			return nil
		}
	}

	reasoning, _ := analysis["reasoning"].(string)
	thought := p.newThought(ThoughtAnalysis, "【任务分析】"+reasoning)

	tools, _ := analysis["tools"].([]any)
	decision := make([]DecisionStep, 0, len(tools))
	for i, entry := range tools {
		step := DecisionStep{Step: i + 1, Params: map[string]any{}}
		switch v := entry.(type) {
		case map[string]any:
			step.Action, _ = v["name"].(string)
			if params, ok := v["parameters"].(map[string]any); ok {
				step.Params = params
			}
		default:
			step.Action = fmt.Sprint(v)
		}
		decision = append(decision, step)
	}
	if len(decision) > 0 {
		thought.Decision = decision
	}

	if confidence, ok := analysis["confidence"].(float64); ok {
		thought.Confidence = confidence
	}

	p.log.Info("LLM analysis complete", "tools", len(decision), "confidence", thought.Confidence)
	return thought
}

func (p *Planner) analyzeWithKeywords(task string) *Thought {
	entities := extractEntities(task)
	taskLower := strings.ToLower(task)

	var taskType string
	switch {
	case containsAny(taskLower, recommendKeywords):
		taskType = "recommendation"
	case containsAny(taskLower, queryKeywords):
		taskType = "query"
	case containsAny(taskLower, planningKeywords):
		taskType = "planning"
	default:
		taskType = "general"
	}

	typeName, ok := taskTypeNames[taskType]
	if !ok {
		typeName = "一般对话"
	}

	entJSON, _ := json.Marshal(entities)
	content := fmt.Sprintf("【任务分析】用户输入：「%s」\n【意图识别】任务类型=%s\n【提取信息】%s",
		task, typeName, entJSON)

	thought := p.newThought(ThoughtAnalysis, content)
	thought.Confidence = 0.7
	return thought
}

// PlanActions produces the execution plan for a task over the available
// tools.
func (p *Planner) PlanActions(ctx context.Context, task string, tools []*ToolInfo) *Thought {
	if p.llm != nil {
		if thought := p.planWithLLM(ctx, task, tools); thought != nil {
			return thought
		}
	}
	return p.planWithRules(task, tools)
}

func (p *Planner) planWithLLM(ctx context.Context, task string, tools []*ToolInfo) *Thought {
	lines := make([]string, 0, len(tools))
	for _, t := range tools {
		lines = append(lines, fmt.Sprintf("- %s: %s (参数: %s)", t.Name, t.Description, t.ParamSummary()))
	}

	prompt := fmt.Sprintf(planSystemPromptFmt, task, strings.Join(lines, "\n"))
	raw, err := p.llm.Chat(ctx, []llm.Message{llm.SystemMessage(prompt)}, llm.WithTemperature(0.3))
	if err != nil {
		p.log.Warn("LLM planning failed, falling back to rules", "error", err)
		return nil
	}

	var plan map[string]any
	if err := json.Unmarshal([]byte(ExtractJSONFromMarkdown(raw)), &plan); err != nil {
		p.log.Warn("LLM plan returned unparseable JSON, falling back to rules", "error", err)
		return nil
	}

	reasoning, _ := plan["reasoning"].(string)
	thought := p.newThought(ThoughtPlanning, "【执行计划】"+reasoning)

	steps, _ := plan["steps"].([]any)
	decision := make([]DecisionStep, 0, len(steps))
	for i, entry := range steps {
		s, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		step := DecisionStep{Step: i + 1}
		if n, ok := s["step"].(float64); ok {
			step.Step = int(n)
		}
		if step.Action, ok = s["action"].(string); !ok || step.Action == "" {
			step.Action, _ = s["tool"].(string)
		}
		if params, ok := s["params"].(map[string]any); ok && len(params) > 0 {
			step.Params = params
		} else if params, ok := s["parameters"].(map[string]any); ok {
			step.Params = params
		} else {
			step.Params = map[string]any{}
		}
		decision = append(decision, step)
	}
	thought.Decision = decision
	thought.Confidence = 0.9

	p.log.Info("LLM plan complete", "steps", len(decision))
	return thought
}

func (p *Planner) planWithRules(task string, tools []*ToolInfo) *Thought {
	steps := decomposeTask(task, tools)

	var b strings.Builder
	fmt.Fprintf(&b, "【执行计划】根据任务分析结果，制定以下执行方案：\n\n【步骤规划】共%d个执行步骤\n\n【工具选择理由】", len(steps))
	if len(steps) > 0 {
		for _, step := range steps {
			fmt.Fprintf(&b, "\n  选择 %s，参数：(%s)", step.Action, formatParams(step.Params))
		}
	} else {
		b.WriteString("\n  无需工具调用，直接生成回答")
	}

	thought := p.newThought(ThoughtPlanning, b.String())
	thought.Confidence = 0.9

	chain := []string{fmt.Sprintf("任务分解完成：共%d个执行步骤", len(steps))}
	if len(steps) > 0 {
		names := make([]string, len(steps))
		for i, step := range steps {
			names[i] = step.Action
		}
		chain = append(chain, "工具调用序列："+strings.Join(names, " → "))
	} else {
		chain = append(chain, "无需工具调用")
	}
	chain = append(chain, "准备按计划执行各步骤")
	thought.ReasoningChain = chain

	if len(steps) > 0 {
		thought.Decision = steps
	}

	p.log.Info("Rule plan complete", "steps", len(steps))
	return thought
}

// decomposeTask maps task keywords onto the available tools. Matching is
// cumulative: a request can yield a search step, a city lookup, and a
// route plan in one pass. Tools are matched by registration order.
func decomposeTask(task string, tools []*ToolInfo) []DecisionStep {
	var steps []DecisionStep
	taskLower := strings.ToLower(task)

	days := extractDays(task)
	city := extractCity(task)

	if containsAny(taskLower, recommendKeywords) {
		if tool := firstToolMatching(tools, "recommend", "search"); tool != nil {
			steps = append(steps, DecisionStep{
				Action: tool.Name,
				Params: map[string]any{
					"interests":  []any{},
					"budget_min": nil,
					"budget_max": nil,
					"season":     nil,
				},
			})
		}
	}

	if city != "" {
		if tool := firstToolMatching(tools, "city_info", "attraction"); tool != nil {
			steps = append(steps, DecisionStep{
				Action: tool.Name,
				Params: map[string]any{"city": city},
			})
		}
	}

	if containsAny(taskLower, routeIntentKeywords) || containsAny(taskLower, travelIntentKeywords) {
		if tool := firstToolMatching(tools, "route", "plan"); tool != nil {
			planCity := city
			if planCity == "" {
				planCity = "未知"
			}
			steps = append(steps, DecisionStep{
				Action: tool.Name,
				Params: map[string]any{"city": planCity, "days": days},
			})
		}
	}

	if len(steps) == 0 {
		if tool := firstToolMatching(tools, "llm_chat"); tool != nil {
			steps = append(steps, DecisionStep{
				Action: tool.Name,
				Params: map[string]any{"query": task},
			})
		}
	}

	for i := range steps {
		steps[i].Step = i + 1
	}
	return steps
}

// Reflect produces the reflection thought after an action completes. The
// engine replaces the content when the action failed.
func (p *Planner) Reflect(result map[string]any) *Thought {
	thought := p.newThought(ThoughtReflection, "反思行动结果")
	success, _ := result["success"].(bool)

	advice := "建议检查参数或尝试其他工具"
	if success {
		advice = "结果符合预期"
	}
	thought.ReasoningChain = []string{
		fmt.Sprintf("行动成功：%t", success),
		"改进建议：" + advice,
	}
	if success {
		thought.Confidence = 0.9
	} else {
		thought.Confidence = 0.6
	}
	return thought
}

// extractEntities pulls days, city, and budget from a task by rule.
func extractEntities(task string) Entities {
	entities := Entities{Days: extractDays(task)}
	entities.City = extractCity(task)

	if m := budgetPattern.FindStringSubmatch(task); m != nil {
		entities.Budget = atoiSafe(m[1])
	}
	return entities
}

func extractDays(task string) int {
	if m := daysPattern.FindStringSubmatch(task); m != nil {
		return atoiSafe(m[1])
	}
	return 3
}

// extractCity returns the first pattern capture that is not a question
// phrase, or empty when no pattern yields a usable candidate.
func extractCity(task string) string {
	for _, pattern := range cityPatterns {
		m := pattern.FindStringSubmatch(task)
		if m == nil {
			continue
		}
		city := strings.TrimSpace(m[1])
		if city != "" && !containsAny(city, cityExcludeWords) {
			return city
		}
	}
	return ""
}

func firstToolMatching(tools []*ToolInfo, substrings ...string) *ToolInfo {
	for _, tool := range tools {
		nameLower := strings.ToLower(tool.Name)
		for _, sub := range substrings {
			if strings.Contains(nameLower, sub) {
				return tool
			}
		}
	}
	return nil
}

// formatParams renders plan parameters as "k=v" pairs with sorted keys,
// values in their JSON form.
func formatParams(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, err := json.Marshal(params[k])
		if err != nil {
			v = []byte(fmt.Sprint(params[k]))
		}
		parts = append(parts, fmt.Sprintf("%s=%s", k, v))
	}
	return strings.Join(parts, ", ")
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// ExtractJSONFromMarkdown strips a Markdown code fence from model output,
// returning the fenced body when one is present and the raw text
// otherwise.
func ExtractJSONFromMarkdown(s string) string {
	if _, after, found := strings.Cut(s, "```json"); found {
		body, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(body)
	}
	if _, after, found := strings.Cut(s, "```"); found {
		body, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(s)
}
