package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DefaultMaxSteps caps the think-act loop when the config does not.
const DefaultMaxSteps = 10

// terminalTools end the loop once they succeed: each produces a final
// answer rather than intermediate data.
var terminalTools = map[string]bool{
	"llm_chat":                     true,
	"generate_city_recommendation": true,
	"generate_route_plan":          true,
}

// Engine drives the think-act loop: observe the previous outcome, think,
// stream the thought, decide whether to stop, act through the registry,
// evaluate, and record the step. It holds no per-run state; a single
// engine serves one orchestrator and runs one task at a time.
type Engine struct {
	registry *Registry
	planner  *Planner
	maxSteps int
	log      *slog.Logger

	thoughtCallbacks []ThoughtCallback
	actionCallbacks  []ActionCallback
	thinkStream      ThinkStreamCallback
}

// NewEngine creates an engine over the given registry and planner.
// A non-positive maxSteps falls back to DefaultMaxSteps.
func NewEngine(registry *Registry, planner *Planner, maxSteps int) *Engine {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Engine{
		registry: registry,
		planner:  planner,
		maxSteps: maxSteps,
		log:      slog.With("component", "react_engine"),
	}
}

// Registry exposes the engine's tool registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// AddThoughtCallback registers an observer for every produced thought.
func (e *Engine) AddThoughtCallback(cb ThoughtCallback) {
	e.thoughtCallbacks = append(e.thoughtCallbacks, cb)
}

// AddActionCallback registers an observer for action transitions.
func (e *Engine) AddActionCallback(cb ActionCallback) {
	e.actionCallbacks = append(e.actionCallbacks, cb)
}

// SetThinkStream installs the live thinking-text sink. Pass nil to
// disable streaming.
func (e *Engine) SetThinkStream(cb ThinkStreamCallback) {
	e.thinkStream = cb
}

// runState is the per-run mutable state of one Run invocation.
type runState struct {
	task    string
	context map[string]any
	step    int
	actions []*Action
	history []StepRecord
}

func (s *runState) lastAction() *Action {
	if len(s.actions) == 0 {
		return nil
	}
	return s.actions[len(s.actions)-1]
}

// Run executes the loop for one task. runContext carries ambient data
// such as memory summaries; it is passed through to the planner. Run
// never returns an error: failures land in RunResult.Error.
func (e *Engine) Run(ctx context.Context, task string, runContext map[string]any) *RunResult {
	st := &runState{task: task, context: runContext}
	if st.context == nil {
		st.context = map[string]any{}
	}

	e.log.Info("Task started", "task", truncate(task, 60))

	for st.step < e.maxSteps {
		if err := ctx.Err(); err != nil {
			return e.buildAborted(st, err)
		}

		stepStart := time.Now()

		observation := e.observe(st)
		thought := e.think(ctx, st, observation)

		if e.thinkStream != nil {
			elapsed := time.Since(stepStart).Seconds()
			e.thinkStream(fmt.Sprintf("步骤%d耗时: %.1f秒\n\n%s", st.step+1, elapsed, thought.Content), elapsed)
		}

		if e.shouldStop(st, thought) {
			break
		}

		action := e.act(ctx, st, thought)
		evaluation := evaluate(action)

		if action.Result != nil {
			st.context["last_result"] = action.Result
		}
		st.step++
		e.record(st, thought, action, evaluation)
	}

	return e.buildResult(st)
}

// observe snapshots the previous action's outcome for this step.
func (e *Engine) observe(st *runState) *Observation {
	return &Observation{
		ID:         fmt.Sprintf("obs_%d", st.step),
		Source:     "environment",
		Step:       st.step,
		LastAction: st.lastAction(),
	}
}

// think produces the thought for the current step. The first step merges
// task analysis with the execution plan; later steps react to the
// previous action's outcome.
func (e *Engine) think(ctx context.Context, st *runState, _ *Observation) *Thought {
	var thought *Thought

	switch last := st.lastAction(); {
	case st.step == 0:
		thought = e.planner.AnalyzeTask(ctx, st.task, st.context)
		plan := e.planner.PlanActions(ctx, st.task, e.registry.List())
		thought.Decision = plan.Decision
		thought.ReasoningChain = append(thought.ReasoningChain, plan.ReasoningChain...)

	case last != nil && last.Status == ActionFailed:
		thought = e.planner.Reflect(last.Result)
		thought.Content = fmt.Sprintf(
			"【执行失败】步骤 %d\n\n【失败原因】%s\n【当前状态】需要调整策略或检查参数\n【后续行动】尝试其他工具或重新执行",
			st.step, last.Error)

	case last != nil && last.Status == ActionSuccess:
		thought = e.planner.newThought(ThoughtInference, fmt.Sprintf(
			"【执行成功】步骤 %d 完成\n\n【工具】%s\n【结果】%s",
			st.step, last.ToolName, summarizeResult(last.Result)))
		thought.ReasoningChain = []string{
			fmt.Sprintf("步骤 %d 执行状态：成功", st.step),
			fmt.Sprintf("工具 %s 返回结果", last.ToolName),
			"评估是否需要继续执行或生成最终回答",
		}
		thought.Confidence = 0.95

	default:
		thought = e.planner.newThought(ThoughtInference, fmt.Sprintf(
			"【继续执行】步骤 %d\n\n根据执行计划，继续执行下一步操作", st.step+1))
		thought.ReasoningChain = []string{fmt.Sprintf("执行步骤 %d", st.step+1)}
	}

	for _, cb := range e.thoughtCallbacks {
		cb(thought)
	}
	return thought
}

// summarizeResult turns a tool result into a one-line digest keyed on
// the result shape.
func summarizeResult(result map[string]any) string {
	if result == nil {
		return "工具执行成功"
	}

	success, _ := result["success"].(bool)

	if cities, ok := result["cities"].([]any); ok && success {
		names := make([]string, 0, 5)
		for _, entry := range cities {
			if len(names) == 5 {
				break
			}
			if m, ok := entry.(map[string]any); ok {
				if name, ok := m["city"].(string); ok {
					names = append(names, name)
					continue
				}
			}
			names = append(names, fmt.Sprint(entry))
		}
		return fmt.Sprintf("获取到 %d 个推荐城市：%s", len(cities), strings.Join(names, ", "))
	}

	if plan, ok := result["route_plan"].([]any); ok && success {
		return fmt.Sprintf("路线规划完成，共 %d 天行程", len(plan))
	}

	if response, ok := result["response"].(string); ok {
		return fmt.Sprintf("LLM生成回答：%s...", truncate(response, 80))
	}

	if _, ok := result["info"]; ok {
		return "城市详细信息获取成功"
	}

	return "工具执行成功，结果类型：map"
}

// shouldStop decides whether the loop ends before acting on this
// thought. Stops: a terminal tool has succeeded, a confident decision
// follows a successful action, or the step cap is reached.
func (e *Engine) shouldStop(st *runState, thought *Thought) bool {
	last := st.lastAction()

	if thought.Type == ThoughtInference && last != nil &&
		terminalTools[last.ToolName] && last.Succeeded() {
		return true
	}

	if thought.Confidence > 0.9 && len(thought.Decision) > 0 &&
		last != nil && last.Succeeded() {
		return true
	}

	return st.step >= e.maxSteps-1
}

// act executes the decision entry matching the current step, or records
// a successful no-op when the thought carries none.
func (e *Engine) act(ctx context.Context, st *runState, thought *Thought) *Action {
	action := e.extractAction(st, thought)
	if action == nil {
		action = &Action{
			ID:       fmt.Sprintf("action_%d", len(st.actions)),
			ToolName: "none",
			Params:   map[string]any{},
		}
		action.MarkSuccess(map[string]any{"message": "无操作需要执行"})
		st.actions = append(st.actions, action)
		return action
	}

	action.MarkRunning()
	st.actions = append(st.actions, action)
	e.notifyAction(action)

	result, err := e.registry.Execute(ctx, action.ToolName, action.Params)
	if err != nil {
		action.MarkFailed(err.Error())
		e.log.Error("Tool execution failed", "tool", action.ToolName, "error", err)
	} else {
		action.MarkSuccess(result)
		e.log.Info("Tool executed", "tool", action.ToolName, "duration_ms", action.Duration)
	}
	e.notifyAction(action)

	return action
}

// paramAliases remaps plan parameter names onto the tool schemas. LLM
// plans routinely say city/destination where the tool wants cities.
var paramAliases = map[string]string{
	"city":        "cities",
	"destination": "cities",
	"location":    "cities",
}

// extractAction picks the decision entry at the current step index and
// normalizes its parameters. Returns nil when the thought has no
// decision for this step.
func (e *Engine) extractAction(st *runState, thought *Thought) *Action {
	if st.step >= len(thought.Decision) {
		return nil
	}
	decision := thought.Decision[st.step]
	if decision.Action == "" {
		return nil
	}

	params := make(map[string]any, len(decision.Params))
	for k, v := range decision.Params {
		key := k
		if alias, ok := paramAliases[k]; ok {
			key = alias
		}
		if key == "cities" {
			if s, ok := v.(string); ok {
				v = []any{s}
			}
		}
		params[key] = v
	}

	return &Action{
		ID:       fmt.Sprintf("action_%d", len(st.actions)),
		ToolName: decision.Action,
		Params:   params,
	}
}

func (e *Engine) notifyAction(action *Action) {
	for _, cb := range e.actionCallbacks {
		cb(action)
	}
}

func evaluate(action *Action) Evaluation {
	return Evaluation{
		Success:   action.Succeeded(),
		Duration:  action.Duration,
		HasResult: action.Result != nil,
	}
}

// record appends the completed step to history. Step numbering follows
// the post-increment counter, so records are 1-based.
func (e *Engine) record(st *runState, thought *Thought, action *Action, evaluation Evaluation) {
	decision := ""
	if len(thought.Decision) > 0 {
		if raw, err := json.Marshal(thought.Decision); err == nil {
			decision = string(raw)
		}
	}

	st.history = append(st.history, StepRecord{
		Step: st.step,
		Thought: ThoughtRecord{
			ID:         thought.ID,
			Type:       thought.Type,
			Content:    thought.Content,
			Confidence: thought.Confidence,
			Decision:   decision,
		},
		Action: ActionRecord{
			ID:       action.ID,
			ToolName: action.ToolName,
			Status:   action.Status,
			Duration: action.Duration,
			Result:   action.Result,
			Error:    action.Error,
		},
		Evaluation: evaluation,
		Timestamp:  time.Now().Format(time.RFC3339),
	})
}

func (e *Engine) buildResult(st *runState) *RunResult {
	successful := 0
	var total int64
	for _, step := range st.history {
		if step.Evaluation.Success {
			successful++
		}
		total += step.Action.Duration
	}

	e.log.Info("Task finished", "steps", len(st.history), "successful", successful)

	return &RunResult{
		Success:         true,
		Task:            st.task,
		StepsCompleted:  len(st.history),
		SuccessfulSteps: successful,
		TotalDuration:   total,
		History:         st.history,
	}
}

func (e *Engine) buildAborted(st *runState, err error) *RunResult {
	e.log.Warn("Task aborted", "error", err, "steps", len(st.history))
	return &RunResult{
		Success:        false,
		Task:           st.task,
		StepsCompleted: len(st.history),
		History:        st.history,
		Error:          err.Error(),
	}
}
