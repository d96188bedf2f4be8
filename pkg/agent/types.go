package agent

import (
	"context"
	"time"

	"github.com/wayfarer-ai/wayfarer/pkg/llm"
)

// ThoughtType classifies a reasoning step. The names surface verbatim in
// step records and the gRPC response.
type ThoughtType string

const (
	ThoughtAnalysis   ThoughtType = "ANALYSIS"
	ThoughtPlanning   ThoughtType = "PLANNING"
	ThoughtDecision   ThoughtType = "DECISION"
	ThoughtReflection ThoughtType = "REFLECTION"
	ThoughtInference  ThoughtType = "INFERENCE"
)

// ActionStatus tracks a tool invocation through its lifecycle.
type ActionStatus string

const (
	ActionPending ActionStatus = "PENDING"
	ActionRunning ActionStatus = "RUNNING"
	ActionSuccess ActionStatus = "SUCCESS"
	ActionFailed  ActionStatus = "FAILED"
)

// DecisionStep is one planned tool invocation. A thought's decision holds
// the full sequence; the engine executes the entry whose position matches
// the loop step.
type DecisionStep struct {
	Step   int            `json:"step"`
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

// Thought is a single reasoning step produced by the planner.
type Thought struct {
	ID             string         `json:"id"`
	Type           ThoughtType    `json:"type"`
	Content        string         `json:"content"`
	ReasoningChain []string       `json:"reasoning_chain,omitempty"`
	Confidence     float64        `json:"confidence"`
	Decision       []DecisionStep `json:"decision,omitempty"`
}

// Action is one tool invocation with its lifecycle state and outcome.
type Action struct {
	ID       string         `json:"id"`
	ToolName string         `json:"tool_name"`
	Params   map[string]any `json:"params,omitempty"`
	Status   ActionStatus   `json:"status"`
	Result   map[string]any `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`

	// Duration is wall time from Running to a terminal status, in
	// milliseconds.
	Duration int64 `json:"duration"`

	startedAt time.Time
}

// MarkRunning transitions the action to Running and starts the clock.
func (a *Action) MarkRunning() {
	a.Status = ActionRunning
	a.startedAt = time.Now()
}

// MarkSuccess records the result and stops the clock.
func (a *Action) MarkSuccess(result map[string]any) {
	a.Status = ActionSuccess
	a.Result = result
	a.stopClock()
}

// MarkFailed records the failure and stops the clock.
func (a *Action) MarkFailed(errMsg string) {
	a.Status = ActionFailed
	a.Error = errMsg
	a.stopClock()
}

func (a *Action) stopClock() {
	if !a.startedAt.IsZero() {
		a.Duration = time.Since(a.startedAt).Milliseconds()
	}
}

// Succeeded reports whether the action reached Success.
func (a *Action) Succeeded() bool {
	return a.Status == ActionSuccess
}

// Observation snapshots what the engine perceived at the start of a loop
// step: the outcome of the previous action, if any.
type Observation struct {
	ID         string  `json:"id"`
	Source     string  `json:"source"`
	Step       int     `json:"step"`
	LastAction *Action `json:"last_action,omitempty"`
}

// Evaluation scores one completed step.
type Evaluation struct {
	Success   bool  `json:"success"`
	Duration  int64 `json:"duration"`
	HasResult bool  `json:"has_result"`
}

// ThoughtRecord is the flattened thought stored in step history.
type ThoughtRecord struct {
	ID         string      `json:"id"`
	Type       ThoughtType `json:"type"`
	Content    string      `json:"content"`
	Confidence float64     `json:"confidence"`
	Decision   string      `json:"decision,omitempty"`
}

// ActionRecord is the flattened action stored in step history.
type ActionRecord struct {
	ID       string         `json:"id"`
	ToolName string         `json:"tool_name"`
	Status   ActionStatus   `json:"status"`
	Duration int64          `json:"duration"`
	Result   map[string]any `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// StepRecord is one completed think-act-evaluate cycle. Step numbering is
// 1-based.
type StepRecord struct {
	Step       int           `json:"step"`
	Thought    ThoughtRecord `json:"thought"`
	Action     ActionRecord  `json:"action"`
	Evaluation Evaluation    `json:"evaluation"`
	Timestamp  string        `json:"timestamp"`
}

// RunResult is the outcome of one engine run.
type RunResult struct {
	Success         bool   `json:"success"`
	Task            string `json:"task"`
	StepsCompleted  int    `json:"steps_completed"`
	SuccessfulSteps int    `json:"successful_steps"`

	// TotalDuration sums the action durations across steps, in
	// milliseconds.
	TotalDuration int64 `json:"total_duration"`

	History []StepRecord `json:"history"`
	Error   string       `json:"error,omitempty"`
}

// LLMClient is the language model surface the agent depends on. *llm.Client
// satisfies it; tests substitute scripted fakes.
type LLMClient interface {
	Chat(ctx context.Context, messages []llm.Message, opts ...llm.RequestOption) (string, error)
	ChatStream(ctx context.Context, messages []llm.Message, opts ...llm.RequestOption) <-chan string
	Model() string
}

// ThoughtCallback observes each thought as it is produced.
type ThoughtCallback func(t *Thought)

// ActionCallback observes action lifecycle transitions: once at Running
// and again at the terminal status.
type ActionCallback func(a *Action)

// ThinkStreamCallback receives the formatted per-step thinking text for
// live streaming to clients, along with the seconds spent producing it.
type ThinkStreamCallback func(text string, elapsed float64)
