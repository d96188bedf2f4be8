package agentrpc

import (
	"fmt"

	"github.com/wayfarer-ai/wayfarer/pkg/agent"
	"github.com/wayfarer-ai/wayfarer/pkg/config"
	"github.com/wayfarer-ai/wayfarer/pkg/llm"
)

// NewRunnerFactory builds orchestrators from the loaded configuration.
// Each session gets its own orchestrator so conversation memory and
// tool state stay isolated.
func NewRunnerFactory(cfg *config.Config) RunnerFactory {
	return func(modelID string) (Runner, error) {
		if modelID == "" {
			modelID = cfg.DefaultModel
		}
		model, err := cfg.GetModel(modelID)
		if err != nil {
			return nil, fmt.Errorf("unknown model %q: %w", modelID, err)
		}
		if !model.Active() {
			return nil, fmt.Errorf("model %q has no usable API key", modelID)
		}

		client := llm.NewClient(llm.Config{
			BaseURL:     model.APIBase,
			APIKey:      model.APIKey,
			Model:       model.ModelName(),
			Temperature: model.Temperature,
			MaxTokens:   model.MaxTokens,
			Timeout:     model.Timeout.Std(),
			MaxRetries:  model.MaxRetries,
		})

		return agent.NewOrchestrator(client, agent.Options{
			Mode:             cfg.Agent.Mode,
			MaxSteps:         cfg.Agent.MaxSteps,
			ToolTimeout:      cfg.Agent.ToolTimeout.Std(),
			MaxWorkingMemory: cfg.Agent.MaxWorkingMemory,
		}), nil
	}
}
