package service

import (
	"cowrite-test/internal/config"
)

type ServiceContext struct {
	AIClient   *OpenAIClient
	RunManager *RunManager
}

func NewServiceContext(cfg *config.Config) *ServiceContext {
	aiClient := NewOpenAIClient(
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		cfg.OpenAI.TimeoutSeconds,
	)

	return &ServiceContext{
		AIClient:   aiClient,
		RunManager: NewRunManager(cfg.Experiment),
	}
}
