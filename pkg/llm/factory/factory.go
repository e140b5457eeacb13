package factory

import (
	"fmt"

	"ai-workflow-be/pkg/llm"
	"ai-workflow-be/pkg/llm/gemini"
	"ai-workflow-be/pkg/llm/mock"
	"ai-workflow-be/pkg/llm/ollama"
)

// Settings selects and configures the text-generation backend.
type Settings struct {
	Provider      string // "gemini", "ollama" or "mock"
	Model         string
	OllamaBaseURL string
	GeminiAPIKey  string
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "gemini", "":
		if s.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider requires GOOGLE_GEMINI_API_KEY")
		}
		return gemini.NewGeminiProvider(s.GeminiAPIKey, s.Model), nil
	case "ollama":
		baseURL := s.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	case "mock":
		return mock.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
