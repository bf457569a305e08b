package optimizer

import "fmt"

// Model defaults per provider; fast, cheap models suit a single structured
// completion per search.
const (
	groqModel     = "llama-3.3-70b-versatile"
	cerebrasModel = "llama3.1-8b"
)

// NewLLMProvider creates a provider instance based on the provider name.
// Supported providers: "groq", "cerebras"
func NewLLMProvider(providerName, apiKey string) *BaseProvider {
	switch providerName {
	case "groq":
		return NewBaseProvider(ProviderConfig{
			Name:      "Groq",
			BaseURL:   "https://api.groq.com/openai/v1/chat/completions",
			APIKey:    apiKey,
			TextModel: groqModel,
		})
	case "cerebras":
		return NewBaseProvider(ProviderConfig{
			Name:      "Cerebras",
			BaseURL:   "https://api.cerebras.ai/v1/chat/completions",
			APIKey:    apiKey,
			TextModel: cerebrasModel,
		})
	default:
		// Fail fast: don't silently default to an unknown provider
		panic(fmt.Sprintf("unsupported optimizer provider: %s (supported: groq, cerebras)", providerName))
	}
}
