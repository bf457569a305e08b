package optimizer

// ProviderConfig holds configuration for an OpenAI-compatible provider.
type ProviderConfig struct {
	Name      string
	BaseURL   string
	APIKey    string
	TextModel string
}
