package optimizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/amityadav/stagefinder/internal/strategy"
)

// BaseProvider implements the optimizer against OpenAI-compatible chat APIs.
type BaseProvider struct {
	config ProviderConfig
	client *http.Client
}

// NewBaseProvider creates a new base provider.
func NewBaseProvider(config ProviderConfig) *BaseProvider {
	return &BaseProvider{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *BaseProvider) Name() string {
	return p.config.Name
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// sendRequest handles HTTP requests to the provider.
func (p *BaseProvider) sendRequest(reqBody interface{}, operation string) (string, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", p.config.BaseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[%s.%s] Response status: %d", p.config.Name, operation, resp.StatusCode)

	if resp.StatusCode != 200 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// OptimizeEventSearch asks the model for a structured search suggestion.
// Any failure (transport, status, unparsable JSON) is returned as an error
// for the caller to recover from with the rule tables.
func (p *BaseProvider) OptimizeEventSearch(industry, topic string) (*strategy.Suggestion, error) {
	prompt := fmt.Sprintf(`You help find speaking opportunities (conferences, summits, meetups) for a professional.

Industry: %s
Topic: %s

Return ONLY a raw JSON object with this structure:
{
  "primary_keyword": "String - the single best search phrase",
  "alternate_keywords": ["String", "String"],
  "classification_id": "String - Ticketmaster segment id if obvious, else empty",
  "event_types": ["conference", "summit", "workshop", "meetup"],
  "audience_keywords": ["String - who attends these events"]
}
Provide 2-3 alternate_keywords. Do not include markdown formatting or any other text.`, industry, topic)

	reqBody := chatRequest{
		Model: p.config.TextModel,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	rawContent, err := p.sendRequest(reqBody, "Optimize")
	if err != nil {
		return nil, err
	}

	rawContent = cleanJSON(rawContent)

	var suggestion strategy.Suggestion
	if err := json.Unmarshal([]byte(rawContent), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}
	if strings.TrimSpace(suggestion.PrimaryKeyword) == "" {
		return nil, fmt.Errorf("suggestion missing primary_keyword")
	}

	log.Printf("[%s.Optimize] Parsed: primary=%q alternates=%d audiences=%d", p.config.Name, suggestion.PrimaryKeyword, len(suggestion.AlternateKeywords), len(suggestion.AudienceKeywords))
	return &suggestion, nil
}

// cleanJSON strips markdown code fences models like to add.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
