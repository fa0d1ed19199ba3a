package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// AIService extracts task drafts from free text with an OpenAI compatible
// chat model.
type AIService struct {
	client *openai.Client
	model  string
}

// TaskDraft is a suggested task. Drafts are never persisted.
type TaskDraft struct {
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// NewAIService creates a client for apiKey. An empty baseURL selects the
// public OpenAI endpoint.
func NewAIService(apiKey, baseURL string) *AIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &AIService{
		client: openai.NewClientWithConfig(config),
		model:  openai.GPT4o,
	}
}

// DraftTasksFromText asks the model for the tasks described in text.
func (s *AIService) DraftTasksFromText(ctx context.Context, projectName, text string) ([]TaskDraft, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := time.Now().UTC().Format(time.RFC3339)
	prompt := fmt.Sprintf(`You extract actionable tasks for the project %q from the text below.

Current time: %s

Text:
%s

Reply with a JSON array only, using this shape:
[
  {
    "description": "what has to be done, one sentence",
    "due_date": "deadline in RFC 3339 (e.g. 2030-10-28T23:59:59Z), or null when the text gives none"
  }
]

Rules:
- Reply with [] when the text contains no task
- Convert relative deadlines ("tomorrow", "next week") into absolute dates
- Do not add any explanation outside the JSON`, projectName, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var drafts []TaskDraft
	if err := json.Unmarshal([]byte(content), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return drafts, nil
}

// stripCodeFence removes a markdown code fence some models wrap JSON in.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
