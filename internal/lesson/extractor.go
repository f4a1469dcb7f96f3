package lesson

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Extractor supplies lesson structure for a topic prompt.
type Extractor interface {
	Extract(ctx context.Context, prompt string) (*Lesson, error)
}

const systemPrompt = `You are an educational content generator. Extract structured lesson information from the user's prompt.

Return ONLY valid JSON (no markdown, no code blocks) with this exact structure:
{
  "topic": "Main topic name",
  "subtopic": "Specific subtopic",
  "intent": "educational|tutorial|demonstration",
  "audience": "beginner|intermediate|advanced",
  "suggested_steps": [
    {
      "title": "Step title",
      "description": "Detailed step description explaining the concept clearly",
      "key_points": ["Point 1", "Point 2", "Point 3"],
      "formula": "Optional formula if applicable",
      "duration_seconds": 30
    }
  ],
  "primitives": [
    {
      "primitive_id": "resistor|battery|stethoscope|graph",
      "params": {}
    }
  ],
  "learning_objectives": ["Objective 1", "Objective 2"]
}

Generate 3-5 detailed steps. Choose primitives from: resistor, battery, stethoscope, graph. Add params where useful (e.g. {"value": "10k"} for resistor, {"voltage": "9V"} for battery).`

// LLMExtractor asks an OpenAI-compatible chat model for lesson structure.
type LLMExtractor struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewLLMExtractor(baseURL, apiKey, model string, logger *zap.Logger) *LLMExtractor {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMExtractor{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger.Named("extractor"),
	}
}

func (e *LLMExtractor) Extract(ctx context.Context, prompt string) (*Lesson, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("lesson: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("lesson: model returned no choices")
	}

	lsn, err := ParseLessonJSON(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	e.logger.Info("lesson extracted",
		zap.String("topic", lsn.Topic),
		zap.Int("steps", len(lsn.Steps)),
		zap.Int("primitives", len(lsn.Primitives)),
	)
	return lsn, nil
}

// ParseLessonJSON pulls the first JSON object out of a model reply, which
// may be wrapped in prose or a markdown fence despite the instructions.
func ParseLessonJSON(text string) (*Lesson, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("lesson: no JSON object in reply")
	}

	var lsn Lesson
	if err := json.Unmarshal([]byte(text[start:end+1]), &lsn); err != nil {
		return nil, fmt.Errorf("lesson: parse reply: %w", err)
	}
	if lsn.Topic == "" && len(lsn.Steps) == 0 {
		return nil, fmt.Errorf("lesson: reply carried no usable structure")
	}
	return &lsn, nil
}
