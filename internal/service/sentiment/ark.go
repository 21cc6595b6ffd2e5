package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// ChatModelFactory creates the chat model backing the LLM classifier.
type ChatModelFactory func(ctx context.Context) (model.ChatModel, error)

// ArkClassifier asks a chat model for a POSITIVE/NEGATIVE verdict through an
// eino prompt chain and parses the JSON it returns.
type ArkClassifier struct {
	factory ChatModelFactory

	mu       sync.RWMutex
	runnable compose.Runnable[map[string]any, *schema.Message]
	initErr  error
	started  bool
}

// NewArkClassifier returns a classifier that compiles its chain on Warmup.
func NewArkClassifier(factory ChatModelFactory) *ArkClassifier {
	return &ArkClassifier{factory: factory}
}

// Warmup creates the chat model and compiles the chain. Only the first call
// does any work; later calls return the first outcome.
func (c *ArkClassifier) Warmup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return c.initErr
	}
	c.started = true

	runnable, err := c.compile(ctx)
	if err != nil {
		c.initErr = fmt.Errorf("ark warmup: %v: %w", err, ErrUnavailable)
		return c.initErr
	}
	c.runnable = runnable
	return nil
}

func (c *ArkClassifier) compile(ctx context.Context) (compose.Runnable[map[string]any, *schema.Message], error) {
	chatModel, err := c.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(polaritySystemPrompt),
		schema.UserMessage(polarityUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile polarity chain: %w", err)
	}
	return runnable, nil
}

// Ready reports whether Warmup succeeded.
func (c *ArkClassifier) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.runnable != nil
}

// Classify runs the chain once for text.
func (c *ArkClassifier) Classify(ctx context.Context, text string) (Polarity, error) {
	c.mu.RLock()
	runnable := c.runnable
	c.mu.RUnlock()
	if runnable == nil {
		return Polarity{}, fmt.Errorf("ark: %w", ErrUnavailable)
	}

	msg, err := runnable.Invoke(ctx, map[string]any{"text": strings.TrimSpace(text)})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Polarity{}, fmt.Errorf("ark invoke: %v: %w", err, ErrUnavailable)
		}
		return Polarity{}, fmt.Errorf("ark invoke: %v: %w", err, ErrClassification)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return Polarity{}, fmt.Errorf("ark: empty response: %w", ErrClassification)
	}

	polarity, err := parsePolarityOutput(msg.Content)
	if err != nil {
		slog.Warn("polarity output rejected", "component", "sentiment", "error", err)
		return Polarity{}, fmt.Errorf("ark: %v: %w", err, ErrClassification)
	}
	return polarity, nil
}

type polarityPayload struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// parsePolarityOutput extracts the first JSON object from the model reply.
func parsePolarityOutput(content string) (Polarity, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return Polarity{}, fmt.Errorf("missing json object")
	}

	var payload polarityPayload
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &payload); err != nil {
		return Polarity{}, err
	}

	label, ok := ParseLabel(payload.Label)
	if !ok {
		return Polarity{}, fmt.Errorf("unknown label %q", payload.Label)
	}
	return Polarity{Label: label, Confidence: clampConfidence(payload.Confidence)}, nil
}

const polaritySystemPrompt = "You are a sentence sentiment classifier. Decide whether the text is POSITIVE or NEGATIVE and how confident you are.\nReply with a single JSON object and nothing else. Fields: label (POSITIVE or NEGATIVE) and confidence (a number between 0 and 1)."

const polarityUserPrompt = "Text:\n{text}"
