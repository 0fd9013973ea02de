package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/medchat/internal/config"
	"github.com/zhouzirui/medchat/internal/model/chat"
	"github.com/zhouzirui/medchat/internal/model/medical"
)

// Generator produces an answer for a query grounded on retrieved documents.
type Generator interface {
	Name() string
	Generate(ctx context.Context, query string, history []chat.Turn, docs []medical.Document) (string, error)
}

// New builds the generator selected by cfg. It returns nil, nil when no
// provider is configured.
func New(ctx context.Context, cfg config.AIConfig) (Generator, error) {
	switch cfg.ActiveProvider() {
	case config.ProviderGemini:
		gen, err := NewGeminiGenerator(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case config.ProviderArk:
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		gen, err := NewChainGenerator(ctx, chatModel, cfg.HistoryLimit)
		if err != nil {
			return nil, err
		}
		return gen, nil
	default:
		return nil, nil
	}
}

// ChainGenerator runs an eino prompt → chat model chain.
type ChainGenerator struct {
	chain        compose.Runnable[map[string]any, *schema.Message]
	historyLimit int
}

// NewChainGenerator compiles the chain around chatModel.
func NewChainGenerator(ctx context.Context, chatModel model.BaseChatModel, historyLimit int) (*ChainGenerator, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ChainGenerator{chain: runnable, historyLimit: historyLimit}, nil
}

// Name implements Generator.
func (g *ChainGenerator) Name() string {
	return "ark"
}

// Generate implements Generator.
func (g *ChainGenerator) Generate(ctx context.Context, query string, history []chat.Turn, docs []medical.Document) (string, error) {
	input := map[string]any{
		"system":  SystemPrompt(),
		"history": buildHistoryMessages(history, g.historyLimit),
		"query":   UserPrompt(query, docs),
	}

	response, err := g.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	return response.Content, nil
}

func buildHistoryMessages(turns []chat.Turn, limit int) []*schema.Message {
	turns = recentTurns(turns, limit)
	if len(turns) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(turn.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(turn.Content, nil))
		}
	}
	return history
}

// recentTurns keeps the last limit turns; limit <= 0 keeps everything.
func recentTurns(turns []chat.Turn, limit int) []chat.Turn {
	if limit > 0 && len(turns) > limit {
		return turns[len(turns)-limit:]
	}
	return turns
}
