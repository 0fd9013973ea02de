package chat

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/zhouzirui/medchat/internal/analysis/relevance"
	"github.com/zhouzirui/medchat/internal/model/chat"
	"github.com/zhouzirui/medchat/internal/model/medical"
	"github.com/zhouzirui/medchat/internal/service/ai"
)

// ErrQueryRequired is returned for blank queries.
var ErrQueryRequired = errors.New("query is required")

// Service answers chat requests: retrieve, then generate.
type Service struct {
	store     medical.Store
	generator ai.Generator
	logger    *zap.Logger
	topK      int
}

// NewService wires the knowledge base with an optional generator. A nil
// generator means every answer uses the template fallback.
func NewService(store medical.Store, generator ai.Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		generator: generator,
		logger:    logger.Named("chat"),
		topK:      relevance.DefaultTopK,
	}
}

// GeneratorName reports the active generator, or "none".
func (s *Service) GeneratorName() string {
	if s.generator == nil {
		return "none"
	}
	return s.generator.Name()
}

// Reply answers one request. Generator failures degrade to the template
// answer rather than an error.
func (s *Service) Reply(ctx context.Context, req chat.Request) (chat.Response, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return chat.Response{}, ErrQueryRequired
	}

	matches := relevance.Rank(query, s.store.List(), s.topK)
	docs := make([]medical.Document, 0, len(matches))
	sources := make([]chat.Source, 0, len(matches))
	for _, m := range matches {
		docs = append(docs, m.Document)
		sources = append(sources, m.Document.Source())
	}

	s.logger.Info("retrieved context",
		zap.String("query", query),
		zap.Int("documents", len(docs)),
		zap.Int("history", len(req.ConversationHistory)),
	)

	return chat.Response{
		Response: s.generate(ctx, query, req.ConversationHistory, docs),
		Sources:  sources,
	}, nil
}

func (s *Service) generate(ctx context.Context, query string, history []chat.Turn, docs []medical.Document) string {
	if len(docs) == 0 {
		return ai.NoContextResponse
	}
	if s.generator == nil {
		return ai.FallbackResponse(query, docs)
	}

	text, err := s.generator.Generate(ctx, query, history, docs)
	if err != nil {
		s.logger.Warn("generation failed, using fallback",
			zap.String("generator", s.generator.Name()),
			zap.Error(err),
		)
		return ai.FallbackResponse(query, docs)
	}
	if strings.TrimSpace(text) == "" {
		return ai.FallbackResponse(query, docs)
	}
	return text
}
