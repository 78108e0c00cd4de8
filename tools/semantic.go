package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hireloop/concierge/domain"
)

// SemanticSearcher is the slice of the semantic client this tool needs.
type SemanticSearcher interface {
	Search(ctx context.Context, query string, topK int) ([]json.RawMessage, error)
}

// SemanticSearchHandler forwards free-text queries to the external ranking
// service.
type SemanticSearchHandler struct {
	searcher SemanticSearcher
	topK     int
	logger   *zap.Logger
}

// NewSemanticSearchHandler creates the semantic-search tool handler.
func NewSemanticSearchHandler(searcher SemanticSearcher, topK int, logger *zap.Logger) *SemanticSearchHandler {
	return &SemanticSearchHandler{
		searcher: searcher,
		topK:     topK,
		logger:   logger,
	}
}

// Kind implements Handler.
func (h *SemanticSearchHandler) Kind() domain.ToolKind {
	return domain.ToolSemanticSearch
}

// Invoke extracts the free-text query and returns the service's ranked
// records verbatim.
func (h *SemanticSearchHandler) Invoke(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := parseArguments(string(raw))
	if err != nil {
		return nil, err
	}

	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("semantic query is empty")
	}

	h.logger.Debug("semantic search", zap.String("query", query), zap.Int("top_k", h.topK))

	results, err := h.searcher.Search(ctx, query, h.topK)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []json.RawMessage{}
	}
	return results, nil
}
