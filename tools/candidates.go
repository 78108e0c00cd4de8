package tools

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/hireloop/concierge/domain"
)

// CandidateFinder is the slice of the store the fetch-candidates tool needs.
type CandidateFinder interface {
	SearchCandidates(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, error)
}

// FetchCandidatesHandler answers structured candidate searches against the
// relational store.
type FetchCandidatesHandler struct {
	finder    CandidateFinder
	validator *Validator
	topK      int
	logger    *zap.Logger
}

// NewFetchCandidatesHandler creates the structured-search tool handler.
func NewFetchCandidatesHandler(finder CandidateFinder, validator *Validator, topK int, logger *zap.Logger) *FetchCandidatesHandler {
	return &FetchCandidatesHandler{
		finder:    finder,
		validator: validator,
		topK:      topK,
		logger:    logger,
	}
}

// Kind implements Handler.
func (h *FetchCandidatesHandler) Kind() domain.ToolKind {
	return domain.ToolFetchCandidates
}

// Invoke validates the untrusted arguments, builds a bounded filter and runs
// it. The result list is returned as-is for serialization into the tool
// output.
func (h *FetchCandidatesHandler) Invoke(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := parseArguments(string(raw))
	if err != nil {
		return nil, err
	}

	validated := h.validator.Validate(args)
	filter := domain.CandidateFilter{
		FullTime: validated.FullTime,
		Budget:   validated.Budget,
		Skills:   validated.Skills,
		Limit:    h.topK,
	}

	h.logger.Debug("fetching candidates",
		zap.Any("full_time", filter.FullTime),
		zap.Any("budget", filter.Budget),
		zap.Strings("skills", filter.Skills))

	candidates, err := h.finder.SearchCandidates(ctx, filter)
	if err != nil {
		return nil, err
	}
	if candidates == nil {
		candidates = []domain.Candidate{}
	}
	return candidates, nil
}
