// Package inline answers Telegram inline queries with pages of indexed files.
//
// One query flows through the access gate, the query parser, a single search call,
// the renderer, and the answer assembler, and is answered exactly once unless the
// search itself fails.
package inline

import (
	"context"
	"fmt"

	"github.com/hyperjump/filebot/internal/models"
	"github.com/hyperjump/filebot/pkg/utils"
	"go.uber.org/zap"
)

// Answerer delivers an answer to Telegram.
type Answerer interface {
	AnswerInlineQuery(ctx context.Context, queryID string, answer *models.Answer) error
}

// Handler answers inline queries. It holds no per-query state and is safe for concurrent use.
type Handler struct {
	gate      *AccessGate
	searcher  Searcher
	renderer  *Renderer
	answerer  Answerer
	pageSize  int
	cacheTime int
	logger    *zap.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithAccessGate requires a subscription check before searching. A nil gate disables it.
func WithAccessGate(g *AccessGate) HandlerOption {
	return func(h *Handler) { h.gate = g }
}

// WithPageSize sets the number of results per answer.
func WithPageSize(n int) HandlerOption {
	return func(h *Handler) { h.pageSize = n }
}

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) HandlerOption {
	return func(h *Handler) { h.logger = l }
}

// NewHandler creates a handler. cacheTime is the process-wide cache policy in seconds,
// derived once from configuration.
func NewHandler(searcher Searcher, renderer *Renderer, answerer Answerer, cacheTime int, opts ...HandlerOption) *Handler {
	h := &Handler{
		searcher:  searcher,
		renderer:  renderer,
		answerer:  answerer,
		pageSize:  DefaultPageSize,
		cacheTime: cacheTime,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = utils.OrNop(h.logger)
	return h
}

// Handle answers q. Search errors are returned without answering; answer delivery
// errors are returned too.
func (h *Handler) Handle(ctx context.Context, q models.InlineQuery) error {
	if !h.gate.IsSubscribed(ctx, q.UserID) {
		inlineQueries.WithLabelValues("denied").Inc()
		h.logger.Debug("inline query denied", zap.Int64("user_id", q.UserID))
		return h.answer(ctx, q.ID, Denied())
	}

	parsed := ParseQuery(q.Query)
	page, err := FetchPage(ctx, h.searcher, parsed, h.pageSize, q.Offset)
	if err != nil {
		return err
	}

	kb := h.renderer.Keyboard(parsed.Phrase)
	results := make([]*models.InlineResult, 0, len(page.Files))
	for _, f := range page.Files {
		results = append(results, h.renderer.Render(f, kb))
	}

	outcome := "results"
	if len(results) == 0 {
		outcome = "empty"
	}
	inlineQueries.WithLabelValues(outcome).Inc()
	h.logger.Debug("inline query",
		zap.String("phrase", parsed.Phrase),
		zap.String("file_type", parsed.FileType),
		zap.String("offset", q.Offset),
		zap.Int("results", len(results)),
		zap.String("next_offset", page.NextOffset),
	)
	return h.answer(ctx, q.ID, Assemble(results, parsed.Phrase, page.NextOffset, h.cacheTime))
}

func (h *Handler) answer(ctx context.Context, queryID string, a *models.Answer) error {
	if err := h.answerer.AnswerInlineQuery(ctx, queryID, a); err != nil {
		return fmt.Errorf("answer inline query %s: %w", queryID, err)
	}
	return nil
}
