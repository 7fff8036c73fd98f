package telegram

import (
	"context"
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hyperjump/filebot/internal/models"
	"github.com/hyperjump/filebot/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var updatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "filebot_telegram_updates_total",
	Help: "Telegram updates received, by kind and outcome.",
}, []string{"kind", "outcome"})

// InlineHandler answers one inline query.
type InlineHandler interface {
	Handle(ctx context.Context, q models.InlineQuery) error
}

// FileIndexer indexes a file posted to a channel.
type FileIndexer interface {
	IndexFile(ctx context.Context, in *models.FileInput) (*models.FileRecord, error)
}

// Dispatcher routes updates: inline queries to the inline handler, channel posts to the indexer.
type Dispatcher struct {
	inline   InlineHandler
	indexer  FileIndexer
	allowed  map[int64]struct{} // empty allows everyone
	channels map[int64]struct{}
	logger   *zap.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithAllowedUsers restricts inline queries to the given user IDs. Queries from
// anyone else are dropped without an answer.
func WithAllowedUsers(ids []int64) DispatcherOption {
	return func(d *Dispatcher) { d.allowed = idSet(ids) }
}

// WithIndexChannels indexes media posted to the given channels through idx.
func WithIndexChannels(idx FileIndexer, channelIDs []int64) DispatcherOption {
	return func(d *Dispatcher) {
		d.indexer = idx
		d.channels = idSet(channelIDs)
	}
}

// WithDispatchLogger sets the logger.
func WithDispatchLogger(l *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = l }
}

// NewDispatcher creates a dispatcher for h.
func NewDispatcher(h InlineHandler, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{inline: h}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = utils.OrNop(d.logger)
	return d
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Dispatch processes one update. Failures are logged; nothing is returned so one
// bad update never stops the loop.
func (d *Dispatcher) Dispatch(ctx context.Context, u tgbotapi.Update) {
	switch {
	case u.InlineQuery != nil:
		d.dispatchInline(ctx, u.InlineQuery)
	case u.ChannelPost != nil:
		d.dispatchPost(ctx, u.ChannelPost)
	}
}

func (d *Dispatcher) dispatchInline(ctx context.Context, iq *tgbotapi.InlineQuery) {
	q := toInlineQuery(iq)
	if len(d.allowed) > 0 {
		if _, ok := d.allowed[q.UserID]; !ok {
			updatesTotal.WithLabelValues("inline_query", "ignored").Inc()
			d.logger.Debug("inline query from user not in allow-list", zap.Int64("user_id", q.UserID))
			return
		}
	}
	if err := d.inline.Handle(ctx, q); err != nil {
		updatesTotal.WithLabelValues("inline_query", "error").Inc()
		d.logger.Warn("inline query failed",
			zap.String("query_id", q.ID),
			zap.Int64("user_id", q.UserID),
			zap.Error(err),
		)
		return
	}
	updatesTotal.WithLabelValues("inline_query", "ok").Inc()
}

func (d *Dispatcher) dispatchPost(ctx context.Context, msg *tgbotapi.Message) {
	if d.indexer == nil || msg.Chat == nil {
		return
	}
	if _, ok := d.channels[msg.Chat.ID]; !ok {
		return
	}
	in, ok := fileInput(msg)
	if !ok {
		return
	}
	rec, err := d.indexer.IndexFile(ctx, in)
	if err != nil {
		updatesTotal.WithLabelValues("channel_post", "error").Inc()
		d.logger.Warn("failed to index channel post",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Int("message_id", msg.MessageID),
			zap.Error(err),
		)
		return
	}
	updatesTotal.WithLabelValues("channel_post", "ok").Inc()
	d.logger.Info("indexed channel post",
		zap.String("id", rec.ID),
		zap.String("file_name", rec.FileName),
		zap.String("file_type", rec.FileType),
	)
}

// Serve dispatches updates until ctx is done or updates is closed, then waits for
// in-flight updates. At most workers updates are processed concurrently.
func (d *Dispatcher) Serve(ctx context.Context, updates <-chan tgbotapi.Update, workers int) error {
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for {
		select {
		case <-ctx.Done():
			return g.Wait()
		case u, ok := <-updates:
			if !ok {
				return g.Wait()
			}
			g.Go(func() error {
				d.Dispatch(gctx, u)
				return nil
			})
		}
	}
}

// WebhookHandler returns an http.Handler for Telegram webhook deliveries.
func (d *Dispatcher) WebhookHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var u tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			d.logger.Debug("bad webhook payload", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		d.Dispatch(r.Context(), u)
		w.WriteHeader(http.StatusOK)
	})
}
