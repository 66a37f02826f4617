package client

import (
	"context"

	"golang.org/x/exp/slog"

	syncdomain "vitaltrack/internal/domain/sync"
)

// Pusher ships queued operations to the server in a single batch.
type Pusher struct {
	transport Transport
	store     *Store
	log       *slog.Logger
}

func NewPusher(transport Transport, store *Store, log *slog.Logger) *Pusher {
	return &Pusher{transport: transport, store: store, log: log}
}

// PushFunc returns the callback the queue drains through.
func (p *Pusher) PushFunc() PushFunc {
	return func(ctx context.Context, ops []syncdomain.Operation) (*syncdomain.PushResponse, error) {
		resp, err := p.transport.PushOperations(ctx, syncdomain.PushRequest{
			Operations: ops,
			LastSyncAt: p.store.Watermark(),
		})
		if err != nil {
			return nil, err
		}
		p.log.Debug("push batch completed",
			"sent", len(ops),
			"succeeded", resp.SuccessCount,
			"failed", resp.ErrorCount,
		)
		return resp, nil
	}
}
