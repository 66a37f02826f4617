package client

import (
	"context"

	"golang.org/x/exp/slog"

	syncdomain "vitaltrack/internal/domain/sync"
)

// Puller fetches remote changes since the last watermark and merges
// them into the local store.
type Puller struct {
	transport Transport
	store     *Store
	log       *slog.Logger
}

func NewPuller(transport Transport, store *Store, log *slog.Logger) *Puller {
	return &Puller{transport: transport, store: store, log: log}
}

// Pull requests everything changed since the watermark. Transport
// failures are not fatal: local data stays usable and the watermark
// does not move, so the next pull re-fetches the same window.
func (p *Puller) Pull(ctx context.Context) bool {
	resp, err := p.transport.PullChanges(ctx, syncdomain.PullRequest{
		LastSyncAt:     p.store.Watermark(),
		IncludeDeleted: true,
	})
	if err != nil {
		p.log.Warn("pull failed, keeping local state", "error", err)
		return false
	}

	p.store.MergeRemote(resp)
	p.store.SetWatermark(resp.ServerTime)

	p.log.Debug("pull merged",
		"categories", len(resp.Categories),
		"items", len(resp.Items),
		"orders", len(resp.Orders),
		"deleted", len(resp.DeletedIDs),
	)
	return true
}
