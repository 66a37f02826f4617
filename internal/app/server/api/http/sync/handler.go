package sync

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"vitaltrack/internal/domain/sync"
)

type Handler struct {
	service    sync.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service sync.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.pushOp(), h.push)
	huma.Register(api, h.pullOp(), h.pull)
}

func (h *Handler) push(ctx context.Context, input *pushInput) (*pushOutput, error) {
	resp, err := h.service.Push(ctx, input.Body)
	if err != nil {
		h.log.Error("push failed", "error", err)
		return nil, huma.Error500InternalServerError("push failed")
	}

	return &pushOutput{Body: *resp}, nil
}

func (h *Handler) pull(ctx context.Context, input *pullInput) (*pullOutput, error) {
	resp, err := h.service.Pull(ctx, input.Body)
	if err != nil {
		h.log.Error("pull failed", "error", err)
		return nil, huma.Error500InternalServerError("pull failed")
	}

	return &pullOutput{Body: *resp}, nil
}
