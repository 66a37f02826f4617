package sync

import "vitaltrack/internal/domain/sync"

type pushInput struct {
	Body sync.PushRequest
}

type pushOutput struct {
	Body sync.PushResponse
}

type pullInput struct {
	Body sync.PullRequest
}

type pullOutput struct {
	Body sync.PullResponse
}
