package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"vitaltrack/internal/app/client/config"
	syncdomain "vitaltrack/internal/domain/sync"
)

// Transport is everything the engine needs from the remote server.
type Transport interface {
	HealthCheck(ctx context.Context) error
	Register(ctx context.Context, login, password string) (int, error)
	Login(ctx context.Context, login, password string) (string, error)
	Logout(ctx context.Context) error
	PushOperations(ctx context.Context, req syncdomain.PushRequest) (*syncdomain.PushResponse, error)
	PullChanges(ctx context.Context, req syncdomain.PullRequest) (*syncdomain.PullResponse, error)
	SetToken(token string)
}

type httpClient struct {
	client    *http.Client
	config    *config.Config
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	client := &http.Client{
		// The timeout doubles as the push abort point: favor prompt
		// re-queueing over blocking a pre-logout flush.
		Timeout: time.Duration(cfg.SyncTimeout) * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}

	return &httpClient{
		client:    client,
		config:    cfg,
		log:       log,
		baseURL:   scheme + cfg.ServerAddress,
		userAgent: "VitalTrack-Client/1.0",
	}
}

func (h *httpClient) SetToken(token string) {
	h.token = token
}

// HealthCheck probes server reachability with a short deadline.
func (h *httpClient) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return nil
}

func (h *httpClient) Register(ctx context.Context, login, password string) (int, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"login":    login,
		"password": password,
	})
	if err != nil {
		return 0, err
	}

	var out struct {
		ID     int    `json:"user_id"`
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := h.parseResponse(resp, &out); err != nil {
		return 0, err
	}
	if out.Status != "Ok" {
		return 0, fmt.Errorf("registration failed: %s", out.Error)
	}
	return out.ID, nil
}

func (h *httpClient) Login(ctx context.Context, login, password string) (string, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"login":    login,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	var out struct {
		Token  string `json:"token"`
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := h.parseResponse(resp, &out); err != nil {
		return "", err
	}
	if out.Status != "Ok" || out.Token == "" {
		return "", fmt.Errorf("login failed: %s", out.Error)
	}
	return out.Token, nil
}

func (h *httpClient) Logout(ctx context.Context) error {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/v1/auth/logout", nil)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *httpClient) PushOperations(ctx context.Context, req syncdomain.PushRequest) (*syncdomain.PushResponse, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/sync/push", req)
	if err != nil {
		return nil, err
	}

	var out syncdomain.PushResponse
	if err := h.parseResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *httpClient) PullChanges(ctx context.Context, req syncdomain.PullRequest) (*syncdomain.PullResponse, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/sync/pull", req)
	if err != nil {
		return nil, err
	}

	var out syncdomain.PullResponse
	if err := h.parseResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("sending request", "method", method, "url", req.URL.String())

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
