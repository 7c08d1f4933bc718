package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/billora/invoicing-backend-go/internal/domain/notification"
)

// API is a thin HTTP client for the notification endpoints. It carries the
// access token and decodes the standard response envelope.
type API struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPI creates an API client. baseURL should include the /api/v1 prefix.
func NewAPI(baseURL, token string) *API {
	return &API{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *apiError       `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (a *API) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		if env.Error != nil {
			return env.Error
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	if out != nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// ListNotifications fetches one page of notifications.
func (a *API) ListNotifications(ctx context.Context, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	if unreadOnly {
		q.Set("unread_only", "true")
	}

	var out notification.NotificationListResponse
	if err := a.do(ctx, http.MethodGet, "/notifications?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UnreadCount fetches the authoritative unread counter.
func (a *API) UnreadCount(ctx context.Context) (int, error) {
	var out notification.UnreadCountResponse
	if err := a.do(ctx, http.MethodGet, "/notifications/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}

// MarkAsRead marks the given notifications read.
func (a *API) MarkAsRead(ctx context.Context, ids []string) error {
	return a.do(ctx, http.MethodPatch, "/notifications/read", notification.MarkAsReadRequest{NotificationIDs: ids}, nil)
}

// MarkAllAsRead marks every notification read.
func (a *API) MarkAllAsRead(ctx context.Context) error {
	return a.do(ctx, http.MethodPost, "/notifications/read-all", nil, nil)
}

// DeleteNotification removes one notification.
func (a *API) DeleteNotification(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/notifications/"+id, nil, nil)
}

// StreamToken exchanges the access token for a short-lived stream token.
func (a *API) StreamToken(ctx context.Context) (*notification.StreamTokenResponse, error) {
	var out notification.StreamTokenResponse
	if err := a.do(ctx, http.MethodGet, "/notifications/sse-token", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StreamURL builds the SSE endpoint URL for a stream token.
func (a *API) StreamURL(token string) string {
	return a.baseURL + "/notifications/stream?token=" + url.QueryEscape(token)
}
