package client

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	connectTimeout       = 5 * time.Second
	maxReconnectAttempts = 5
	backoffStep          = time.Second
)

// EventHandler receives one server-sent event.
type EventHandler func(event string, data []byte)

// StateHandler is notified when the stream connects or disconnects.
type StateHandler func(connected bool)

// Stream is the client side of the notification event stream. It exchanges
// the access token for a short-lived stream token before every connection
// attempt, reconnects with linearly growing backoff, and gives up after
// maxReconnectAttempts consecutive failures until Connect is called again.
type Stream struct {
	api         *API
	httpClient  *http.Client
	onEvent     EventHandler
	onState     StateHandler
	maxAttempts int
	backoff     time.Duration

	mu        sync.Mutex
	cancel    context.CancelFunc
	connected bool
}

// NewStream creates a stream client. onState may be nil.
func NewStream(api *API, onEvent EventHandler, onState StateHandler) *Stream {
	return &Stream{
		api:         api,
		onEvent:     onEvent,
		onState:     onState,
		maxAttempts: maxReconnectAttempts,
		backoff:     backoffStep,
		httpClient: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: connectTimeout,
			},
		},
	}
}

// Connect starts the stream loop. Calling it while connected restarts the
// attempt budget.
func (s *Stream) Connect(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	go s.run(runCtx)
}

// Close stops the stream loop.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.setConnectedLocked(false)
}

// Connected reports the current connection state.
func (s *Stream) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Stream) setConnected(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setConnectedLocked(v)
}

func (s *Stream) setConnectedLocked(v bool) {
	if s.connected == v {
		return
	}
	s.connected = v
	if s.onState != nil {
		go s.onState(v)
	}
}

func (s *Stream) run(ctx context.Context) {
	attempt := 0
	for {
		if ctx.Err() != nil {
			return
		}

		err := s.connectOnce(ctx)
		s.setConnected(false)
		if ctx.Err() != nil {
			return
		}

		if err == nil {
			// The server closed a healthy stream; start a fresh budget, but
			// still pause so a close-happy server cannot drive a tight loop.
			attempt = 0
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.backoff):
			}
			continue
		}

		attempt++
		if attempt > s.maxAttempts {
			slog.Warn("notification stream gave up", "attempts", s.maxAttempts)
			return
		}

		backoff := time.Duration(attempt) * s.backoff
		slog.Debug("notification stream reconnecting", "attempt", attempt, "backoff", backoff, "error", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
	}
}

// connectOnce performs one full authenticate-connect-read cycle. It returns
// nil when the stream ended cleanly after connecting.
func (s *Stream) connectOnce(ctx context.Context) error {
	tok, err := s.api.StreamToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.api.StreamURL(tok.Token), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &apiError{Code: "STREAM_REJECTED", Message: resp.Status}
	}

	s.setConnected(true)
	s.readEvents(resp.Body)
	return nil
}

// readEvents parses the text/event-stream wire format and dispatches each
// complete event. It returns when the body closes.
func (s *Stream) readEvents(body io.Reader) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	var event string
	var data strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if event != "" || data.Len() > 0 {
				s.onEvent(event, []byte(data.String()))
			}
			event = ""
			data.Reset()
			continue
		}
		if after, ok := strings.CutPrefix(line, "event:"); ok {
			event = strings.TrimSpace(after)
			continue
		}
		if after, ok := strings.CutPrefix(line, "data:"); ok {
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimSpace(after))
		}
	}
}
