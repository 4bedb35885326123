package lavalink

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"
)

func newTestClient(sink EventSink) *Client {
	return NewClient(ClientConfig{
		UserID: 987654321,
		Sink:   sink,
	})
}

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   []byte
}

type requestRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *requestRecorder) record(req recordedRequest) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
}

func (r *requestRecorder) all() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedRequest(nil), r.requests...)
}

func (r *requestRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

// newRESTSession starts a stub backend that answers every request with the
// given status and body, and returns a session pointed at it. The session is
// wired for REST without its websocket loop running.
func newRESTSession(t *testing.T, client *Client, status int, response string) (*Session, *requestRecorder) {
	t.Helper()

	rec := &requestRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.record(recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			Body:   body,
		})
		w.WriteHeader(status)
		if response != "" {
			w.Write([]byte(response))
		}
	}))
	t.Cleanup(srv.Close)

	return sessionForURL(t, client, srv.URL), rec
}

func sessionForURL(t *testing.T, client *Client, rawURL string) *Session {
	t.Helper()

	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parsing server url: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("splitting server address: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parsing server port: %v", err)
	}

	s := newSession(client, SessionConfig{
		Name:     "test",
		Host:     host,
		Port:     port,
		Password: "secret",
		Backoff:  time.Hour,
	})
	s.httpClient = client.httpClient
	return s
}

// markReady fakes a completed websocket handshake so scoped REST calls work.
func markReady(s *Session, sessionID string) {
	s.mu.Lock()
	s.status = StatusConnected
	s.sessionID = sessionID
	s.mu.Unlock()
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}
