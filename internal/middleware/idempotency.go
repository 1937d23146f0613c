package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"
)

// ReplayedHeader marks responses served from the idempotency store so
// clients can tell a replay from a fresh execution.
const ReplayedHeader = "X-Idempotency-Replayed"

// IdempotencyStore remembers the outcome of keyed mutating requests so
// retries (client timeouts, double taps on a register button) do not
// re-run their side effects.
type IdempotencyStore struct {
	mu      sync.Mutex
	results map[string]*recordedResponse
	ttl     time.Duration
	done    chan struct{}
}

// recordedResponse is the stored outcome of one keyed request. While
// the original request is still executing, pending is set and waiters
// block on ready.
type recordedResponse struct {
	status  int
	header  http.Header
	body    []byte
	expires time.Time
	pending bool
	ready   chan struct{}
}

// replay writes the recorded outcome, tagged with ReplayedHeader.
func (rec *recordedResponse) replay(w http.ResponseWriter) {
	for name, values := range rec.header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.Header().Set(ReplayedHeader, "true")
	w.WriteHeader(rec.status)
	_, _ = w.Write(rec.body)
}

// IdempotencyConfig configures an IdempotencyStore. Zero values fall
// back to the per-field defaults.
type IdempotencyConfig struct {
	TTL     time.Duration // how long outcomes stay replayable (default 24h)
	Cleanup time.Duration // how often expired outcomes are dropped (default 1h)
}

// NewIdempotencyStore creates a store and starts its background
// sweeper. Call Stop when done with it.
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = time.Hour
	}

	s := &IdempotencyStore{
		results: make(map[string]*recordedResponse),
		ttl:     cfg.TTL,
		done:    make(chan struct{}),
	}
	go s.sweepLoop(cfg.Cleanup)
	return s
}

// Stop terminates the sweeper goroutine.
func (s *IdempotencyStore) Stop() {
	close(s.done)
}

func (s *IdempotencyStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.dropExpired()
		case <-s.done:
			return
		}
	}
}

func (s *IdempotencyStore) dropExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, rec := range s.results {
		if !rec.pending && rec.expires.Before(now) {
			delete(s.results, key)
		}
	}
}

// claim resolves what a keyed request should do: a non-nil return is a
// completed outcome to replay; a nil return means the caller now owns
// the key and must execute the request, then call complete. When an
// earlier request with the same key is still executing, claim blocks
// until it finishes and then replays its outcome.
func (s *IdempotencyStore) claim(key string) *recordedResponse {
	for {
		s.mu.Lock()
		rec, exists := s.results[key]
		if !exists || (!rec.pending && time.Now().After(rec.expires)) {
			s.results[key] = &recordedResponse{pending: true, ready: make(chan struct{})}
			s.mu.Unlock()
			return nil
		}
		if !rec.pending {
			s.mu.Unlock()
			return rec
		}
		s.mu.Unlock()
		<-rec.ready
	}
}

// complete records the outcome for a key claimed earlier and releases
// any requests waiting on it.
func (s *IdempotencyStore) complete(key string, status int, header http.Header, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.results[key]
	rec.status = status
	rec.header = header.Clone()
	rec.body = body
	rec.expires = time.Now().Add(s.ttl)
	rec.pending = false
	close(rec.ready)
}

// requestFingerprint derives the storage key. Scoping it to caller,
// method, path and body means a reused Idempotency-Key with a different
// payload executes normally instead of replaying a stale outcome.
func requestFingerprint(callerID, idempotencyKey, method, path string, body []byte) string {
	h := sha256.New()
	for _, part := range []string{callerID, idempotencyKey, method, path} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// responseRecorder captures the response so it can be stored for replay.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rr *responseRecorder) WriteHeader(status int) {
	rr.status = status
	rr.ResponseWriter.WriteHeader(status)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	rr.body.Write(b)
	return rr.ResponseWriter.Write(b)
}

// Idempotency replays the recorded response for repeated POST/PATCH
// requests carrying the same Idempotency-Key. Requests without the
// header, and all other methods, pass through untouched.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := r.Header.Get("Idempotency-Key")
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			caller := GetUserID(r.Context())
			if caller == "" {
				caller = r.RemoteAddr
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := requestFingerprint(caller, idempotencyKey, r.Method, r.URL.Path, body)

			if rec := store.claim(key); rec != nil {
				rec.replay(w)
				return
			}

			recorder := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			store.complete(key, recorder.status, recorder.Header(), recorder.body.Bytes())
		})
	}
}
