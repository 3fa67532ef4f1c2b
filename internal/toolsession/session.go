// Package toolsession bridges many concurrent logical chunk streams to
// one toolparse.Parser each, keyed by session ID behind a bounded LRU. A
// Parser is not safe for concurrent use (see internal/toolparse's doc
// comment); Manager gives every session its own instance and lets the
// LRU evict the oldest ones so a caller that never finalizes a stream
// cannot grow the process without bound.
package toolsession

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"toolstream/internal/logging"
	"toolstream/internal/toolparse"
	"toolstream/internal/toolparse/schema"
)

// Session pairs one Parser with the block/diagnostic history a caller can
// poll or replay (used by the SSE and WebSocket handlers in
// cmd/toolstream-server).
type Session struct {
	ID     string
	parser *toolparse.Parser

	mu     sync.Mutex
	blocks []toolparse.Block
	diags  []toolparse.Diagnostic
}

// Feed drives one chunk through the session's parser under the session's
// own lock, so concurrent callers hitting the same session ID serialize
// rather than racing on the underlying Parser.
func (s *Session) Feed(chunk string) ([]toolparse.Block, []toolparse.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var newBlocks []toolparse.Block
	var newDiags []toolparse.Diagnostic
	s.parser.OnBlock(func(b toolparse.Block) { newBlocks = append(newBlocks, b) })
	s.parser.OnError(func(d toolparse.Diagnostic) { newDiags = append(newDiags, d) })

	s.parser.ProcessChunk(chunk)

	s.blocks = append(s.blocks, newBlocks...)
	s.diags = append(s.diags, newDiags...)
	return newBlocks, newDiags
}

// Finalize signals end of stream for this session and returns any
// trailing block emitted.
func (s *Session) Finalize() []toolparse.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	var newBlocks []toolparse.Block
	s.parser.OnBlock(func(b toolparse.Block) { newBlocks = append(newBlocks, b) })
	s.parser.OnError(func(d toolparse.Diagnostic) { s.diags = append(s.diags, d) })
	s.parser.Finalize()

	s.blocks = append(s.blocks, newBlocks...)
	return newBlocks
}

// History returns every block and diagnostic observed on this session so
// far, in emission order.
func (s *Session) History() ([]toolparse.Block, []toolparse.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blocks := make([]toolparse.Block, len(s.blocks))
	copy(blocks, s.blocks)
	diags := make([]toolparse.Diagnostic, len(s.diags))
	copy(diags, s.diags)
	return blocks, diags
}

// Manager owns the bounded set of live sessions. Zero value is not usable;
// construct with NewManager.
type Manager struct {
	cache  *lru.Cache[string, *Session]
	logger logging.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager builds a Manager holding at most maxSessions concurrently;
// the oldest untouched session is evicted once that bound is reached,
// since nothing in the parser itself bounds how long a caller may hold a
// stream open. It also starts a background goroutine that logs occupancy
// every interval; call Close to stop it.
func NewManager(maxSessions int, logger logging.Logger) (*Manager, error) {
	logger = logging.OrNop(logger)
	c, err := lru.NewWithEvict[string, *Session](maxSessions, func(id string, _ *Session) {
		logger.Warn("session %s evicted before finalize (capacity %d reached)", id, maxSessions)
	})
	if err != nil {
		return nil, fmt.Errorf("toolsession: build lru cache: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{cache: c, logger: logger, cancel: cancel, done: make(chan struct{})}
	go m.reportOccupancy(ctx, 5*time.Minute)
	return m, nil
}

func (m *Manager) reportOccupancy(ctx context.Context, interval time.Duration) {
	defer close(m.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.logger.Debug("session occupancy: %d", m.cache.Len())
		}
	}
}

// Close stops the background occupancy reporter and waits for it to exit,
// so callers (and goleak in tests) can confirm no goroutine outlives the
// Manager.
func (m *Manager) Close() {
	m.cancel()
	<-m.done
}

// Open creates a new session with a fresh Parser over s in the given
// mode, keyed by id. A pre-existing session under the same id is replaced.
func (m *Manager) Open(id string, s *schema.Schema, opts toolparse.Options) *Session {
	sess := &Session{ID: id, parser: toolparse.New(s, opts)}
	m.cache.Add(id, sess)
	m.logger.Info("session %s opened (relaxed=%t)", id, opts.RelaxedMode)
	return sess
}

// Get returns the session for id, or false if it does not exist or has
// been evicted.
func (m *Manager) Get(id string) (*Session, bool) {
	return m.cache.Get(id)
}

// CloseSession removes a session, e.g. once a caller has consumed its
// finalize blocks and has no further use for its history.
func (m *Manager) CloseSession(id string) {
	m.cache.Remove(id)
	m.logger.Info("session %s closed", id)
}

// Len reports the number of sessions currently held.
func (m *Manager) Len() int {
	return m.cache.Len()
}
