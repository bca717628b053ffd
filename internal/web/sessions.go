package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"

	"github.com/steveyegge/hrs/internal/directory"
)

const sessionCookie = "hrs_session"

// defaultIdleTTL is how long an unused browser session is kept.
const defaultIdleTTL = 2 * time.Hour

// browserSession is the state of one browser: the directory session plus
// the ids whose "load more" control has been used.
type browserSession struct {
	session *directory.Session

	mu        sync.Mutex
	requested map[string]bool
	// pending counts enrichments still in flight.
	pending  int
	lastSeen time.Time
}

func newBrowserSession(s *directory.Session) *browserSession {
	return &browserSession{
		session:   s,
		requested: make(map[string]bool),
		lastSeen:  time.Now(),
	}
}

// markRequested disables the control for id and counts the enrichment as
// pending. It reports false if the control was already disabled.
func (b *browserSession) markRequested(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.requested[id] {
		return false
	}
	b.requested[id] = true
	b.pending++
	return true
}

// enrichDone marks one pending enrichment as finished.
func (b *browserSession) enrichDone() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending > 0 {
		b.pending--
	}
}

func (b *browserSession) isRequested(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requested[id]
}

func (b *browserSession) hasPending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending > 0
}

func (b *browserSession) resetRequested() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requested = make(map[string]bool)
}

func (b *browserSession) touch(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastSeen = now
}

// idleSince reports whether the session has been unused since cutoff with
// no enrichment in flight.
func (b *browserSession) idleSince(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending == 0 && b.lastSeen.Before(cutoff)
}

// sessionStore keeps browser sessions in memory, keyed by cookie value.
// Sessions unused for idleTTL are dropped.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*browserSession
	create   func() *directory.Session
	idleTTL  time.Duration
	now      func() time.Time
}

func newSessionStore(create func() *directory.Session) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*browserSession),
		create:   create,
		idleTTL:  defaultIdleTTL,
		now:      time.Now,
	}
}

// lookup returns the stored session for the request. A browser without one
// gets a fresh session that is neither stored nor given a cookie.
func (st *sessionStore) lookup(c *gin.Context) *browserSession {
	st.mu.Lock()
	defer st.mu.Unlock()

	if b := st.existing(c); b != nil {
		return b
	}
	return newBrowserSession(st.create())
}

// get returns the session for the request, creating one and setting the
// cookie when the browser has none or an unknown one.
func (st *sessionStore) get(c *gin.Context) *browserSession {
	st.mu.Lock()
	defer st.mu.Unlock()

	if b := st.existing(c); b != nil {
		return b
	}

	st.sweep()
	id := xid.New().String()
	b := newBrowserSession(st.create())
	b.lastSeen = st.now()
	st.sessions[id] = b
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	return b
}

// existing must be called with st.mu held.
func (st *sessionStore) existing(c *gin.Context) *browserSession {
	id, err := c.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	b, ok := st.sessions[id]
	if !ok {
		return nil
	}
	b.touch(st.now())
	return b
}

// sweep drops idle sessions. It must be called with st.mu held.
func (st *sessionStore) sweep() {
	cutoff := st.now().Add(-st.idleTTL)
	for id, b := range st.sessions {
		if b.idleSince(cutoff) {
			delete(st.sessions, id)
		}
	}
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
