package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"course-ai/internal/render"
	"course-ai/internal/services"
)

const (
	sessionCookieName = "course_session"
	defaultSessionTTL = 12 * time.Hour
)

// SessionState is one browser's workspace: the course/quiz session plus the
// UI state that survives a redirect.
type SessionState struct {
	ID string
	*services.Session

	mu        sync.Mutex
	topic     string
	form      render.GeneratorForm
	flash     []render.Flash
	createdAt time.Time
	updatedAt time.Time
}

// Topic is the user's topic for the active course, used for artifact names.
func (st *SessionState) Topic() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.topic
}

func (st *SessionState) SetTopic(topic string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.topic = topic
}

func (st *SessionState) Form() render.GeneratorForm {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.form
}

func (st *SessionState) SetForm(form render.GeneratorForm) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.form = form
}

// AddFlash queues notices for the next rendered page.
func (st *SessionState) AddFlash(flash ...render.Flash) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.flash = append(st.flash, flash...)
}

// TakeFlash returns and clears the queued notices.
func (st *SessionState) TakeFlash() []render.Flash {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := st.flash
	st.flash = nil
	return out
}

// SessionManager keys anonymous sessions by a uuid cookie.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*SessionState
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionManager{
		sessions: make(map[string]*SessionState),
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Load returns the caller's session, creating one and setting the cookie
// when the request has none or it has expired.
func (m *SessionManager) Load(w http.ResponseWriter, r *http.Request) *SessionState {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if st, ok := m.get(cookie.Value); ok {
			return st
		}
	}

	st := m.create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    st.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
	return st
}

// Len reports the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *SessionManager) get(id string) (*SessionState, bool) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if now.Sub(st.updatedAt) > m.ttl {
		delete(m.sessions, id)
		return nil, false
	}
	st.updatedAt = now
	return st, true
}

func (m *SessionManager) create() *SessionState {
	now := m.now()
	st := &SessionState{
		ID:        uuid.NewString(),
		Session:   services.NewSession(),
		createdAt: now,
		updatedAt: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked(now)
	m.sessions[st.ID] = st
	return st
}

func (m *SessionManager) pruneLocked(now time.Time) {
	for id, st := range m.sessions {
		if now.Sub(st.updatedAt) > m.ttl {
			delete(m.sessions, id)
		}
	}
}
