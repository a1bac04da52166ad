// Package auth guards the admin panel: a fixed credential check,
// per-source login rate limiting, and a single persisted session.
package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oqtepa/fastfood-storefront/internal/kvstore"
	"github.com/oqtepa/fastfood-storefront/internal/model"
	"github.com/oqtepa/fastfood-storefront/internal/obs"
)

// Service validates admin credentials and enforces the failed-attempt
// limit. Attempt records and the session are persisted through the
// key-value store so restarts do not reset the block.
type Service struct {
	mu          sync.Mutex
	kv          *kvstore.Store
	username    string
	password    string
	maxAttempts int
	window      time.Duration
	sessionTTL  time.Duration
	now         func() time.Time
}

// New constructs a Service. maxAttempts failed logins from one source
// within window block that source until the window elapses, measured
// from the oldest qualifying attempt.
func New(kv *kvstore.Store, username, password string, maxAttempts int, window, sessionTTL time.Duration) *Service {
	return &Service{
		kv:          kv,
		username:    username,
		password:    password,
		maxAttempts: maxAttempts,
		window:      window,
		sessionTTL:  sessionTTL,
		now:         time.Now,
	}
}

// LoginResult reports the outcome of a login attempt.
type LoginResult struct {
	OK         bool
	Blocked    bool
	RetryAfter time.Duration
	Token      string
	ExpiresAt  time.Time
}

// Login checks credentials for a request from source. A blocked source
// is rejected before the credential check, so correct credentials do
// not lift an active block. A successful login clears the source's
// attempt records and replaces the persisted session.
func (s *Service) Login(source, username, password string) LoginResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if remaining := s.blockRemaining(source); remaining > 0 {
		obs.Logger.Warn("login_blocked", "source", source, "retry_after_ms", remaining.Milliseconds())
		return LoginResult{Blocked: true, RetryAfter: remaining}
	}

	if username == s.username && password == s.password {
		now := s.now()
		sess := model.AdminSession{Token: uuid.NewString(), LoginTime: now.UnixMilli()}
		s.kv.Write(kvstore.KeyAdminSession, sess)
		s.kv.Delete(kvstore.KeyLoginAttempts)
		obs.Logger.Info("login_success", "source", source)
		return LoginResult{OK: true, Token: sess.Token, ExpiresAt: now.Add(s.sessionTTL)}
	}

	s.recordAttempt(source)
	obs.Logger.Warn("login_failed", "source", source)
	if remaining := s.blockRemaining(source); remaining > 0 {
		return LoginResult{Blocked: true, RetryAfter: remaining}
	}
	return LoginResult{}
}

// Validate reports whether token matches the persisted session and the
// session has not expired.
func (s *Service) Validate(token string) bool {
	if token == "" {
		return false
	}
	var sess model.AdminSession
	if !s.kv.Read(kvstore.KeyAdminSession, &sess) {
		return false
	}
	if sess.Token != token {
		return false
	}
	age := s.now().Sub(time.UnixMilli(sess.LoginTime))
	if age >= s.sessionTTL {
		s.kv.Delete(kvstore.KeyAdminSession)
		return false
	}
	return true
}

// Logout removes the persisted session.
func (s *Service) Logout() {
	s.kv.Delete(kvstore.KeyAdminSession)
}

// attempts returns the persisted attempt list, empty on any miss.
func (s *Service) attempts() []model.LoginAttempt {
	var a []model.LoginAttempt
	s.kv.Read(kvstore.KeyLoginAttempts, &a)
	return a
}

// blockRemaining returns how long source stays blocked, or 0. The
// block runs from the oldest attempt still inside the window. Callers
// hold s.mu.
func (s *Service) blockRemaining(source string) time.Duration {
	now := s.now().UnixMilli()
	var recent []model.LoginAttempt
	for _, a := range s.attempts() {
		if a.Source == source && now-a.Timestamp < s.window.Milliseconds() {
			recent = append(recent, a)
		}
	}
	if len(recent) < s.maxAttempts {
		return 0
	}
	oldest := recent[0]
	remaining := s.window - time.Duration(now-oldest.Timestamp)*time.Millisecond
	if remaining < 0 {
		return 0
	}
	return remaining
}

// recordAttempt appends a failed attempt and prunes records that have
// aged out of the window. Callers hold s.mu.
func (s *Service) recordAttempt(source string) {
	now := s.now().UnixMilli()
	all := append(s.attempts(), model.LoginAttempt{Timestamp: now, Source: source})
	kept := all[:0]
	for _, a := range all {
		if now-a.Timestamp < s.window.Milliseconds() {
			kept = append(kept, a)
		}
	}
	s.kv.Write(kvstore.KeyLoginAttempts, kept)
}
