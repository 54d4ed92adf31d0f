package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
	"github.com/laser-workshop/workshop-console/internal/pkg/metrics"
)

// expirySkew treats a token as expired slightly early so it is not rejected
// in flight.
const expirySkew = 10 * time.Second

// SessionObserver is called with the new user after login, restore or a
// profile reload, and with nil after logout.
type SessionObserver func(user *domain.User)

// SessionService owns the persisted session and is the single place tokens
// are rotated. It implements ports.TokenSource for the REST client.
//
// Login, refresh commit and logout serialise on mu. Network calls run outside
// the lock; gen detects that the session changed while a call was in flight.
type SessionService struct {
	api   ports.AuthAPI
	store ports.KeyValueStore
	log   zerolog.Logger

	mu      sync.Mutex
	session *domain.Session
	gen     uint64

	refreshes singleflight.Group

	obsMu     sync.Mutex
	observers map[int]SessionObserver
	nextObs   int
}

// NewSessionService returns a logged-out SessionService. Call Restore to load
// a persisted session.
func NewSessionService(api ports.AuthAPI, store ports.KeyValueStore, log zerolog.Logger) *SessionService {
	return &SessionService{
		api:       api,
		store:     store,
		log:       log.With().Str("component", "session").Logger(),
		observers: make(map[int]SessionObserver),
	}
}

// Restore loads the session persisted by a previous run. A missing or partial
// session leaves the service logged out.
func (s *SessionService) Restore(ctx context.Context) error {
	access, okA, err := s.store.Get(ctx, domain.KeyAccessToken)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	refresh, okR, err := s.store.Get(ctx, domain.KeyRefreshToken)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	rawUser, okU, err := s.store.Get(ctx, domain.KeyCurrentUser)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if !okA || !okR || access == "" {
		return nil
	}

	var user *domain.User
	if okU {
		user = new(domain.User)
		if err := json.Unmarshal([]byte(rawUser), user); err != nil {
			s.log.Warn().Err(err).Msg("discarding unreadable persisted user")
			user = nil
		}
	}

	s.mu.Lock()
	s.gen++
	s.session = &domain.Session{AccessToken: access, RefreshToken: refresh, User: user}
	s.mu.Unlock()

	s.log.Info().Str("username", usernameOf(user)).Msg("session restored")
	s.notify(user)
	return nil
}

// Login exchanges credentials for a session and persists it.
func (s *SessionService) Login(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	res, err := s.api.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.mu.Lock()
	s.gen++
	s.session = &domain.Session{AccessToken: res.Access, RefreshToken: res.Refresh, User: res.User}
	s.persistLocked(ctx, s.session)
	s.mu.Unlock()

	ev := s.log.Info().Str("username", usernameOf(res.User))
	if exp, ok := TokenExpiry(res.Access); ok {
		ev = ev.Time("access_expires_at", exp)
	}
	ev.Msg("logged in")

	s.notify(res.User)
	return res.User, nil
}

// Logout tells the backend to revoke the refresh token, then clears the local
// session. The backend call is best effort.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	sess, gen := s.session, s.gen
	s.mu.Unlock()
	if sess == nil {
		return nil
	}

	if sess.RefreshToken != "" {
		if err := s.api.Logout(ctx, sess.RefreshToken); err != nil {
			s.log.Warn().Err(err).Msg("backend logout failed, clearing local session anyway")
		}
	}

	s.mu.Lock()
	if s.gen != gen {
		// The session already ended or was replaced by a newer login.
		s.mu.Unlock()
		return nil
	}
	s.gen++
	s.session = nil
	s.clearLocked(ctx)
	s.mu.Unlock()

	s.log.Info().Str("username", usernameOf(sess.User)).Msg("logged out")
	s.notify(nil)
	return nil
}

// Me reloads the current user's profile from the backend and persists it.
func (s *SessionService) Me(ctx context.Context) (*domain.User, error) {
	u, err := s.api.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}

	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return nil, domain.ErrNotAuthenticated
	}
	s.session = &domain.Session{AccessToken: s.session.AccessToken, RefreshToken: s.session.RefreshToken, User: u}
	s.persistLocked(ctx, s.session)
	s.mu.Unlock()

	s.notify(u)
	return u, nil
}

// AccessToken returns the current access token, or "" when logged out.
func (s *SessionService) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.AccessToken
}

func (s *SessionService) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (s *SessionService) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil || s.session.User == nil {
		return nil
	}
	u := *s.session.User
	return &u
}

// Refresh rotates the access token after the backend rejected `rejected`.
//
// If the token already rotated since the caller sent its request, the current
// token is returned without a backend call. Otherwise all concurrent callers
// share a single refresh call and receive the same token or the same error.
// A failed refresh ends the session exactly once.
func (s *SessionService) Refresh(ctx context.Context, rejected string) (string, error) {
	s.mu.Lock()
	sess, gen := s.session, s.gen
	s.mu.Unlock()

	if sess == nil {
		return "", domain.ErrNotAuthenticated
	}
	if sess.AccessToken != rejected {
		metrics.TokenRefreshShared.Inc()
		return sess.AccessToken, nil
	}

	ch := s.refreshes.DoChan("refresh", func() (any, error) {
		return s.rotate(context.WithoutCancel(ctx), gen, sess)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.Shared {
			metrics.TokenRefreshShared.Inc()
		}
		if r.Err != nil {
			return "", r.Err
		}
		return r.Val.(string), nil
	}
}

// FreshAccessToken returns an access token that is not known to be expired,
// refreshing first when the current one has lapsed.
func (s *SessionService) FreshAccessToken(ctx context.Context) (string, error) {
	tok := s.AccessToken()
	if tok == "" {
		return "", domain.ErrNotAuthenticated
	}
	if exp, ok := TokenExpiry(tok); ok && time.Now().Add(expirySkew).After(exp) {
		return s.Refresh(ctx, tok)
	}
	return tok, nil
}

// Subscribe registers fn for session changes and returns a cancel func.
func (s *SessionService) Subscribe(fn SessionObserver) func() {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

// rotate performs the backend refresh on behalf of every waiter.
func (s *SessionService) rotate(ctx context.Context, gen uint64, sess *domain.Session) (string, error) {
	access, err := s.api.RefreshToken(ctx, sess.RefreshToken)

	s.mu.Lock()
	cur := s.session
	if s.gen != gen || cur == nil || cur.AccessToken != sess.AccessToken {
		// Logged out, logged in again, or rotated elsewhere while in flight.
		s.mu.Unlock()
		if cur == nil {
			return "", domain.ErrNotAuthenticated
		}
		return cur.AccessToken, nil
	}

	if err != nil {
		s.gen++
		s.session = nil
		s.clearLocked(ctx)
		s.mu.Unlock()

		metrics.TokenRefreshTotal.WithLabelValues("failed").Inc()
		s.log.Warn().Err(err).Str("username", usernameOf(sess.User)).Msg("token refresh failed, session ended")
		s.notify(nil)
		return "", fmt.Errorf("%w: %w", domain.ErrSessionExpired, err)
	}

	s.session = &domain.Session{AccessToken: access, RefreshToken: cur.RefreshToken, User: cur.User}
	if err := s.store.Set(ctx, domain.KeyAccessToken, access); err != nil {
		s.log.Error().Err(err).Msg("persist refreshed access token")
	}
	s.mu.Unlock()

	metrics.TokenRefreshTotal.WithLabelValues("ok").Inc()
	s.log.Debug().Msg("access token refreshed")
	return access, nil
}

// persistLocked writes the whole session. Storage failures are logged; the
// in-memory session stays authoritative for this run.
func (s *SessionService) persistLocked(ctx context.Context, sess *domain.Session) {
	if err := s.store.Set(ctx, domain.KeyAccessToken, sess.AccessToken); err != nil {
		s.log.Error().Err(err).Msg("persist access token")
	}
	if err := s.store.Set(ctx, domain.KeyRefreshToken, sess.RefreshToken); err != nil {
		s.log.Error().Err(err).Msg("persist refresh token")
	}
	if sess.User == nil {
		return
	}
	raw, err := json.Marshal(sess.User)
	if err != nil {
		s.log.Error().Err(err).Msg("encode current user")
		return
	}
	if err := s.store.Set(ctx, domain.KeyCurrentUser, string(raw)); err != nil {
		s.log.Error().Err(err).Msg("persist current user")
	}
}

func (s *SessionService) clearLocked(ctx context.Context) {
	if err := s.store.Delete(ctx, domain.KeyAccessToken, domain.KeyRefreshToken, domain.KeyCurrentUser); err != nil {
		s.log.Error().Err(err).Msg("clear persisted session")
	}
}

func (s *SessionService) notify(u *domain.User) {
	s.obsMu.Lock()
	fns := make([]SessionObserver, 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		if u == nil {
			fn(nil)
			continue
		}
		cp := *u
		fn(&cp)
	}
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature;
// the console never holds the signing key.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func usernameOf(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}

var _ ports.TokenSource = (*SessionService)(nil)
