package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/core/ports"
	"github.com/gemach/admin-console/internal/pkg/validation"
)

// Fixed messages surfaced in Session.Error.
const (
	MsgProfileLoadFailed    = "profile load failed"
	MsgSessionRestoreFailed = "session restore failed"
	MsgLoginFailed          = "login failed"
	MsgRegisterFailed       = "registration failed"
)

// userMessager is implemented by transport errors. An empty UserMessage means
// the failure carried no message meant for the user.
type userMessager interface {
	UserMessage() string
}

// TokenWatcher reports external changes to the stored token pair.
type TokenWatcher interface {
	Watch(ctx context.Context, onChange func()) error
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionService is the client-side session controller. It owns the
// Session state and is its only writer; every change goes through
// domain.Reduce. Construct one per application root and pass it down.
type SessionService struct {
	api      ports.AuthAPI
	tokens   ports.TokenStore
	log      zerolog.Logger
	validate *validation.Validator

	mu      sync.Mutex
	state   domain.Session
	subs    map[int]chan domain.Session
	nextSub int

	restoring singleflight.Group
}

func NewSessionService(api ports.AuthAPI, tokens ports.TokenStore, log zerolog.Logger) *SessionService {
	return &SessionService{
		api:      api,
		tokens:   tokens,
		log:      log,
		validate: validation.New(),
		state:    domain.InitialSession(),
		subs:     make(map[int]chan domain.Session),
	}
}

// State returns a snapshot of the current session.
func (s *SessionService) State() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSession(s.state)
}

// Subscribe delivers every state change. A slow reader only sees the latest
// state. Call the returned func to unsubscribe.
func (s *SessionService) Subscribe() (<-chan domain.Session, func()) {
	ch := make(chan domain.Session, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Restore runs the startup algorithm once per call; concurrent callers share
// one run. Only a token storage failure is returned as an error.
func (s *SessionService) Restore(ctx context.Context) (domain.Session, error) {
	_, err, _ := s.restoring.Do("restore", func() (any, error) {
		return nil, s.restore(ctx)
	})
	return s.State(), err
}

func (s *SessionService) restore(ctx context.Context) error {
	access, ok, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}
	if !ok || access == "" {
		s.dispatch(domain.Logout())
		return nil
	}

	if !s.tokens.IsTokenExpired(access) {
		s.dispatch(domain.Start())
		user, err := s.api.Profile(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("profile fetch failed, clearing session")
			s.clearTokens(ctx)
			s.dispatch(domain.Failure(MsgProfileLoadFailed))
			return nil
		}
		s.dispatch(domain.Success(user))
		return nil
	}

	refresh, ok, err := s.tokens.RefreshToken(ctx)
	if err != nil {
		return err
	}
	if !ok || refresh == "" {
		s.clearTokens(ctx)
		s.dispatch(domain.Logout())
		return nil
	}

	s.dispatch(domain.Start())
	res, err := s.api.Refresh(ctx, refresh)
	if err != nil {
		s.log.Warn().Err(err).Msg("token refresh failed, clearing session")
		s.clearTokens(ctx)
		s.dispatch(domain.Failure(MsgSessionRestoreFailed))
		return nil
	}
	if res == nil || res.User == nil {
		s.log.Warn().Msg("token refresh returned no user, clearing session")
		s.clearTokens(ctx)
		s.dispatch(domain.Failure(MsgSessionRestoreFailed))
		return nil
	}
	if err := s.storePair(ctx, res.Tokens()); err != nil {
		s.dispatch(domain.Failure(MsgSessionRestoreFailed))
		return err
	}
	s.dispatch(domain.Success(res.User))
	return nil
}

// Login authenticates and stores the returned token pair. On failure the
// session carries the failure message, the token store is left untouched,
// and the error is returned for the caller to report.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	s.dispatch(domain.Start())

	if err := s.validate.Validate(credentials{Email: email, Password: password}); err != nil {
		s.dispatch(domain.Failure(err.Error()))
		return nil, err
	}

	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.dispatch(domain.Failure(failureMessage(err, MsgLoginFailed)))
		return nil, err
	}
	return s.establish(ctx, res)
}

// Register creates an account and signs it in, with the same state flow as Login.
func (s *SessionService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	s.dispatch(domain.Start())

	if err := s.validate.Validate(in); err != nil {
		s.dispatch(domain.Failure(err.Error()))
		return nil, err
	}

	res, err := s.api.Register(ctx, in)
	if err != nil {
		s.dispatch(domain.Failure(failureMessage(err, MsgRegisterFailed)))
		return nil, err
	}
	return s.establish(ctx, res)
}

// Logout ends the session locally whatever the backend says. Its errors are
// logged, never returned.
func (s *SessionService) Logout(ctx context.Context) {
	defer func() {
		s.clearTokens(ctx)
		s.dispatch(domain.Logout())
	}()

	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("logout request failed")
	}
}

// ClearError drops the error message and nothing else.
func (s *SessionService) ClearError() {
	s.dispatch(domain.ClearError())
}

// WatchTokens follows external changes to the token store: removal of the
// access token signs this session out, a new token triggers Restore. It
// blocks until ctx is done or the watcher fails.
func (s *SessionService) WatchTokens(ctx context.Context, w TokenWatcher) error {
	return w.Watch(ctx, func() {
		access, ok, err := s.tokens.AccessToken(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("read access token after external change")
			return
		}
		if !ok || access == "" {
			if s.State().IsAuthenticated {
				s.log.Info().Msg("tokens removed externally, signing out")
			}
			s.dispatch(domain.Logout())
			return
		}
		if _, err := s.Restore(ctx); err != nil {
			s.log.Warn().Err(err).Msg("restore after external change")
		}
	})
}

// establish stores the pair only once the result carries a user, so an
// incomplete response leaves the token store untouched.
func (s *SessionService) establish(ctx context.Context, res *domain.AuthResult) (*domain.User, error) {
	if res == nil || res.User == nil {
		s.dispatch(domain.Failure(domain.ErrMissingUser.Error()))
		return nil, domain.ErrMissingUser
	}
	if err := s.storePair(ctx, res.Tokens()); err != nil {
		s.dispatch(domain.Failure(err.Error()))
		return nil, err
	}
	st := s.dispatch(domain.Success(res.User))
	return st.User, nil
}

func (s *SessionService) storePair(ctx context.Context, p domain.TokenPair) error {
	return s.tokens.SetTokens(ctx, p.AccessToken, p.RefreshToken)
}

func (s *SessionService) clearTokens(ctx context.Context) {
	if err := s.tokens.ClearTokens(ctx); err != nil {
		s.log.Error().Err(err).Msg("clear tokens")
	}
}

func (s *SessionService) dispatch(t domain.Transition) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = domain.Reduce(s.state, t)
	snapshot := cloneSession(s.state)

	for _, ch := range s.subs {
		select {
		case ch <- cloneSession(s.state):
		default:
			select {
			case <-ch:
			default:
			}
			ch <- cloneSession(s.state)
		}
	}

	s.log.Debug().
		Stringer("transition", t.Kind).
		Bool("authenticated", snapshot.IsAuthenticated).
		Bool("loading", snapshot.IsLoading).
		Msg("session transition")
	return snapshot
}

// failureMessage picks the text shown to the user for err. Transport
// failures without a server message fall back to fallback.
func failureMessage(err error, fallback string) string {
	var um userMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

func cloneSession(s domain.Session) domain.Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
