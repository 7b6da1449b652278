package session

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/startupidea/internal/gateway"
	"github.com/angelmondragon/startupidea/pkg/logger"
	"github.com/angelmondragon/startupidea/pkg/models"
	"github.com/angelmondragon/startupidea/pkg/state"
	"golang.org/x/sync/singleflight"
)

// Manager tracks whether the user is signed in and the outcome of the latest auth attempt.
// Overlapping attempts are not serialized; the last transition wins unless WithSingleFlight is set.
type Manager struct {
	gateway gateway.Gateway
	logg    *logger.Logger
	state   *state.Publisher[State]
	flight  *singleflight.Group
}

type Option func(*Manager)

func WithLogger(logg *logger.Logger) Option {
	return func(m *Manager) {
		if logg != nil {
			m.logg = logg
		}
	}
}

// WithSingleFlight coalesces identical concurrent sign-in and sign-up calls into one backend request.
func WithSingleFlight() Option {
	return func(m *Manager) { m.flight = &singleflight.Group{} }
}

// NewManager builds a signed-out manager over the gateway.
func NewManager(gw gateway.Gateway, opts ...Option) (*Manager, error) {
	if gw == nil {
		return nil, errors.New("backend gateway required")
	}
	m := &Manager{
		gateway: gw,
		logg:    logger.Nop(),
		state:   state.NewPublisher(State{Outcome: Idle()}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Snapshot returns the latest published state.
func (m *Manager) Snapshot() State {
	return m.state.Get()
}

// Subscribe streams state changes until ctx ends.
func (m *Manager) Subscribe(ctx context.Context) <-chan State {
	return m.state.Subscribe(ctx)
}

// IsLoggedIn reports whether a session is active.
func (m *Manager) IsLoggedIn() bool {
	return m.state.Get().LoggedIn
}

// CurrentEmail is the signed-in user's email, or "" when signed out.
func (m *Manager) CurrentEmail() string {
	st := m.state.Get()
	if !st.LoggedIn {
		return ""
	}
	return st.Email
}

// IsOwner reports whether the signed-in user created the idea.
func (m *Manager) IsOwner(idea models.Idea) bool {
	return idea.OwnedBy(m.CurrentEmail())
}

// CheckLoginStatus resolves the startup session. An existing session is refreshed; a failed
// refresh signs out locally.
func (m *Manager) CheckLoginStatus(ctx context.Context) bool {
	current, err := m.gateway.CurrentSession(ctx)
	if err != nil {
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "session: checking current session failed")
		m.setLoggedOut()
		return false
	}
	if current == nil {
		m.setLoggedOut()
		return false
	}
	return m.refresh(ctx, current)
}

// RefreshIfNeeded renews the session before a privileged action. Failure counts as signed out.
func (m *Manager) RefreshIfNeeded(ctx context.Context) bool {
	current, err := m.gateway.CurrentSession(ctx)
	if err != nil || current == nil {
		if err != nil {
			m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "session: checking current session failed")
		}
		m.setLoggedOut()
		return false
	}
	return m.refresh(ctx, current)
}

func (m *Manager) refresh(ctx context.Context, current *gateway.Session) bool {
	refreshed, err := m.gateway.RefreshSession(ctx)
	if err != nil {
		m.logg.Warn(m.logg.WithFields(ctx, map[string]any{
			"error":      err.Error(),
			"user_email": current.User.Email,
		}), "session: refresh failed, signing out")
		m.SignOut(ctx)
		return false
	}
	email := refreshed.User.Email
	if email == "" {
		email = current.User.Email
	}
	m.state.Update(func(st State) State {
		st.LoggedIn = true
		st.Email = email
		return st
	})
	return true
}

// SignIn authenticates with email and password and publishes the outcome.
func (m *Manager) SignIn(ctx context.Context, email, password string) bool {
	email = strings.TrimSpace(email)
	m.setOutcome(Loading())
	ctx = m.logg.WithUserEmail(ctx, email)

	session, err := m.signIn(ctx, email, password)
	if err == nil {
		signedIn := email
		if session != nil && session.User.Email != "" {
			signedIn = session.User.Email
		}
		m.state.Update(func(st State) State {
			st.LoggedIn = true
			st.Email = signedIn
			st.PendingConfirmationEmail = ""
			st.Outcome = Success()
			return st
		})
		m.logg.Info(ctx, "session: signed in")
		return true
	}

	if gateway.IsAuthKind(err, gateway.AuthEmailUnconfirmed) {
		m.state.Update(func(st State) State {
			st.PendingConfirmationEmail = email
			st.Outcome = EmailConfirmationPending()
			return st
		})
		m.logg.Info(ctx, "session: sign in awaiting email confirmation")
		return false
	}

	m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "session: sign in failed")
	m.setOutcome(Failure(signInFailureMessage(err)))
	return false
}

// SignUp registers the account. Success never authenticates; it leaves the user awaiting confirmation.
func (m *Manager) SignUp(ctx context.Context, email, password string) bool {
	email = strings.TrimSpace(email)
	m.setOutcome(Loading())
	ctx = m.logg.WithUserEmail(ctx, email)

	if err := m.signUp(ctx, email, password); err != nil {
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "session: sign up failed")
		m.setOutcome(Failure(signUpFailureMessage(err)))
		return false
	}

	m.state.Update(func(st State) State {
		st.PendingConfirmationEmail = email
		st.Outcome = EmailConfirmationPending()
		return st
	})
	m.logg.Info(ctx, "session: signed up, awaiting email confirmation")
	return true
}

// SignOut always leaves the manager signed out, even when the backend call fails.
func (m *Manager) SignOut(ctx context.Context) {
	if err := m.gateway.SignOut(ctx); err != nil {
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "session: remote sign out failed")
	}
	m.state.Set(State{Outcome: Idle()})
}

// ClearPendingConfirmation dismisses the awaiting-confirmation notice.
func (m *Manager) ClearPendingConfirmation() {
	m.state.Update(func(st State) State {
		st.PendingConfirmationEmail = ""
		st.Outcome = Idle()
		return st
	})
}

func (m *Manager) signIn(ctx context.Context, email, password string) (*gateway.Session, error) {
	if m.flight == nil {
		return m.gateway.SignIn(ctx, email, password)
	}
	v, err, _ := m.flight.Do(flightKey("sign_in", email, password), func() (any, error) {
		return m.gateway.SignIn(ctx, email, password)
	})
	session, _ := v.(*gateway.Session)
	return session, err
}

func (m *Manager) signUp(ctx context.Context, email, password string) error {
	if m.flight == nil {
		return m.gateway.SignUp(ctx, email, password)
	}
	_, err, _ := m.flight.Do(flightKey("sign_up", email, password), func() (any, error) {
		return nil, m.gateway.SignUp(ctx, email, password)
	})
	return err
}

func flightKey(op, email, password string) string {
	return op + "\x00" + strings.ToLower(email) + "\x00" + password
}

func (m *Manager) setOutcome(o Outcome) {
	m.state.Update(func(st State) State {
		st.Outcome = o
		return st
	})
}

func (m *Manager) setLoggedOut() {
	m.state.Update(func(st State) State {
		st.LoggedIn = false
		st.Email = ""
		return st
	})
}
