// Package session decides whether the current user is authenticated and who they are.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/user"
)

// ErrNoProfile is returned when the profile endpoint answers without a user.
var ErrNoProfile = errors.New("profile response has no user")

type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "loading"
	}
}

// CredentialStore persists the bearer credential between runs.
// Token returns "" when nothing is stored.
type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// AuthAPI is the part of the API client the gate relies on.
type AuthAPI interface {
	Login(ctx context.Context, form user.LoginForm) (string, error)
	Register(ctx context.Context, form user.RegisterForm) (int, error)
	Me(ctx context.Context) (user.User, error)
}

// Gate starts in StateLoading and settles on StateAuthenticated or StateAnonymous after Check.
// It is safe for concurrent use.
type Gate struct {
	api    AuthAPI
	store  CredentialStore
	logger core.Logger
	now    func() time.Time

	mu    sync.RWMutex
	state State
	usr   user.User
}

func NewGate(api AuthAPI, store CredentialStore, logger core.Logger) *Gate {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Gate{
		api:    api,
		store:  store,
		logger: logger,
		now:    time.Now,
		state:  StateLoading,
	}
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// User returns the profile of the authenticated user.
func (g *Gate) User() (user.User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.usr, g.state == StateAuthenticated
}

func (g *Gate) setAuthenticated(usr user.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateAuthenticated
	g.usr = usr
}

func (g *Gate) setAnonymous() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateAnonymous
	g.usr = user.User{}
}

// Check resolves the stored credential into a profile.
// A missing, expired or rejected credential leaves the gate anonymous with nothing stored.
func (g *Gate) Check(ctx context.Context) error {
	token, err := g.store.Token(ctx)
	if err != nil {
		g.setAnonymous()
		return errors.Wrap(err, "reading credential")
	}
	if token == "" {
		g.setAnonymous()
		return nil
	}
	if tokenExpired(token, g.now()) {
		g.logger.Info("stored credential expired")
		return g.clear(ctx)
	}

	usr, err := g.profile(ctx)
	if err != nil {
		g.logger.Warn("profile fetch failed, dropping credential", err)
		return g.clear(ctx)
	}
	g.setAuthenticated(usr)
	return nil
}

// Login stores the returned credential then resolves the profile.
func (g *Gate) Login(ctx context.Context, form user.LoginForm) error {
	token, err := g.api.Login(ctx, form)
	if err != nil {
		return err
	}
	if err := g.store.SetToken(ctx, token); err != nil {
		return errors.Wrap(err, "storing credential")
	}

	usr, err := g.profile(ctx)
	if err != nil {
		if clrErr := g.clear(ctx); clrErr != nil {
			g.logger.Error("clearing credential", clrErr)
		}
		return err
	}
	g.setAuthenticated(usr)
	g.logger.Info("logged in", usr)
	return nil
}

// profile fetches the current user; a profile without an id counts as a failed fetch.
func (g *Gate) profile(ctx context.Context) (user.User, error) {
	usr, err := g.api.Me(ctx)
	if err != nil {
		return user.User{}, err
	}
	if usr.ID == 0 {
		return user.User{}, ErrNoProfile
	}
	return usr, nil
}

// Register creates a student account. The gate stays anonymous: the user logs in next.
func (g *Gate) Register(ctx context.Context, form user.RegisterForm) (int, error) {
	return g.api.Register(ctx, form)
}

func (g *Gate) Logout(ctx context.Context) error {
	return g.clear(ctx)
}

// Expire drops the credential after the server rejected it (401).
func (g *Gate) Expire(ctx context.Context) {
	if err := g.clear(ctx); err != nil {
		g.logger.Error("clearing expired credential", err)
		return
	}
	g.logger.Info("credential rejected by server")
}

func (g *Gate) clear(ctx context.Context) error {
	g.setAnonymous()
	return errors.Wrap(g.store.ClearToken(ctx), "clearing credential")
}

// tokenExpired reads the `exp` claim without verifying the signature, which only the server can do.
// Tokens that are not JWTs are left for the server to judge.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return false
	}
	return !claims.VerifyExpiresAt(now.Unix(), false)
}
