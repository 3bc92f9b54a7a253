package session_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/session"
	"github.com/trezcool/masomo-lms/core/user"
	"github.com/trezcool/masomo-lms/storage/credential"
)

var teacher = user.User{ID: 2, Email: "teacher@aitu.edu.kz", FullName: "Teacher", Role: user.RoleTeacher, RoleID: user.RoleIDTeacher}

type fakeAPI struct {
	token    string
	loginErr error
	meErr    error
	usr      user.User

	mu      sync.Mutex
	meCalls int
}

func (api *fakeAPI) Login(context.Context, user.LoginForm) (string, error) {
	return api.token, api.loginErr
}

func (api *fakeAPI) Register(context.Context, user.RegisterForm) (int, error) {
	return 9, nil
}

func (api *fakeAPI) Me(context.Context) (user.User, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.meCalls++
	return api.usr, api.meErr
}

func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 2,
		"role":    "teacher",
		"exp":     exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func storedToken(t *testing.T, store session.CredentialStore) string {
	t.Helper()
	token, err := store.Token(context.Background())
	require.NoError(t, err)
	return token
}

func TestGate_Check(t *testing.T) {
	ctx := context.Background()
	valid := signToken(t, time.Now().Add(time.Hour))

	tests := []struct {
		name      string
		stored    string
		api       *fakeAPI
		wantState session.State
		wantToken string
		wantMe    int
	}{
		{
			name:      "no credential",
			api:       &fakeAPI{usr: teacher},
			wantState: session.StateAnonymous,
		},
		{
			name:      "valid credential",
			stored:    valid,
			api:       &fakeAPI{usr: teacher},
			wantState: session.StateAuthenticated,
			wantToken: valid,
			wantMe:    1,
		},
		{
			name:      "profile fetch fails",
			stored:    valid,
			api:       &fakeAPI{meErr: core.NewRequestError(http.StatusUnauthorized, "invalid token")},
			wantState: session.StateAnonymous,
			wantMe:    1,
		},
		{
			name:      "server unreachable",
			stored:    valid,
			api:       &fakeAPI{meErr: core.NewRequestError(0, "connection refused")},
			wantState: session.StateAnonymous,
			wantMe:    1,
		},
		{
			name:      "empty profile",
			stored:    valid,
			api:       &fakeAPI{},
			wantState: session.StateAnonymous,
			wantMe:    1,
		},
		{
			name:      "profile without id",
			stored:    valid,
			api:       &fakeAPI{usr: user.User{Email: teacher.Email, Role: user.RoleTeacher}},
			wantState: session.StateAnonymous,
			wantMe:    1,
		},
		{
			name:      "expired credential",
			stored:    signToken(t, time.Now().Add(-time.Minute)),
			api:       &fakeAPI{usr: teacher},
			wantState: session.StateAnonymous,
		},
		{
			name:      "opaque credential",
			stored:    "not-a-jwt",
			api:       &fakeAPI{usr: teacher},
			wantState: session.StateAuthenticated,
			wantToken: "not-a-jwt",
			wantMe:    1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := credential.NewInmemStore()
			if tc.stored != "" {
				require.NoError(t, store.SetToken(ctx, tc.stored))
			}
			gate := session.NewGate(tc.api, store, nil)
			assert.Equal(t, session.StateLoading, gate.State())

			require.NoError(t, gate.Check(ctx))
			assert.Equal(t, tc.wantState, gate.State())
			assert.Equal(t, tc.wantToken, storedToken(t, store))
			assert.Equal(t, tc.wantMe, tc.api.meCalls)

			usr, ok := gate.User()
			assert.Equal(t, tc.wantState == session.StateAuthenticated, ok)
			if ok {
				assert.Equal(t, teacher, usr)
			}
		})
	}
}

func TestGate_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		store := credential.NewInmemStore()
		gate := session.NewGate(&fakeAPI{token: "tok", usr: teacher}, store, nil)
		require.NoError(t, gate.Check(ctx))

		require.NoError(t, gate.Login(ctx, user.LoginForm{Email: teacher.Email, Password: "teacher123"}))
		assert.Equal(t, session.StateAuthenticated, gate.State())
		assert.Equal(t, "tok", storedToken(t, store))
		usr, _ := gate.User()
		assert.True(t, usr.IsTeacher())
	})

	t.Run("bad credentials", func(t *testing.T) {
		store := credential.NewInmemStore()
		loginErr := core.NewRequestError(http.StatusUnauthorized, "invalid credentials")
		gate := session.NewGate(&fakeAPI{loginErr: loginErr}, store, nil)
		require.NoError(t, gate.Check(ctx))

		err := gate.Login(ctx, user.LoginForm{Email: teacher.Email, Password: "nope"})
		assert.Equal(t, loginErr, err)
		assert.Equal(t, session.StateAnonymous, gate.State())
		assert.Empty(t, storedToken(t, store))
	})

	t.Run("empty profile after login", func(t *testing.T) {
		store := credential.NewInmemStore()
		gate := session.NewGate(&fakeAPI{token: "tok"}, store, nil)

		err := gate.Login(ctx, user.LoginForm{Email: teacher.Email, Password: "teacher123"})
		assert.Equal(t, session.ErrNoProfile, err)
		assert.Equal(t, session.StateAnonymous, gate.State())
		assert.Empty(t, storedToken(t, store))
	})

	t.Run("profile fails after login", func(t *testing.T) {
		store := credential.NewInmemStore()
		gate := session.NewGate(&fakeAPI{token: "tok", meErr: core.NewRequestError(http.StatusInternalServerError, "")}, store, nil)

		err := gate.Login(ctx, user.LoginForm{Email: teacher.Email, Password: "teacher123"})
		require.Error(t, err)
		assert.Equal(t, session.StateAnonymous, gate.State())
		assert.Empty(t, storedToken(t, store))
	})
}

func TestGate_LogoutAndExpire(t *testing.T) {
	ctx := context.Background()

	for name, end := range map[string]func(t *testing.T, g *session.Gate){
		"logout": func(t *testing.T, g *session.Gate) { require.NoError(t, g.Logout(ctx)) },
		"expire": func(_ *testing.T, g *session.Gate) { g.Expire(ctx) },
	} {
		t.Run(name, func(t *testing.T) {
			store := credential.NewInmemStore()
			gate := session.NewGate(&fakeAPI{token: "tok", usr: teacher}, store, nil)
			require.NoError(t, gate.Login(ctx, user.LoginForm{Email: teacher.Email, Password: "teacher123"}))
			require.Equal(t, session.StateAuthenticated, gate.State())

			end(t, gate)
			assert.Equal(t, session.StateAnonymous, gate.State())
			assert.Empty(t, storedToken(t, store))
			_, ok := gate.User()
			assert.False(t, ok)
		})
	}
}

func TestGate_Register(t *testing.T) {
	store := credential.NewInmemStore()
	gate := session.NewGate(&fakeAPI{usr: teacher}, store, nil)
	require.NoError(t, gate.Check(context.Background()))

	id, err := gate.Register(context.Background(), user.RegisterForm{FullName: "New", Email: "new@aitu.edu.kz", Password: "longenough1"})
	require.NoError(t, err)
	assert.Equal(t, 9, id)
	assert.Equal(t, session.StateAnonymous, gate.State())
	assert.Empty(t, storedToken(t, store))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "loading", session.StateLoading.String())
	assert.Equal(t, "authenticated", session.StateAuthenticated.String())
	assert.Equal(t, "anonymous", session.StateAnonymous.String())
}
