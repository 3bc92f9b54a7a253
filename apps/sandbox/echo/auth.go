package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core/user"
)

const contextTokenKey = "userToken"

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	UserID int       `json:"user_id"`
	Role   user.Role `json:"role"`
}

type tokenizer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func newTokenizer(secret string, ttl time.Duration) *tokenizer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &tokenizer{key: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *tokenizer) middlewareConfig() middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    t.key,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
		ErrorHandler: func(err error) error {
			if err == middleware.ErrJWTMissing {
				return errMissingToken
			}
			return errInvalidToken
		},
	}
}

func (t *tokenizer) claims(usr user.User) *Claims {
	now := t.now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(t.ttl).Unix(),
		},
		UserID: usr.ID,
		Role:   usr.EffectiveRole(),
	}
}

// GenerateToken signs the claims of usr.
func (t *tokenizer) GenerateToken(usr user.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, t.claims(usr))
	ss, err := token.SignedString(t.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errInvalidToken
}

type authApi struct {
	tokens *tokenizer
	repo   user.Repository
}

func registerAuthAPI(g *echo.Group, tokens *tokenizer, repo user.Repository) {
	api := authApi{tokens: tokens, repo: repo}

	ag := g.Group("/auth")
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
}

// register always creates a student.
func (api *authApi) register(ctx echo.Context) error {
	var data user.RegisterForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RegisterForm")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.repo.CreateUser(user.User{
		FullName: data.FullName,
		Email:    data.Email,
		RoleID:   user.RoleIDStudent,
	}, data.Password)
	if err != nil {
		if err == user.ErrEmailExists {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return errors.Wrap(err, "creating user")
	}
	return created(ctx, usr.ID)
}

func (api *authApi) login(ctx echo.Context) error {
	var data user.LoginForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginForm")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.repo.Authenticate(data.Email, data.Password)
	if err != nil {
		if err == user.ErrInvalidCredentials {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating")
	}
	token, err := api.tokens.GenerateToken(usr)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ok(ctx, user.LoginResponse{AccessToken: token})
}
