package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core/user"
)

type userApi struct {
	repo user.Repository
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, repo user.Repository) {
	api := userApi{repo: repo}
	admin := requireRoles(user.RoleAdmin)

	g.GET("/me", api.me, jwt)
	g.GET("/roles", api.roles, jwt, admin)

	ug := g.Group("/users", jwt, admin)
	ug.GET("", api.list)
	ug.POST("", api.create)
	ug.PATCH("/:id/role", api.changeRole)
}

func (api *userApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	usr, err := api.repo.GetUserByID(claims.UserID)
	if err != nil {
		if err == user.ErrNotFound {
			return errInvalidToken
		}
		return errors.Wrap(err, "getting user")
	}
	usr.Role = usr.EffectiveRole()
	return ok(ctx, usr)
}

func (api *userApi) roles(ctx echo.Context) error {
	roles := make([]user.RoleInfo, 0, len(user.AllRoles))
	for _, role := range user.AllRoles {
		roles = append(roles, user.RoleInfo{ID: role.ID(), Name: string(role)})
	}
	return list(ctx, roles, len(roles))
}

// list entries carry role_id only.
func (api *userApi) list(ctx echo.Context) error {
	users, err := api.repo.QueryAllUsers()
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	for i := range users {
		users[i].Role = ""
	}
	return list(ctx, users, len(users))
}

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.repo.CreateUser(user.User{
		FullName: data.FullName,
		Email:    data.Email,
		RoleID:   data.RoleID,
	}, data.Password)
	if err != nil {
		if err == user.ErrEmailExists {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return errors.Wrap(err, "creating user")
	}
	return created(ctx, usr.ID)
}

func (api *userApi) changeRole(ctx echo.Context) error {
	id, err := pathID(ctx, "id", errInvalidUserID)
	if err != nil {
		return err
	}
	var data user.ChangeRole
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangeRole")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if _, err := api.repo.SetUserRole(id, data.Role); err != nil {
		if err == user.ErrNotFound {
			return errUserNotFound
		}
		return errors.Wrap(err, "setting user role")
	}
	return status(ctx, "updated")
}
