package user

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with that email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Repository is the user storage of the sandbox server.
type Repository interface {
	CreateUser(usr User, password string) (User, error)
	Authenticate(email, password string) (User, error)
	GetUserByID(id int) (User, error)
	QueryAllUsers() ([]User, error)
	SetUserRole(id int, role Role) (User, error)
}
