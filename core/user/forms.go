package user

import (
	"github.com/trezcool/masomo-lms/core"
)

// LoginForm is the body of POST /auth/login.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (lf *LoginForm) Validate() error {
	lf.Email = core.CleanString(lf.Email, true /* lower */)
	return core.ValidateStruct(lf)
}

// LoginResponse is the data of POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// RegisterForm is the body of POST /auth/register; the server always creates a student.
type RegisterForm struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (rf *RegisterForm) Validate() error {
	rf.FullName = core.CleanString(rf.FullName)
	rf.Email = core.CleanString(rf.Email, true /* lower */)
	return core.ValidateStruct(rf)
}

// NewUser is the body of POST /users (admin).
type NewUser struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	RoleID   int    `json:"role_id" validate:"required,min=1,max=3"`
}

func (nu *NewUser) Validate() error {
	nu.FullName = core.CleanString(nu.FullName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return core.ValidateStruct(nu)
}

// ChangeRole is the body of PATCH /users/{id}/role.
type ChangeRole struct {
	Role Role `json:"role" validate:"required,validrole"`
}

func (cr *ChangeRole) Validate() error {
	cr.Role = Role(core.CleanString(string(cr.Role), true /* lower */))
	return core.ValidateStruct(cr)
}

// CreatedResponse is the data of the endpoints creating a record.
type CreatedResponse struct {
	ID int `json:"id"`
}
