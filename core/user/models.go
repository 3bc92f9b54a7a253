package user

import (
	"sort"
	"strings"

	"github.com/trezcool/masomo-lms/core"
)

type Role string

// Roles
const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Role IDs as stored by the server.
const (
	RoleIDAdmin   = 1
	RoleIDTeacher = 2
	RoleIDStudent = 3
)

var (
	AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent}

	roleIDs = map[Role]int{
		RoleAdmin:   RoleIDAdmin,
		RoleTeacher: RoleIDTeacher,
		RoleStudent: RoleIDStudent,
	}
)

// RoleFromID maps a server role id to its Role; ok is false for unknown ids.
func RoleFromID(id int) (Role, bool) {
	for role, rid := range roleIDs {
		if rid == id {
			return role, true
		}
	}
	return "", false
}

// ParseRole accepts a role name (any case) or a role id.
func ParseRole(s string) (Role, bool) {
	s = core.CleanString(s, true /* lower */)
	for _, role := range AllRoles {
		if string(role) == s {
			return role, true
		}
	}
	switch s {
	case "1":
		return RoleAdmin, true
	case "2":
		return RoleTeacher, true
	case "3":
		return RoleStudent, true
	}
	return "", false
}

func (r Role) ID() int { return roleIDs[r] }

func (r Role) Valid() bool {
	_, ok := roleIDs[r]
	return ok
}

// Title is the capitalized role name, e.g. "Teacher".
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// RoleInfo is an entry of GET /roles.
type RoleInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User is the profile returned by GET /me, or an entry of GET /users (which carries role_id only).
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role,omitempty"`
	RoleID   int    `json:"role_id,omitempty"`
}

// EffectiveRole returns Role, else the role matching RoleID, else "".
func (u User) EffectiveRole() Role {
	if u.Role != "" {
		return u.Role
	}
	if role, ok := RoleFromID(u.RoleID); ok {
		return role
	}
	return ""
}

func (u User) IsAdmin() bool   { return u.EffectiveRole() == RoleAdmin }
func (u User) IsTeacher() bool { return u.EffectiveRole() == RoleTeacher }
func (u User) IsStudent() bool { return u.EffectiveRole() == RoleStudent }

// Label is how a user shows up in a selection list.
func (u User) Label() string {
	return u.FullName + " (" + u.Email + ")"
}

// QueryFilter applies AND on its set fields.
// Search does a case-insensitive match on one of User.FullName or User.Email.
type QueryFilter struct {
	Search string
	Roles  []Role
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && len(qf.Roles) == 0
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

func (qf QueryFilter) match(u User) bool {
	if qf.Search != "" && !core.ContainsFold(u.FullName, qf.Search) && !core.ContainsFold(u.Email, qf.Search) {
		return false
	}
	if len(qf.Roles) == 0 {
		return true
	}
	for _, role := range qf.Roles {
		if u.EffectiveRole() == role {
			return true
		}
	}
	return false
}

// Filter returns the users matching filter, keeping their order.
func Filter(users []User, filter QueryFilter) []User {
	filter.Clean()
	if filter.IsEmpty() {
		return users
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		if filter.match(u) {
			out = append(out, u)
		}
	}
	return out
}

// Sort orders users in place. Known fields: id, full_name (or name), email, role.
func Sort(users []User, orderings []core.Ordering) {
	if len(orderings) == 0 {
		return
	}
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]
		return core.Compare(orderings, func(field string) (int, bool) {
			switch field {
			case "id":
				return a.ID - b.ID, true
			case "full_name", "name":
				return strings.Compare(strings.ToLower(a.FullName), strings.ToLower(b.FullName)), true
			case "email":
				return strings.Compare(a.Email, b.Email), true
			case "role":
				return a.EffectiveRole().ID() - b.EffectiveRole().ID(), true
			}
			return 0, false
		}) < 0
	})
}

// CountByRole counts users per effective role.
func CountByRole(users []User) map[Role]int {
	counts := make(map[Role]int, len(AllRoles))
	for _, u := range users {
		counts[u.EffectiveRole()]++
	}
	return counts
}
