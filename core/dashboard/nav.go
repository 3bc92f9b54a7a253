// Package dashboard routes an authenticated user to the pages of their role.
package dashboard

import (
	"github.com/trezcool/masomo-lms/core/user"
)

type Page string

// Pages
const (
	PageHome       Page = "home"
	PageUsers      Page = "users"
	PageCourses    Page = "courses"
	PageAttendance Page = "attendance"
	PageProfile    Page = "profile"
)

type NavItem struct {
	Page  Page
	Label string
}

var nav = map[user.Role][]NavItem{
	user.RoleStudent: {
		{PageHome, "Dashboard"},
		{PageCourses, "Courses"},
		{PageAttendance, "Attendance"},
		{PageProfile, "Profile"},
	},
	user.RoleTeacher: {
		{PageHome, "Dashboard"},
		{PageCourses, "My Courses"},
		{PageAttendance, "Attendance"},
		{PageProfile, "Profile"},
	},
	user.RoleAdmin: {
		{PageHome, "Dashboard"},
		{PageUsers, "Users"},
		{PageCourses, "Courses"},
		{PageAttendance, "Attendance"},
		{PageProfile, "Profile"},
	},
}

// navRole is the role whose table applies; unknown roles get the student one.
func navRole(role user.Role) user.Role {
	if _, ok := nav[role]; ok {
		return role
	}
	return user.RoleStudent
}

// NavFor returns a copy of the navigation items of role.
func NavFor(role user.Role) []NavItem {
	items := nav[navRole(role)]
	out := make([]NavItem, len(items))
	copy(out, items)
	return out
}

// Allowed reports whether page is in the navigation of role.
func Allowed(role user.Role, page Page) bool {
	for _, item := range nav[navRole(role)] {
		if item.Page == page {
			return true
		}
	}
	return false
}

// Resolve returns page when role may reach it, else PageHome.
func Resolve(role user.Role, page Page) Page {
	if Allowed(role, page) {
		return page
	}
	return PageHome
}
