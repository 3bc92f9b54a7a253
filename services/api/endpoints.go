package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
)

// Forms are validated before anything is sent; a *core.ValidationError means no request was made.
// Server failures come back as the bare *core.RequestError so its Message can be shown as is.

func requireID(field string, id int) error {
	if id <= 0 {
		return core.NewValidationError(nil, core.FieldError{Field: field, Error: field + " must be selected"})
	}
	return nil
}

// Auth

func (c *Client) Register(ctx context.Context, form user.RegisterForm) (int, error) {
	if err := form.Validate(); err != nil {
		return 0, err
	}
	data, err := c.Request(ctx, http.MethodPost, "/auth/register", form)
	if err != nil {
		return 0, err
	}
	var created user.CreatedResponse
	if err := decode(data, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// Login returns the access token; storing it is up to the caller.
func (c *Client) Login(ctx context.Context, form user.LoginForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}
	data, err := c.Request(ctx, http.MethodPost, "/auth/login", form)
	if err != nil {
		return "", err
	}
	var resp user.LoginResponse
	if err := decode(data, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", core.NewRequestError(http.StatusOK, "login response has no access token")
	}
	return resp.AccessToken, nil
}

func (c *Client) Me(ctx context.Context) (user.User, error) {
	data, err := c.Request(ctx, http.MethodGet, "/me", nil)
	if err != nil {
		return user.User{}, err
	}
	var usr user.User
	if err := decode(data, &usr); err != nil {
		return user.User{}, err
	}
	if usr.ID == 0 {
		return user.User{}, core.NewRequestError(http.StatusOK, "profile response has no user")
	}
	return usr, nil
}

// Courses

func (c *Client) Courses(ctx context.Context) ([]course.Course, error) {
	return c.courses(ctx, "/courses")
}

// MyCourses lists the courses taught by (teacher) or enrolled in by (student) the current user.
func (c *Client) MyCourses(ctx context.Context) ([]course.Course, error) {
	return c.courses(ctx, "/my/courses")
}

func (c *Client) courses(ctx context.Context, path string) ([]course.Course, error) {
	data, err := c.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var courses []course.Course
	if err := decodeList(data, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) CreateCourse(ctx context.Context, form course.NewCourse) (int, error) {
	if err := form.Validate(); err != nil {
		return 0, err
	}
	data, err := c.Request(ctx, http.MethodPost, "/courses", form)
	if err != nil {
		return 0, err
	}
	var created user.CreatedResponse
	if err := decode(data, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *Client) Enroll(ctx context.Context, courseID int, form course.EnrollForm) error {
	if err := requireID("course_id", courseID); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}
	path := fmt.Sprintf("/courses/%d/enroll", courseID)
	if _, err := c.Request(ctx, http.MethodPost, path, form); err != nil {
		return err
	}
	return nil
}

func (c *Client) StudentsInCourse(ctx context.Context, courseID int) ([]user.User, error) {
	return c.students(ctx, courseID, "students")
}

// AvailableStudents lists the students not yet enrolled in the course.
func (c *Client) AvailableStudents(ctx context.Context, courseID int) ([]user.User, error) {
	return c.students(ctx, courseID, "available-students")
}

func (c *Client) students(ctx context.Context, courseID int, resource string) ([]user.User, error) {
	if err := requireID("course_id", courseID); err != nil {
		return nil, err
	}
	data, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/courses/%d/%s", courseID, resource), nil)
	if err != nil {
		return nil, err
	}
	var students []user.User
	if err := decodeList(data, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// Attendance

func (c *Client) MarkAttendance(ctx context.Context, courseID int, form course.MarkAttendance) error {
	if err := requireID("course_id", courseID); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}
	path := fmt.Sprintf("/courses/%d/attendance", courseID)
	if _, err := c.Request(ctx, http.MethodPost, path, form); err != nil {
		return err
	}
	return nil
}

func (c *Client) CourseAttendance(ctx context.Context, courseID int) ([]course.AttendanceRecord, error) {
	if err := requireID("course_id", courseID); err != nil {
		return nil, err
	}
	return c.attendance(ctx, fmt.Sprintf("/courses/%d/attendance", courseID))
}

// MyAttendance lists the current user's records, for one course when courseID > 0.
func (c *Client) MyAttendance(ctx context.Context, courseID int) ([]course.AttendanceRecord, error) {
	path := "/my/attendance"
	if courseID > 0 {
		path += "?" + url.Values{"course_id": {strconv.Itoa(courseID)}}.Encode()
	}
	return c.attendance(ctx, path)
}

func (c *Client) attendance(ctx context.Context, path string) ([]course.AttendanceRecord, error) {
	data, err := c.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var records []course.AttendanceRecord
	if err := decodeList(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Users (admin)

func (c *Client) Users(ctx context.Context) ([]user.User, error) {
	data, err := c.Request(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}
	var users []user.User
	if err := decodeList(data, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, form user.NewUser) (int, error) {
	if err := form.Validate(); err != nil {
		return 0, err
	}
	data, err := c.Request(ctx, http.MethodPost, "/users", form)
	if err != nil {
		return 0, err
	}
	var created user.CreatedResponse
	if err := decode(data, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *Client) UpdateUserRole(ctx context.Context, userID int, form user.ChangeRole) error {
	if err := requireID("user_id", userID); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}
	path := fmt.Sprintf("/users/%d/role", userID)
	if _, err := c.Request(ctx, http.MethodPatch, path, form); err != nil {
		return err
	}
	return nil
}

func (c *Client) Roles(ctx context.Context) ([]user.RoleInfo, error) {
	data, err := c.Request(ctx, http.MethodGet, "/roles", nil)
	if err != nil {
		return nil, err
	}
	var roles []user.RoleInfo
	if err := decodeList(data, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}
