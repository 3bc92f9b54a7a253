package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
)

// student is an entry of the course students lists.
type student struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type courseApi struct {
	repo  course.Repository
	users user.Repository
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, repo course.Repository, users user.Repository) {
	api := courseApi{repo: repo, users: users}
	staff := requireRoles(user.RoleAdmin, user.RoleTeacher)
	anyone := requireRoles(user.AllRoles...)

	g.GET("/my/courses", api.myCourses, jwt, anyone)

	cg := g.Group("/courses", jwt)
	cg.GET("", api.list, anyone)
	cg.POST("", api.create, staff)
	cg.POST("/:id/enroll", api.enroll, staff)
	cg.GET("/:id/students", api.students, staff)
	cg.GET("/:id/available-students", api.availableStudents, staff)
}

func (api *courseApi) list(ctx echo.Context) error {
	courses, err := api.repo.QueryAllCourses()
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return list(ctx, courses, len(courses))
}

// myCourses depends on the caller's role: enrolled courses for students, taught ones for teachers, all for admins.
func (api *courseApi) myCourses(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var courses []course.Course
	switch claims.Role {
	case user.RoleStudent:
		courses, err = api.repo.QueryCoursesByStudent(claims.UserID)
	case user.RoleTeacher:
		courses, err = api.repo.QueryCoursesByTeacher(claims.UserID)
	default:
		courses, err = api.repo.QueryAllCourses()
	}
	if err != nil {
		return errors.Wrap(err, "querying my courses")
	}
	return list(ctx, courses, len(courses))
}

// create assigns the caller as teacher when none is given.
func (api *courseApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if data.TeacherID == 0 {
		data.TeacherID = claims.UserID
	}

	crs, err := api.repo.CreateCourse(course.Course{Title: data.Title, TeacherID: data.TeacherID})
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return created(ctx, crs.ID)
}

func (api *courseApi) enroll(ctx echo.Context) error {
	courseID, err := pathID(ctx, "id", errInvalidCourseID)
	if err != nil {
		return err
	}
	var data course.EnrollForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollForm")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if _, err := api.users.GetUserByID(data.StudentID); err != nil {
		if err == user.ErrNotFound {
			return errUserNotFound
		}
		return errors.Wrap(err, "getting student")
	}

	if err := api.repo.Enroll(course.Enrollment{CourseID: courseID, StudentID: data.StudentID}); err != nil {
		if err == course.ErrNotFound {
			return errCourseNotFound
		}
		return errors.Wrap(err, "enrolling student")
	}
	return status(ctx, "enrolled")
}

func (api *courseApi) students(ctx echo.Context) error {
	return api.listStudents(ctx, true)
}

func (api *courseApi) availableStudents(ctx echo.Context) error {
	return api.listStudents(ctx, false)
}

// listStudents lists the students of the course when enrolled is set, the other students otherwise.
func (api *courseApi) listStudents(ctx echo.Context, enrolled bool) error {
	courseID, err := pathID(ctx, "id", errInvalidCourseID)
	if err != nil {
		return err
	}
	ids, err := api.repo.QueryEnrolledStudentIDs(courseID)
	if err != nil {
		if err == course.ErrNotFound {
			return errCourseNotFound
		}
		return errors.Wrap(err, "querying enrolled students")
	}
	inCourse := make(map[int]bool, len(ids))
	for _, id := range ids {
		inCourse[id] = true
	}

	users, err := api.users.QueryAllUsers()
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	students := make([]student, 0, len(users))
	for _, usr := range users {
		if !usr.IsStudent() || inCourse[usr.ID] != enrolled {
			continue
		}
		students = append(students, student{ID: usr.ID, FullName: usr.FullName, Email: usr.Email})
	}
	return list(ctx, students, len(students))
}
