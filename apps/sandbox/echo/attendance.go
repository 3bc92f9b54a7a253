package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
)

type attendanceApi struct {
	repo course.Repository
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, repo course.Repository) {
	api := attendanceApi{repo: repo}
	staff := requireRoles(user.RoleAdmin, user.RoleTeacher)

	g.GET("/my/attendance", api.mine, jwt, requireRoles(user.AllRoles...))
	g.POST("/courses/:id/attendance", api.mark, jwt, staff)
	g.GET("/courses/:id/attendance", api.listByCourse, jwt, staff)
}

func (api *attendanceApi) mark(ctx echo.Context) error {
	courseID, err := pathID(ctx, "id", errInvalidCourseID)
	if err != nil {
		return err
	}
	var data course.MarkAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAttendance")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	_, err = api.repo.MarkAttendance(course.AttendanceRecord{
		CourseID:   courseID,
		StudentID:  data.StudentID,
		LessonDate: data.LessonDate,
		Status:     data.Status,
		Note:       data.Note,
	})
	if err != nil {
		if err == course.ErrNotFound {
			return errCourseNotFound
		}
		return errors.Wrap(err, "marking attendance")
	}
	return status(ctx, "saved")
}

func (api *attendanceApi) listByCourse(ctx echo.Context) error {
	courseID, err := pathID(ctx, "id", errInvalidCourseID)
	if err != nil {
		return err
	}
	records, err := api.repo.QueryAttendanceByCourse(courseID)
	if err != nil {
		return errors.Wrap(err, "querying course attendance")
	}
	return list(ctx, records, len(records))
}

// mine lists the caller's records, optionally for the course_id query param.
func (api *attendanceApi) mine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	var courseID int
	if s := ctx.QueryParam("course_id"); s != "" {
		if courseID, err = strconv.Atoi(s); err != nil || courseID <= 0 {
			return errInvalidCourseIDParam
		}
	}

	records, err := api.repo.QueryAttendanceByStudent(claims.UserID, courseID)
	if err != nil {
		return errors.Wrap(err, "querying my attendance")
	}
	return list(ctx, records, len(records))
}
