package course

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
)

const LessonDateLayout = "2006-01-02"

var (
	// ErrNoStudentSelected blocks enrollment and attendance submissions.
	ErrNoStudentSelected = errors.New("select a student first")

	statusTag  = "attstatus"
	statusText = "status must be one of present, absent or late"
)

func init() {
	_ = core.Validate.RegisterValidation(statusTag, func(fl validator.FieldLevel) bool {
		status, ok := fl.Field().Interface().(AttendanceStatus)
		return ok && status.Valid()
	})
	core.RegisterCustomTranslation(statusTag, statusText)
}

// NewCourse is the body of POST /courses. The server assigns the caller when TeacherID is 0.
type NewCourse struct {
	Title     string `json:"title" validate:"required"`
	TeacherID int    `json:"teacher_id,omitempty" validate:"min=0"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	return core.ValidateStruct(nc)
}

// EnrollForm is the body of POST /courses/{id}/enroll.
type EnrollForm struct {
	StudentID int `json:"student_id" validate:"selected"`
}

func (ef *EnrollForm) Validate() error {
	return core.ValidateStruct(ef, ErrNoStudentSelected)
}

// MarkAttendance is the body of POST /courses/{id}/attendance.
type MarkAttendance struct {
	StudentID  int              `json:"student_id" validate:"selected"`
	LessonDate time.Time        `json:"lesson_date" validate:"required"`
	Status     AttendanceStatus `json:"status" validate:"required,attstatus"`
	Note       string           `json:"note"`
}

// NewMarkAttendance returns a form for today, marked present.
func NewMarkAttendance(now time.Time) MarkAttendance {
	return MarkAttendance{
		LessonDate: LessonDate(now),
		Status:     StatusPresent,
	}
}

func (ma *MarkAttendance) Validate() error {
	ma.Note = core.CleanString(ma.Note)
	ma.Status = AttendanceStatus(core.CleanString(string(ma.Status), true /* lower */))
	if !ma.LessonDate.IsZero() {
		ma.LessonDate = LessonDate(ma.LessonDate)
	}
	if ma.StudentID == 0 {
		return core.ValidateStruct(ma, ErrNoStudentSelected)
	}
	return core.ValidateStruct(ma)
}

// LessonDate truncates t to midnight UTC of its calendar day.
func LessonDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseLessonDate parses a YYYY-MM-DD date as midnight UTC.
func ParseLessonDate(s string) (time.Time, error) {
	t, err := time.Parse(LessonDateLayout, core.CleanString(s))
	if err != nil {
		return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: "lesson_date", Error: "date must be formatted as YYYY-MM-DD"})
	}
	return t, nil
}
