package course

import "errors"

var ErrNotFound = errors.New("course not found")

// Repository is the course, enrollment and attendance storage of the sandbox server.
// Listing methods return the newest entries first.
type Repository interface {
	CreateCourse(c Course) (Course, error)
	GetCourseByID(id int) (Course, error)
	QueryAllCourses() ([]Course, error)
	QueryCoursesByTeacher(teacherID int) ([]Course, error)
	QueryCoursesByStudent(studentID int) ([]Course, error)

	// Enroll is idempotent.
	Enroll(e Enrollment) error
	QueryEnrolledStudentIDs(courseID int) ([]int, error)

	// MarkAttendance replaces the record of the same course, student and lesson date.
	MarkAttendance(rec AttendanceRecord) (AttendanceRecord, error)
	QueryAttendanceByCourse(courseID int) ([]AttendanceRecord, error)
	// QueryAttendanceByStudent lists every course when courseID is 0.
	QueryAttendanceByStudent(studentID, courseID int) ([]AttendanceRecord, error)
}
