package course

import (
	"sort"
	"strings"
	"time"

	"github.com/trezcool/masomo-lms/core"
)

type Course struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	TeacherID   int       `json:"teacher_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Enrollment links a student to a course.
type Enrollment struct {
	CourseID  int `json:"course_id"`
	StudentID int `json:"student_id"`
}

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
)

var AllStatuses = []AttendanceStatus{StatusPresent, StatusAbsent, StatusLate}

func (s AttendanceStatus) Valid() bool {
	for _, status := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type AttendanceRecord struct {
	ID         int              `json:"id"`
	CourseID   int              `json:"course_id"`
	StudentID  int              `json:"student_id"`
	LessonDate time.Time        `json:"lesson_date"`
	Status     AttendanceStatus `json:"status"`
	Note       string           `json:"note"`
}

// QueryFilter applies AND on its set fields. Search matches Course.Title, ignoring case.
type QueryFilter struct {
	Search    string
	TeacherID int
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.TeacherID == 0
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// Filter returns the courses matching filter, keeping their order.
func Filter(courses []Course, filter QueryFilter) []Course {
	filter.Clean()
	if filter.IsEmpty() {
		return courses
	}
	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		if filter.Search != "" && !core.ContainsFold(c.Title, filter.Search) {
			continue
		}
		if filter.TeacherID != 0 && c.TeacherID != filter.TeacherID {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Sort orders courses in place. Known fields: id, title, teacher_id, created_at.
func Sort(courses []Course, orderings []core.Ordering) {
	if len(orderings) == 0 {
		return
	}
	sort.SliceStable(courses, func(i, j int) bool {
		a, b := courses[i], courses[j]
		return core.Compare(orderings, func(field string) (int, bool) {
			switch field {
			case "id":
				return a.ID - b.ID, true
			case "title":
				return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)), true
			case "teacher_id":
				return a.TeacherID - b.TeacherID, true
			case "created_at":
				return compareTimes(a.CreatedAt, b.CreatedAt), true
			}
			return 0, false
		}) < 0
	})
}

// SortAttendance orders records newest lesson first, then by student and course id.
func SortAttendance(records []AttendanceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if c := compareTimes(a.LessonDate, b.LessonDate); c != 0 {
			return c > 0
		}
		if a.StudentID != b.StudentID {
			return a.StudentID < b.StudentID
		}
		return a.CourseID > b.CourseID
	})
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
