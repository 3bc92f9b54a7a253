package dashboard

import (
	"context"
	"strconv"
	"time"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
)

// Blank is shown in place of a missing value.
const Blank = "—"

const (
	statusActive = "Active"
	dateLayout   = course.LessonDateLayout
)

// Source is the part of the API client the pages read from.
type Source interface {
	Courses(ctx context.Context) ([]course.Course, error)
	MyCourses(ctx context.Context) ([]course.Course, error)
	CourseAttendance(ctx context.Context, courseID int) ([]course.AttendanceRecord, error)
	MyAttendance(ctx context.Context, courseID int) ([]course.AttendanceRecord, error)
	Users(ctx context.Context) ([]user.User, error)
}

// Options carry the user's selections on a page.
type Options struct {
	CourseID int    // attendance pages: the selected course
	Search   string // list pages
	Order    string // list pages, e.g. "-created_at,title"
	Now      time.Time
}

type pageFunc func(ctx context.Context, src Source, usr user.User, opts Options) (*View, error)

var pages = map[user.Role]map[Page]pageFunc{
	user.RoleStudent: {
		PageHome:       studentHome,
		PageCourses:    studentCourses,
		PageAttendance: studentAttendance,
		PageProfile:    profile,
	},
	user.RoleTeacher: {
		PageHome:       teacherHome,
		PageCourses:    teacherCourses,
		PageAttendance: teacherAttendance,
		PageProfile:    profile,
	},
	user.RoleAdmin: {
		PageHome:       adminHome,
		PageUsers:      adminUsers,
		PageCourses:    adminCourses,
		PageAttendance: adminAttendance,
		PageProfile:    profile,
	},
}

// Open builds page for usr. Pages outside the user's navigation resolve to home.
func Open(ctx context.Context, src Source, usr user.User, page Page, opts Options) (*View, error) {
	role := navRole(usr.EffectiveRole())
	page = Resolve(role, page)
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	v, err := pages[role][page](ctx, src, usr, opts)
	if err != nil {
		return nil, err
	}
	v.Page = page
	return v, nil
}

// Shared

func profile(_ context.Context, _ Source, usr user.User, _ Options) (*View, error) {
	return &View{
		Title: "My Profile",
		Stats: []Stat{
			{"Name", usr.FullName},
			{"Role", string(usr.EffectiveRole())},
			{"Email", usr.Email},
			{"User ID", strconv.Itoa(usr.ID)},
		},
	}, nil
}

func welcome(usr user.User) string {
	return "Welcome back, " + usr.FullName + "!"
}

func query(courses []course.Course, opts Options) []course.Course {
	courses = course.Filter(courses, course.QueryFilter{Search: opts.Search})
	course.Sort(courses, core.ParseOrdering(opts.Order))
	return courses
}

func courseCards(title string, courses []course.Course, empty string) Section {
	sec := Section{Title: title, Columns: []string{"ID", "Title", "Teacher ID"}, Empty: empty}
	for _, c := range courses {
		sec.Rows = append(sec.Rows, []string{strconv.Itoa(c.ID), c.Title, strconv.Itoa(c.TeacherID)})
	}
	return sec
}

func courseSidebar(courses []course.Course, selected int) Section {
	sec := Section{Title: "Courses", Columns: []string{"", "ID", "Title"}, Empty: "No courses"}
	for _, c := range courses {
		mark := ""
		if c.ID == selected {
			mark = ">"
		}
		sec.Rows = append(sec.Rows, []string{mark, strconv.Itoa(c.ID), c.Title})
	}
	return sec
}

// attendanceTable lists records, with a student column when showStudent.
func attendanceTable(records []course.AttendanceRecord, showStudent bool, empty string) Section {
	cols := []string{"Date", "Status"}
	if showStudent {
		cols = append(cols, "Student ID")
	}
	cols = append(cols, "Note")

	sec := Section{Title: "Attendance", Columns: cols, Empty: empty}
	for _, rec := range records {
		row := []string{rec.LessonDate.Format(dateLayout), string(rec.Status)}
		if showStudent {
			row = append(row, "#"+strconv.Itoa(rec.StudentID))
		}
		note := rec.Note
		if note == "" {
			note = Blank
		}
		sec.Rows = append(sec.Rows, append(row, note))
	}
	return sec
}

// attendancePage shows the course sidebar and, once a course is selected, its records.
// A failed records fetch shows as an empty list.
func attendancePage(
	ctx context.Context, title string, courses []course.Course, opts Options,
	fetch func(ctx context.Context, courseID int) ([]course.AttendanceRecord, error),
	showStudent bool, selectText, emptyText string,
) *View {
	v := &View{Title: title, Sections: []Section{courseSidebar(courses, opts.CourseID)}}
	if opts.CourseID <= 0 {
		v.Sections = append(v.Sections, Section{Title: "Attendance", Empty: selectText})
		return v
	}
	records, err := fetch(ctx, opts.CourseID)
	if err != nil {
		records = nil
	}
	v.Sections = append(v.Sections, attendanceTable(records, showStudent, emptyText))
	return v
}

// Student

func studentHome(ctx context.Context, src Source, usr user.User, opts Options) (*View, error) {
	mine, err := src.MyCourses(ctx)
	if err != nil {
		return nil, err
	}
	all, err := src.Courses(ctx)
	if err != nil {
		return nil, err
	}
	return &View{
		Title:    welcome(usr),
		Subtitle: "Here's your learning overview",
		Stats: []Stat{
			{"Enrolled Courses", strconv.Itoa(len(mine))},
			{"Total Courses", strconv.Itoa(len(all))},
			{"Today", opts.Now.Weekday().String()},
			{"Status", statusActive},
		},
		Sections: []Section{courseCards("My Courses", mine, "No courses enrolled yet")},
	}, nil
}

func studentCourses(ctx context.Context, src Source, _ user.User, opts Options) (*View, error) {
	courses, err := src.Courses(ctx)
	if err != nil {
		return nil, err
	}
	return &View{
		Title:    "All Courses",
		Sections: []Section{courseCards("", query(courses, opts), "No courses available")},
	}, nil
}

func studentAttendance(ctx context.Context, src Source, _ user.User, opts Options) (*View, error) {
	courses, err := src.MyCourses(ctx)
	if err != nil {
		return nil, err
	}
	return attendancePage(ctx, "My Attendance", courses, opts, src.MyAttendance, false,
		"Select a course to view attendance", "No attendance records yet"), nil
}

// Teacher

func teacherHome(ctx context.Context, src Source, usr user.User, opts Options) (*View, error) {
	courses, err := src.MyCourses(ctx)
	if err != nil {
		return nil, err
	}
	return &View{
		Title:    welcome(usr),
		Subtitle: "Manage your courses and track student progress",
		Stats: []Stat{
			{"My Courses", strconv.Itoa(len(courses))},
			{"Today", opts.Now.Weekday().String()},
			{"Status", statusActive},
		},
		Sections: []Section{courseCards("My Courses", courses, "No courses yet — create one in Courses")},
	}, nil
}

func teacherCourses(ctx context.Context, src Source, _ user.User, opts Options) (*View, error) {
	courses, err := src.MyCourses(ctx)
	if err != nil {
		return nil, err
	}
	return &View{
		Title:    "My Courses",
		Sections: []Section{courseCards("", query(courses, opts), "No courses yet")},
	}, nil
}

func teacherAttendance(ctx context.Context, src Source, _ user.User, opts Options) (*View, error) {
	courses, err := src.MyCourses(ctx)
	if err != nil {
		return nil, err
	}
	return attendancePage(ctx, "Attendance Records", courses, opts, src.CourseAttendance, true,
		"Select a course", "No records yet"), nil
}

// Admin

func adminHome(ctx context.Context, src Source, usr user.User, _ Options) (*View, error) {
	users, err := src.Users(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := src.Courses(ctx)
	if err != nil {
		return nil, err
	}
	counts := user.CountByRole(users)
	return &View{
		Title:    welcome(usr),
		Subtitle: "System administration overview",
		Stats: []Stat{
			{"Total Users", strconv.Itoa(len(users))},
			{"Total Courses", strconv.Itoa(len(courses))},
			{"Admins", strconv.Itoa(counts[user.RoleAdmin])},
			{"Teachers", strconv.Itoa(counts[user.RoleTeacher])},
			{"Students", strconv.Itoa(counts[user.RoleStudent])},
		},
	}, nil
}

func adminUsers(ctx context.Context, src Source, _ user.User, opts Options) (*View, error) {
	users, err := src.Users(ctx)
	if err != nil {
		return nil, err
	}
	users = user.Filter(users, user.QueryFilter{Search: opts.Search})
	user.Sort(users, core.ParseOrdering(opts.Order))

	sec := Section{Columns: []string{"ID", "Name", "Email", "Role"}, Empty: "No users"}
	for _, u := range users {
		role := string(u.EffectiveRole())
		if role == "" {
			role = "unknown"
		}
		sec.Rows = append(sec.Rows, []string{"#" + strconv.Itoa(u.ID), u.FullName, u.Email, role})
	}
	return &View{Title: "User Management", Sections: []Section{sec}}, nil
}

func adminCourses(ctx context.Context, src Source, _ user.User, opts Options) (*View, error) {
	courses, err := src.Courses(ctx)
	if err != nil {
		return nil, err
	}
	users, err := src.Users(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName
	}

	sec := Section{Columns: []string{"ID", "Title", "Teacher", "Created"}, Empty: "No courses yet"}
	for _, c := range query(courses, opts) {
		teacher, ok := names[c.TeacherID]
		if !ok {
			teacher = "#" + strconv.Itoa(c.TeacherID)
		}
		created := Blank
		if !c.CreatedAt.IsZero() {
			created = c.CreatedAt.Format(dateLayout)
		}
		sec.Rows = append(sec.Rows, []string{"#" + strconv.Itoa(c.ID), c.Title, teacher, created})
	}
	return &View{Title: "Course Management", Sections: []Section{sec}}, nil
}

func adminAttendance(ctx context.Context, src Source, _ user.User, opts Options) (*View, error) {
	courses, err := src.Courses(ctx)
	if err != nil {
		return nil, err
	}
	return attendancePage(ctx, "Attendance Overview", courses, opts, src.CourseAttendance, true,
		"Select a course", "No records yet"), nil
}
