package inmemdb

import (
	"sort"
	"time"

	"github.com/trezcool/masomo-lms/core/course"
)

type courseRepository struct {
	db  *courseTable
	now func() time.Time
}

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course, now: db.now}
}

// query returns the courses matching keep, newest first.
func (repo *courseRepository) query(keep func(c course.Course) bool) []course.Course {
	courses := make([]course.Course, 0, len(repo.db.courses))
	for _, c := range repo.db.courses {
		if keep == nil || keep(*c) {
			courses = append(courses, *c)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID > courses[j].ID })
	return courses
}

func (repo *courseRepository) CreateCourse(c course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.coursePK++
	c.ID = repo.db.coursePK
	c.CreatedAt = repo.now().UTC()
	repo.db.courses[c.ID] = &c
	return c, nil
}

func (repo *courseRepository) GetCourseByID(id int) (course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.courses[id]; ok {
		return *c, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(nil), nil
}

func (repo *courseRepository) QueryCoursesByTeacher(teacherID int) ([]course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(func(c course.Course) bool { return c.TeacherID == teacherID }), nil
}

func (repo *courseRepository) QueryCoursesByStudent(studentID int) ([]course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(func(c course.Course) bool {
		_, ok := repo.db.enrollments[course.Enrollment{CourseID: c.ID, StudentID: studentID}]
		return ok
	}), nil
}

func (repo *courseRepository) Enroll(e course.Enrollment) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.courses[e.CourseID]; !ok {
		return course.ErrNotFound
	}
	if _, ok := repo.db.enrollments[e]; !ok {
		repo.db.enrollments[e] = repo.now()
	}
	return nil
}

func (repo *courseRepository) QueryEnrolledStudentIDs(courseID int) ([]int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if _, ok := repo.db.courses[courseID]; !ok {
		return nil, course.ErrNotFound
	}
	ids := make([]int, 0)
	for e := range repo.db.enrollments {
		if e.CourseID == courseID {
			ids = append(ids, e.StudentID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}
