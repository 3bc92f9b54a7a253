package inmemdb

import (
	"github.com/trezcool/masomo-lms/core/course"
)

func (repo *courseRepository) queryAttendance(keep func(rec course.AttendanceRecord) bool) []course.AttendanceRecord {
	records := make([]course.AttendanceRecord, 0)
	for _, rec := range repo.db.attendance {
		if keep(*rec) {
			records = append(records, *rec)
		}
	}
	course.SortAttendance(records)
	return records
}

func (repo *courseRepository) MarkAttendance(rec course.AttendanceRecord) (course.AttendanceRecord, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.courses[rec.CourseID]; !ok {
		return course.AttendanceRecord{}, course.ErrNotFound
	}
	rec.LessonDate = course.LessonDate(rec.LessonDate)
	for _, existing := range repo.db.attendance {
		if existing.CourseID == rec.CourseID && existing.StudentID == rec.StudentID &&
			existing.LessonDate.Equal(rec.LessonDate) {
			existing.Status = rec.Status
			existing.Note = rec.Note
			return *existing, nil
		}
	}

	repo.db.attPK++
	rec.ID = repo.db.attPK
	repo.db.attendance[rec.ID] = &rec
	return rec, nil
}

func (repo *courseRepository) QueryAttendanceByCourse(courseID int) ([]course.AttendanceRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryAttendance(func(rec course.AttendanceRecord) bool {
		return rec.CourseID == courseID
	}), nil
}

func (repo *courseRepository) QueryAttendanceByStudent(studentID, courseID int) ([]course.AttendanceRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryAttendance(func(rec course.AttendanceRecord) bool {
		return rec.StudentID == studentID && (courseID == 0 || rec.CourseID == courseID)
	}), nil
}
