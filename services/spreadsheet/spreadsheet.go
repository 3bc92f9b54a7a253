// Package spreadsheet moves LMS data in and out of xlsx workbooks.
package spreadsheet

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
)

const attendanceSheet = "Attendance"

// AttendanceHeader is the first row written by ExportAttendance.
var AttendanceHeader = []interface{}{"Date", "Status", "Student ID", "Note"}

// ExportAttendance writes records as a single-sheet workbook.
func ExportAttendance(w io.Writer, records []course.AttendanceRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), attendanceSheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}
	if err := f.SetSheetRow(attendanceSheet, "A1", &AttendanceHeader); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			rec.LessonDate.Format(course.LessonDateLayout),
			string(rec.Status),
			rec.StudentID,
			rec.Note,
		}
		if err := f.SetSheetRow(attendanceSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing row %d", i+2)
		}
	}
	return errors.Wrap(f.Write(w), "writing workbook")
}

// Import is the outcome of ReadNewUsers. Skipped holds 1-based row numbers.
type Import struct {
	Users   []user.NewUser
	Skipped []int
}

// ReadNewUsers reads accounts from the first sheet: full name, email, password and role
// (name or id) in columns A to D. The first row is a header.
// Rows with a missing cell or an unknown role are skipped.
func ReadNewUsers(r io.Reader) (Import, error) {
	var imp Import

	f, err := excelize.OpenReader(r)
	if err != nil {
		return imp, errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return imp, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return imp, errors.Wrapf(err, "reading sheet %s", sheetName)
	}

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		cells := make([]string, 4)
		for j := range cells {
			if j < len(row) {
				cells[j] = strings.TrimSpace(row[j])
			}
		}
		if isBlank(cells) {
			continue
		}
		role, ok := user.ParseRole(cells[3])
		if !ok || cells[0] == "" || cells[1] == "" || cells[2] == "" {
			imp.Skipped = append(imp.Skipped, i+1)
			continue
		}
		imp.Users = append(imp.Users, user.NewUser{
			FullName: cells[0],
			Email:    cells[1],
			Password: cells[2],
			RoleID:   role.ID(),
		})
	}
	return imp, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
