package main

import (
	"context"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/dashboard"
	"github.com/trezcool/masomo-lms/services/spreadsheet"
)

func (cli *commandLine) attendance(ctx context.Context, args []string) error {
	sub, args := subcommand(args)
	switch sub {
	case "mark":
		return cli.markAttendance(ctx, args)
	case "list":
		return cli.listAttendance(ctx, args, false)
	case "mine":
		return cli.listAttendance(ctx, args, true)
	case "export":
		return cli.exportAttendance(ctx, args)
	default:
		cli.printf("Usage: lms attendance mark|list|mine|export [flags]")
		return errHelp
	}
}

func (cli *commandLine) markAttendance(ctx context.Context, args []string) error {
	form := course.NewMarkAttendance(cli.now())

	fs := cli.newFlagSet("attendance mark", "attendance mark -course ID -student ID [-date YYYY-MM-DD] [-status S] [-note N]")
	courseID := fs.Int("course", 0, "The course ID.")
	fs.IntVar(&form.StudentID, "student", 0, "The student's user ID (see `lms students`).")
	date := fs.String("date", form.LessonDate.Format(course.LessonDateLayout), "The lesson date.")
	status := fs.String("status", string(form.Status), "present, absent or late.")
	fs.StringVar(&form.Note, "note", "", "An optional note.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	lessonDate, err := course.ParseLessonDate(*date)
	if err != nil {
		return err
	}
	form.LessonDate = lessonDate
	form.Status = course.AttendanceStatus(*status)

	if err := cli.client.MarkAttendance(ctx, *courseID, form); err != nil {
		return err
	}
	cli.printf("Attendance marked!")
	return nil
}

// fetchAttendance reads the course's records, or the caller's own when mine is set.
func (cli *commandLine) fetchAttendance(ctx context.Context, courseID int, mine bool) ([]course.AttendanceRecord, error) {
	if mine {
		return cli.client.MyAttendance(ctx, courseID)
	}
	return cli.client.CourseAttendance(ctx, courseID)
}

func (cli *commandLine) listAttendance(ctx context.Context, args []string, mine bool) error {
	usage := "attendance list -course ID"
	if mine {
		usage = "attendance mine [-course ID]"
	}
	fs := cli.newFlagSet("attendance", usage)
	courseID := fs.Int("course", 0, "The course ID.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	records, err := cli.fetchAttendance(ctx, *courseID, mine)
	if err != nil {
		return err
	}

	cols := []string{"Date", "Status", "Course ID", "Note"}
	if !mine {
		cols[2] = "Student ID"
	}
	sec := dashboard.Section{Columns: cols, Empty: "No attendance records yet"}
	for _, rec := range records {
		ref := rec.CourseID
		if !mine {
			ref = rec.StudentID
		}
		note := rec.Note
		if note == "" {
			note = dashboard.Blank
		}
		sec.Rows = append(sec.Rows, []string{
			rec.LessonDate.Format(course.LessonDateLayout), string(rec.Status), "#" + strconv.Itoa(ref), note,
		})
	}
	return cli.render(&dashboard.View{Title: "Attendance", Sections: []dashboard.Section{sec}})
}

func (cli *commandLine) exportAttendance(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("attendance export", "attendance export -out FILE.xlsx [-course ID] [-mine]")
	out := fs.String("out", "", "The workbook to write.")
	courseID := fs.Int("course", 0, "The course ID; optional with -mine.")
	mine := fs.Bool("mine", false, "Export your own records.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *out == "" {
		fs.Usage()
		return errHelp
	}

	records, err := cli.fetchAttendance(ctx, *courseID, *mine)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	if err := spreadsheet.ExportAttendance(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing export file")
	}
	cli.printf("Exported %d records to %s", len(records), *out)
	return nil
}
