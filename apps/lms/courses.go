package main

import (
	"context"
	"strconv"

	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/dashboard"
	"github.com/trezcool/masomo-lms/core/user"
)

func (cli *commandLine) courses(ctx context.Context, usr user.User, args []string) error {
	sub, args := subcommand(args)
	switch sub {
	case "list":
		return cli.open(ctx, usr, append([]string{string(dashboard.PageCourses)}, args...))
	case "create":
		return cli.createCourse(ctx, args)
	default:
		cli.printf("Usage: lms courses list|create [flags]")
		return errHelp
	}
}

func (cli *commandLine) createCourse(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("courses create", "courses create -title TITLE [-teacher ID]")
	title := fs.String("title", "", "The course title.")
	teacherID := fs.Int("teacher", 0, "The teacher's user ID. Defaults to you.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	id, err := cli.client.CreateCourse(ctx, course.NewCourse{Title: *title, TeacherID: *teacherID})
	if err != nil {
		return err
	}
	cli.printf("Course created (#%d)", id)
	return nil
}

func (cli *commandLine) enroll(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("enroll", "enroll -course ID -student ID")
	courseID := fs.Int("course", 0, "The course ID.")
	studentID := fs.Int("student", 0, "The student's user ID (see `lms students -available`).")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := cli.client.Enroll(ctx, *courseID, course.EnrollForm{StudentID: *studentID}); err != nil {
		return err
	}
	cli.printf("Student enrolled successfully!")
	return nil
}

func (cli *commandLine) students(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("students", "students -course ID [-available]")
	courseID := fs.Int("course", 0, "The course ID.")
	available := fs.Bool("available", false, "List the students not enrolled yet.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	list, title, empty := cli.client.StudentsInCourse, "Enrolled Students", "No students enrolled yet"
	if *available {
		list, title, empty = cli.client.AvailableStudents, "Available Students", "No students to enroll"
	}
	students, err := list(ctx, *courseID)
	if err != nil {
		return err
	}

	sec := dashboard.Section{Columns: []string{"ID", "Name", "Email"}, Empty: empty}
	for _, s := range students {
		sec.Rows = append(sec.Rows, []string{strconv.Itoa(s.ID), s.FullName, s.Email})
	}
	return cli.render(&dashboard.View{Title: title, Sections: []dashboard.Section{sec}})
}
