package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/masomo-lms/core/dashboard"
	"github.com/trezcool/masomo-lms/core/session"
	"github.com/trezcool/masomo-lms/core/user"
	"github.com/trezcool/masomo-lms/services/api"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errNotLoggedIn = errors.New("not logged in")

	// commands needing an authenticated session
	protectedCommands = map[string]bool{
		"whoami": true, "nav": true, "open": true, "courses": true, "enroll": true,
		"students": true, "attendance": true, "users": true, "roles": true,
	}
)

type commandLine struct {
	client *api.Client
	gate   *session.Gate
	out    io.Writer
	now    func() time.Time
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, `Usage: lms <command> [flags]

Session:
  register -name NAME -email EMAIL           create a student account (password prompted)
  login -email EMAIL                          log in (password prompted)
  logout                                      forget the stored credential
  whoami                                      show the current profile

Pages:
  nav                                         list the pages of your role
  open [PAGE] [-course ID] [-search S] [-order F]
                                              show a page (home by default)

Courses:
  courses list [-search S] [-order F]         list the courses of your courses page
  courses create -title TITLE [-teacher ID]   create a course
  enroll -course ID -student ID               enroll a student
  students -course ID [-available]            list enrolled (or enrollable) students

Attendance:
  attendance mark -course ID -student ID [-date YYYY-MM-DD] [-status S] [-note N]
  attendance list -course ID                  records of a course
  attendance mine [-course ID]                your own records
  attendance export -out FILE.xlsx [-course ID] [-mine]

Users (admin):
  users list [-search S] [-order F]
  users create -name NAME -email EMAIL -role ROLE   (password prompted)
  users role -id ID -role ROLE
  users import -file FILE.xlsx                columns: full name, email, password, role
  roles`)
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()
	name, rest := args[1], args[2:]

	switch name {
	case "register":
		return cli.register(ctx, rest)
	case "login":
		return cli.login(ctx, rest)
	case "logout":
		return cli.logout(ctx)
	}
	if !protectedCommands[name] {
		cli.printUsage()
		return errHelp
	}

	usr, err := cli.authenticate(ctx)
	if err != nil {
		return err
	}

	switch name {
	case "whoami":
		return cli.open(ctx, usr, []string{string(dashboard.PageProfile)})
	case "nav":
		return cli.nav(usr)
	case "open":
		return cli.open(ctx, usr, rest)
	case "courses":
		return cli.courses(ctx, usr, rest)
	case "enroll":
		return cli.enroll(ctx, rest)
	case "students":
		return cli.students(ctx, rest)
	case "attendance":
		return cli.attendance(ctx, rest)
	case "users":
		return cli.users(ctx, rest)
	case "roles":
		return cli.roles(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

// authenticate resolves the stored credential; commands past the session ones need a profile.
func (cli *commandLine) authenticate(ctx context.Context) (user.User, error) {
	if err := cli.gate.Check(ctx); err != nil {
		return user.User{}, err
	}
	usr, ok := cli.gate.User()
	if !ok {
		return user.User{}, errNotLoggedIn
	}
	return usr, nil
}

func (cli *commandLine) newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	fs.Usage = func() {
		fmt.Fprintf(cli.out, "Usage: lms %s\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags parses args; the flag package already printed what went wrong.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errHelp
	}
	return nil
}

// subcommand splits `<sub> [flags]`.
func subcommand(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", args
	}
	return args[0], args[1:]
}

func (cli *commandLine) readPassword(label string) (string, error) {
	fmt.Fprintf(cli.out, "%s: ", label)
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return string(pwd), nil
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	fmt.Fprintf(cli.out, format+"\n", args...)
}

func (cli *commandLine) render(v *dashboard.View) error {
	return v.Render(cli.out)
}
