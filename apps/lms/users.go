package main

import (
	"context"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/dashboard"
	"github.com/trezcool/masomo-lms/core/user"
	"github.com/trezcool/masomo-lms/services/spreadsheet"
)

func (cli *commandLine) users(ctx context.Context, args []string) error {
	sub, args := subcommand(args)
	switch sub {
	case "list":
		return cli.listUsers(ctx, args)
	case "create":
		return cli.createUser(ctx, args)
	case "role":
		return cli.changeRole(ctx, args)
	case "import":
		return cli.importUsers(ctx, args)
	default:
		cli.printf("Usage: lms users list|create|role|import [flags]")
		return errHelp
	}
}

func (cli *commandLine) listUsers(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("users list", "users list [-search S] [-order F]")
	search := fs.String("search", "", "Match names and emails.")
	order := fs.String("order", "", `e.g. "role,full_name".`)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	users, err := cli.client.Users(ctx)
	if err != nil {
		return err
	}
	users = user.Filter(users, user.QueryFilter{Search: *search})
	user.Sort(users, core.ParseOrdering(*order))

	sec := dashboard.Section{Columns: []string{"ID", "Name", "Email", "Role"}, Empty: "No users"}
	for _, u := range users {
		sec.Rows = append(sec.Rows, []string{strconv.Itoa(u.ID), u.FullName, u.Email, string(u.EffectiveRole())})
	}
	return cli.render(&dashboard.View{Title: "Users", Sections: []dashboard.Section{sec}})
}

func (cli *commandLine) createUser(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("users create", "users create -name NAME -email EMAIL -role ROLE")
	name := fs.String("name", "", "The user's full name.")
	email := fs.String("email", "", "The user's email. The password will be prompted next.")
	roleName := fs.String("role", string(user.RoleStudent), "admin, teacher or student (or 1, 2, 3).")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	role, ok := user.ParseRole(*roleName)
	if !ok {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "role must be one of admin, teacher or student"})
	}
	pwd, err := cli.readPassword("Enter password")
	if err != nil {
		return err
	}

	id, err := cli.client.CreateUser(ctx, user.NewUser{FullName: *name, Email: *email, Password: pwd, RoleID: role.ID()})
	if err != nil {
		return err
	}
	cli.printf("User created (#%d)", id)
	return nil
}

func (cli *commandLine) changeRole(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("users role", "users role -id ID -role ROLE")
	id := fs.Int("id", 0, "The user ID.")
	role := fs.String("role", "", "admin, teacher or student.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := cli.client.UpdateUserRole(ctx, *id, user.ChangeRole{Role: user.Role(*role)}); err != nil {
		return err
	}
	cli.printf("Role updated")
	return nil
}

// importUsers creates one account per row; a failing row does not stop the others.
func (cli *commandLine) importUsers(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("users import", "users import -file FILE.xlsx")
	path := fs.String("file", "", "The workbook: full name, email, password and role in columns A to D.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *path == "" {
		fs.Usage()
		return errHelp
	}

	f, err := os.Open(*path)
	if err != nil {
		return errors.Wrap(err, "opening import file")
	}
	defer f.Close()

	imp, err := spreadsheet.ReadNewUsers(f)
	if err != nil {
		return err
	}

	var created int
	for _, nu := range imp.Users {
		if _, err := cli.client.CreateUser(ctx, nu); err != nil {
			cli.printf("%s: %v", nu.Email, err)
			continue
		}
		created++
	}
	for _, row := range imp.Skipped {
		cli.printf("row %d skipped", row)
	}
	cli.printf("Imported %d of %d users", created, len(imp.Users)+len(imp.Skipped))
	if created < len(imp.Users) {
		return errors.New("some users could not be created")
	}
	return nil
}

func (cli *commandLine) roles(ctx context.Context) error {
	roles, err := cli.client.Roles(ctx)
	if err != nil {
		return err
	}
	sec := dashboard.Section{Columns: []string{"ID", "Name"}, Empty: "No roles"}
	for _, r := range roles {
		sec.Rows = append(sec.Rows, []string{strconv.Itoa(r.ID), r.Name})
	}
	return cli.render(&dashboard.View{Title: "Roles", Sections: []dashboard.Section{sec}})
}
