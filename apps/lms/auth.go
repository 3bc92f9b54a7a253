package main

import (
	"context"

	"github.com/trezcool/masomo-lms/core/user"
)

func (cli *commandLine) register(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("register", "register -name NAME -email EMAIL")
	name := fs.String("name", "", "Your full name.")
	email := fs.String("email", "", "Your email. The password will be prompted next.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *name == "" || *email == "" {
		fs.Usage()
		return errHelp
	}
	pwd, err := cli.readPassword("Enter password")
	if err != nil {
		return err
	}

	if _, err := cli.gate.Register(ctx, user.RegisterForm{FullName: *name, Email: *email, Password: pwd}); err != nil {
		return err
	}
	cli.printf("Registration successful! Please login.")
	return nil
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("login", "login -email EMAIL")
	email := fs.String("email", "", "Your email. The password will be prompted next.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *email == "" {
		fs.Usage()
		return errHelp
	}
	pwd, err := cli.readPassword("Enter password")
	if err != nil {
		return err
	}

	if err := cli.gate.Login(ctx, user.LoginForm{Email: *email, Password: pwd}); err != nil {
		return err
	}
	usr, _ := cli.gate.User()
	cli.printf("Logged in as %s (%s)", usr.FullName, usr.EffectiveRole())
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	if err := cli.gate.Logout(ctx); err != nil {
		return err
	}
	cli.printf("Logged out")
	return nil
}
