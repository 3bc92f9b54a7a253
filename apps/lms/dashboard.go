package main

import (
	"context"
	"strings"

	"github.com/trezcool/masomo-lms/core/dashboard"
	"github.com/trezcool/masomo-lms/core/user"
)

func (cli *commandLine) nav(usr user.User) error {
	sec := dashboard.Section{Columns: []string{"Page", "Label"}}
	for _, item := range dashboard.NavFor(usr.EffectiveRole()) {
		sec.Rows = append(sec.Rows, []string{string(item.Page), item.Label})
	}
	return cli.render(&dashboard.View{Title: "Navigation", Sections: []dashboard.Section{sec}})
}

// open accepts the page before or after its flags.
func (cli *commandLine) open(ctx context.Context, usr user.User, args []string) error {
	page, args := subcommand(args)

	fs := cli.newFlagSet("open", "open [PAGE] [-course ID] [-search S] [-order F]")
	courseID := fs.Int("course", 0, "The course selected on attendance pages.")
	search := fs.String("search", "", "Filter list pages.")
	order := fs.String("order", "", `Order list pages, e.g. "-created_at,title".`)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if page == "" {
		page = fs.Arg(0)
	}

	v, err := dashboard.Open(ctx, cli.client, usr, dashboard.Page(strings.ToLower(page)), dashboard.Options{
		CourseID: *courseID,
		Search:   *search,
		Order:    *order,
		Now:      cli.now(),
	})
	if err != nil {
		return err
	}
	return cli.render(v)
}
