// Command accountctl is the admin console for the account service. It talks
// to the REST API through pkg/client and keeps its session in the user's
// config directory. Role checks here only mirror the server's access policy
// to fail fast; the server remains authoritative.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirpyerre/account-service/internal/core/domain"
	"github.com/sirpyerre/account-service/pkg/client"
)

const defaultServerURL = "http://localhost:8080"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	serverURL := os.Getenv("ACCOUNTS_URL")
	if serverURL == "" {
		serverURL = defaultServerURL
	}

	sessionPath, err := client.DefaultSessionPath()
	if err != nil {
		fatal(err)
	}
	sess, err := client.NewSession(&client.FileSessionStore{Path: sessionPath})
	if err != nil {
		fatal(err)
	}

	app := &cli{
		client: client.New(serverURL),
		sess:   sess,
	}

	ctx := context.Background()
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fatal(err)
	}
}

type cli struct {
	client *client.Client
	sess   *client.Session
}

func (a *cli) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.client.Logout(a.sess)
	case "whoami":
		return a.whoami(ctx)
	case "list":
		return a.list(ctx)
	case "get":
		return a.get(ctx, args)
	case "create":
		return a.create(ctx, args)
	case "update":
		return a.update(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *cli) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (min 6 characters)")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	_ = fs.Parse(args)

	user, err := a.client.Register(ctx, a.sess, client.RegisterParams{
		Email:     *email,
		Password:  *password,
		FirstName: *first,
		LastName:  *last,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered and logged in as %s (%s)\n", user.Email, user.Role)
	return nil
}

func (a *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	user, err := a.client.Login(ctx, a.sess, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", user.Email, user.Role)
	return nil
}

func (a *cli) whoami(ctx context.Context) error {
	if !a.sess.Active() {
		fmt.Println("not logged in")
		return nil
	}
	user, err := a.client.Profile(ctx, a.sess)
	if err != nil {
		return err
	}
	printUsers(user)
	return nil
}

func (a *cli) list(ctx context.Context) error {
	if err := a.requireAction(domain.ActionViewAllAccounts); err != nil {
		return err
	}
	users, err := a.client.ListUsers(ctx, a.sess)
	if err != nil {
		return err
	}
	printUsers(users...)
	return nil
}

func (a *cli) get(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: accountctl get <id>")
	}
	user, err := a.client.GetUser(ctx, a.sess, args[0])
	if err != nil {
		return err
	}
	printUsers(user)
	return nil
}

func (a *cli) create(ctx context.Context, args []string) error {
	if err := a.requireAction(domain.ActionCreateAccount); err != nil {
		return err
	}

	fs := flag.NewFlagSet("create", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (min 6 characters)")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	role := fs.String("role", "USER", "role: ADMIN, MANAGER, USER or ANONYMOUS")
	inactive := fs.Bool("inactive", false, "create the account deactivated")
	_ = fs.Parse(args)

	params := client.CreateUserParams{
		Email:     *email,
		Password:  *password,
		FirstName: *first,
		LastName:  *last,
		Role:      client.Role(*role),
	}
	if *inactive {
		active := false
		params.IsActive = &active
	}

	user, err := a.client.CreateUser(ctx, a.sess, params)
	if err != nil {
		return err
	}
	fmt.Printf("created %s (%s)\n", user.Email, user.ID)
	return nil
}

func (a *cli) update(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: accountctl update <id> [flags]")
	}
	id := args[0]

	fs := flag.NewFlagSet("update", flag.ExitOnError)
	email := fs.String("email", "", "new email address")
	password := fs.String("password", "", "new password")
	first := fs.String("first", "", "new first name")
	last := fs.String("last", "", "new last name")
	role := fs.String("role", "", "new role")
	active := fs.Bool("active", true, "active flag")
	_ = fs.Parse(args[1:])

	// Only flags explicitly set become part of the patch, so untouched
	// fields keep their stored values.
	var params client.UpdateUserParams
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "email":
			params.Email = email
		case "password":
			params.Password = password
		case "first":
			params.FirstName = first
		case "last":
			params.LastName = last
		case "role":
			r := client.Role(*role)
			params.Role = &r
		case "active":
			params.IsActive = active
		}
	})

	user, err := a.client.UpdateUser(ctx, a.sess, id, params)
	if err != nil {
		return err
	}
	printUsers(user)
	return nil
}

func (a *cli) delete(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: accountctl delete <id>")
	}
	if err := a.requireAction(domain.ActionDeleteAccount); err != nil {
		return err
	}
	msg, err := a.client.DeleteUser(ctx, a.sess, args[0])
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

// requireAction consults the shared access policy before issuing a call the
// server would reject anyway.
func (a *cli) requireAction(action domain.Action) error {
	role := domain.RoleAnonymous
	if a.sess.Active() {
		role = domain.Role(a.sess.User.Role)
	}
	if !domain.Allowed(role, action) {
		return fmt.Errorf("role %s is not permitted to %s", role, action)
	}
	return nil
}

func printUsers(users ...*client.User) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tACTIVE\tUPDATED")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%t\t%s\n",
			u.ID, u.Email, u.FirstName, u.LastName, u.Role, u.IsActive,
			u.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	_ = w.Flush()
}

func printUsage() {
	fmt.Println(`accountctl - admin console for the account service

Usage:
  accountctl <command> [flags]

Commands:
  register   register a new USER account and log in
  login      authenticate and store a session
  logout     clear the stored session
  whoami     show the current account
  list       list all accounts
  get        show one account by id
  create     create an account with an explicit role
  update     update fields of an account
  delete     delete an account
  help       show this message

Environment:
  ACCOUNTS_URL  base URL of the server (default http://localhost:8080)`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
