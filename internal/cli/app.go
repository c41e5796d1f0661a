package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/coinvue/internal/server/models"
)

// ErrUsage is returned when the command line cannot be interpreted.
var ErrUsage = errors.New("usage error")

// ErrAborted is returned when the operator declines a confirmation.
var ErrAborted = errors.New("aborted")

const usage = `Usage: coinvuectl [config flags] <command> [args]

Commands:
  create-admin [username] [email]   create an administrator account
  promote <username>                grant the admin role to a user
  delete-user <username>            delete a user and its data
  help                              show this message`

type AdminService interface {
	CreateAdmin(ctx context.Context, username, email, password string) (*models.SafeUser, error)
	Promote(ctx context.Context, username string) error
	DeleteUser(ctx context.Context, username string) error
}

// getPassword is a test seam for GetPassword.
var getPassword = GetPassword

type App struct {
	admin  AdminService
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(admin AdminService, in io.Reader, out io.Writer) *App {
	return &App{admin: admin, reader: bufio.NewReader(in), out: out}
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "create-admin":
		return a.createAdmin(ctx, rest)
	case "promote":
		return a.promote(ctx, rest)
	case "delete-user":
		return a.deleteUser(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
		fmt.Fprintln(a.out, usage)
		return ErrUsage
	}
}

func (a *App) argOrPrompt(args []string, i int, prompt string) (string, error) {
	if i < len(args) {
		return args[i], nil
	}
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) createAdmin(ctx context.Context, args []string) error {
	username, err := a.argOrPrompt(args, 0, "Username")
	if err != nil {
		return err
	}
	email, err := a.argOrPrompt(args, 1, "Email")
	if err != nil {
		return err
	}

	pw, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer wipe(pw)
	confirm, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer wipe(confirm)

	if !bytes.Equal(pw, confirm) {
		return errors.New("passwords do not match")
	}

	user, err := a.admin.CreateAdmin(ctx, username, email, string(pw))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Admin %q created (id=%d)\n", user.Username, user.ID)
	return nil
}

func (a *App) promote(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: promote <username>")
		return ErrUsage
	}
	if err := a.admin.Promote(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %q is now an admin\n", args[0])
	return nil
}

func (a *App) deleteUser(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: delete-user <username>")
		return ErrUsage
	}
	username := args[0]

	typed, err := GetSimpleText(a.reader, fmt.Sprintf("This permanently deletes %q. Type the username to confirm", username), a.out)
	if err != nil {
		return err
	}
	if typed != username {
		return ErrAborted
	}

	if err := a.admin.DeleteUser(ctx, username); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %q deleted\n", username)
	return nil
}
