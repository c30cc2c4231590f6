// Package admin implements the operator commands behind cmd/admin: applying
// database migrations and creating users from a terminal.
package admin

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/dsstudio/internal/common"
	"github.com/dmitrijs2005/dsstudio/internal/flagx"
	"github.com/dmitrijs2005/dsstudio/internal/server/models"
	"github.com/dmitrijs2005/dsstudio/internal/server/services"
)

const usage = `usage: admin <command> [flags]

commands:
  migrate                                      apply database migrations
  create-user [-email E] [-name N] [-surname S]  create a user, prompting for what is missing
`

var (
	ErrUsage            = errors.New("invalid usage")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// Migrator applies the embedded schema migrations.
type Migrator func(ctx context.Context) error

// UserRegistrar creates users the same way the sign-up endpoint does.
type UserRegistrar interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
}

type Admin struct {
	migrate Migrator
	users   UserRegistrar
	in      *bufio.Reader
	out     io.Writer
}

func New(migrate Migrator, users UserRegistrar, in io.Reader, out io.Writer) *Admin {
	return &Admin{migrate: migrate, users: users, in: bufio.NewReader(in), out: out}
}

// Run executes the command named by args[0]. Flags meant for the server
// configuration may be mixed in and are ignored here.
func (a *Admin) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	switch args[0] {
	case "migrate":
		return a.runMigrate(ctx)
	case "create-user":
		return a.createUser(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

func (a *Admin) runMigrate(ctx context.Context) error {
	if err := a.migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	fmt.Fprintln(a.out, "migrations applied")
	return nil
}

func (a *Admin) createUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "email of the new user")
	name := fs.String("name", "", "first name")
	surname := fs.String("surname", "", "last name")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-email", "-name", "-surname"})); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	for _, f := range []struct {
		prompt string
		value  *string
	}{
		{"Email", email},
		{"Name", name},
		{"Surname", surname},
	} {
		if *f.value != "" {
			continue
		}
		v, err := GetSimpleText(a.in, f.prompt, a.out)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", strings.ToLower(f.prompt), err)
		}
		*f.value = v
	}

	password, err := a.askPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.users.Register(ctx, services.RegisterInput{
		Name:     *name,
		Surname:  *surname,
		Email:    *email,
		Password: string(password),
	})
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}

	fmt.Fprintf(a.out, "created user id=%d email=%s\n", u.ID, u.Email)
	return nil
}

func (a *Admin) askPassword() ([]byte, error) {
	first, err := GetPassword(a.out, "Password: ")
	if err != nil {
		return nil, fmt.Errorf("error reading password: %w", err)
	}

	second, err := GetPassword(a.out, "Repeat password: ")
	if err != nil {
		common.WipeByteArray(first)
		return nil, fmt.Errorf("error reading password: %w", err)
	}
	defer common.WipeByteArray(second)

	if !bytes.Equal(first, second) {
		common.WipeByteArray(first)
		return nil, ErrPasswordMismatch
	}
	return first, nil
}
