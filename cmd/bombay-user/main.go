// Command bombay-user creates an account in the bombay user table.
//
//	BOMBAY_DATABASE_URL=postgres://... bombay-user -name miles -admin < password.txt
//
// The password is read from -password, BOMBAY_NEW_USER_PASSWORD, or the
// first line of stdin, in that order.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"bombay/cmd/identity"
	"bombay/cmd/internal/app"
	"bombay/cmd/internal/pgschema"
	"bombay/cmd/security/password"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "bombay-user:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("bombay-user", flag.ContinueOnError)
	var (
		name     = fs.String("name", "", "login name (required)")
		fullName = fs.String("full-name", "", "display name")
		email    = fs.String("email", "", "email address")
		admin    = fs.Bool("admin", false, "grant system admin")
		expires  = fs.Int("session-expires", identity.DefaultSessionExpires, "session lifetime in minutes")
		pass     = fs.String("password", "", "password (prefer stdin)")
		migrate  = fs.Bool("migrate", false, "apply the schema before creating the user")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*name) == "" {
		fs.Usage()
		return errors.New("-name is required")
	}

	if err := app.LoadDotEnv(); err != nil {
		return err
	}
	dsn := app.EnvString("BOMBAY_DATABASE_URL", "")
	if dsn == "" {
		return errors.New("BOMBAY_DATABASE_URL not set")
	}
	schema := app.EnvString("BOMBAY_DB_SCHEMA", pgschema.Default)

	plain, err := readPassword(*pass, stdin)
	if err != nil {
		return err
	}
	pw, err := password.FromEnv()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer pool.Close()

	if *migrate {
		if err := pgschema.Apply(ctx, pool, schema); err != nil {
			return err
		}
	}

	users, err := identity.NewPostgresStore(pool, identity.WithSchema(schema), identity.WithPasswordConfig(pw))
	if err != nil {
		return err
	}
	u, err := users.CreateUser(ctx, identity.CreateUserInput{
		Name:           *name,
		FullName:       *fullName,
		Email:          *email,
		Password:       plain,
		Admin:          *admin,
		SessionExpires: *expires,
	})
	if identity.IsConflict(err) {
		return fmt.Errorf("user %q already exists", *name)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout, "created user %s id=%d admin=%t\n", u.Name, u.ID, u.Admin)
	return err
}

func readPassword(flagValue string, stdin io.Reader) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv("BOMBAY_NEW_USER_PASSWORD"); v != "" {
		return v, nil
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("no password given")
	}
	return line, nil
}
