// Command tool is an operator helper for user-service.
//
//	tool create-user -name Ann -email ann@x.com     prompts for the password
//	tool token -id 1 -email ann@x.com -ttl 1h       mints a bearer token
//	tool migrate [up|down|status]                   applies, rolls back or lists migrations
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

	"golang.org/x/term"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/db/bunstore"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/db/migrations"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/logger"
)

var (
	loadConfig = config.Load
	openDB     = config.NewDB
)

// readPassword reads without echo from a terminal, or a single line otherwise.
var readPassword = func(in io.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		return string(b), err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func main() {
	logger.Init()
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "create-user":
		err = createUser(args[1:], stdin, stdout)
	case "token":
		err = mintToken(args[1:], stdout)
	case "migrate":
		err = migrate(args[1:], stdout)
	default:
		usage(stderr)
		return 2
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: tool <create-user|token|migrate [up|down|status]> [flags]")
}

func createUser(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	password, err := readPassword(stdin, stdout)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	db, err := openDB(cfg.DBDriver, cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.DBAutoMigrate {
		if err := migrations.Up(ctx, db.DB, cfg.DBDriver); err != nil {
			return err
		}
	}

	svc := auth.NewService(
		bunstore.NewUserRepo(db),
		security.NewBcryptHasher(cfg.BcryptCost),
		security.NewJWTCodec(cfg.JWTSecret, cfg.JWTIssuer),
		auth.Config{TokenTTL: cfg.TokenTTL},
	)

	res, err := svc.Register(ctx, *name, *email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "created user %d <%s>\n", res.User.ID, res.User.Email)
	fmt.Fprintln(stdout, res.Token)
	return nil
}

func mintToken(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	id := fs.Int64("id", 0, "user id")
	email := fs.String("email", "", "user email")
	ttl := fs.Duration("ttl", 0, "token lifetime (default TOKEN_TTL)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("-id must be a positive integer")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if *ttl <= 0 {
		*ttl = cfg.TokenTTL
	}

	tok, err := security.NewJWTCodec(cfg.JWTSecret, cfg.JWTIssuer).
		Issue(auth.Claims{UserID: *id, Email: *email}, *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, tok)
	return nil
}

func migrate(args []string, stdout io.Writer) error {
	cmd := "up"
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "up", "down", "status":
	default:
		return fmt.Errorf("unknown migrate command %q (want up, down or status)", cmd)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDB(cfg.DBDriver, cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	switch cmd {
	case "down":
		if err := migrations.Down(ctx, db.DB, cfg.DBDriver); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "rolled back latest migration (%s)\n", cfg.DBDriver)
	case "status":
		return migrations.Status(ctx, db.DB, cfg.DBDriver, stdout)
	default:
		if err := migrations.Up(ctx, db.DB, cfg.DBDriver); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "migrations applied (%s)\n", cfg.DBDriver)
	}
	return nil
}
