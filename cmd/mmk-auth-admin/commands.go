package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/target/mmk-auth-api/internal/bootstrap"
	domainauth "github.com/target/mmk-auth-api/internal/domain/auth"
	"github.com/target/mmk-auth-api/internal/util"
	"golang.org/x/term"
)

const (
	defaultMigrationTimeout = 5 * time.Minute
	defaultCommandTimeout   = time.Minute
	adminPasswordEnv        = "MMK_ADMIN_PASSWORD"
)

type migrateOptions struct {
	Timeout time.Duration
}

type createUserOptions struct {
	Username string
	Role     domainauth.Role
}

type listSessionsOptions struct {
	Limit int
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	db, err := connectDB(cmdCtx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	cmdCtx.Logger.Info("running database migrations")

	if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
		return fmt.Errorf("run migrations: %w", migrateErr)
	}

	cmdCtx.Logger.Info("migrations completed successfully")
	return nil
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{
		Timeout: defaultMigrationTimeout,
	}

	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultMigrationTimeout,
		"Maximum duration to wait for migrations to complete",
	)

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}

	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func runCreateUser(cmdCtx *commandContext, args []string) error {
	opts, err := parseCreateUserFlags(args)
	if err != nil {
		return err
	}

	password, err := resolvePassword(cmdCtx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	return withAuth(ctx, cmdCtx, func(ctx context.Context, svc authAdmin) error {
		user, createErr := svc.CreateUser(ctx, opts.Username, password, opts.Role)
		if createErr != nil {
			return fmt.Errorf("create user: %w", createErr)
		}
		return writef(cmdCtx.Stdout, "created %s user %q (id %s)\n", user.Role, user.Username, user.ID)
	})
}

func parseCreateUserFlags(args []string) (createUserOptions, error) {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var role string
	opts := createUserOptions{}
	fs.StringVar(&opts.Username, "username", "", "Username for the new account (required)")
	fs.StringVar(&role, "role", string(domainauth.RoleUser), "Role for the new account: user or admin")

	if err := fs.Parse(args); err != nil {
		return createUserOptions{}, err
	}

	opts.Username = domainauth.NormalizeUsername(opts.Username)
	if opts.Username == "" {
		return createUserOptions{}, errors.New("--username is required")
	}

	parsed, err := domainauth.ParseRole(role)
	if err != nil {
		return createUserOptions{}, err
	}
	opts.Role = parsed
	return opts, nil
}

// readPassword reads a password from a terminal without echo. Replaced in tests.
var readPassword = term.ReadPassword

// isTerminal reports whether fd is an interactive terminal. Replaced in tests.
var isTerminal = term.IsTerminal

// resolvePassword prefers MMK_ADMIN_PASSWORD, then prompts on a terminal, then reads one line from stdin.
func resolvePassword(cmdCtx *commandContext) (string, error) {
	if pw := os.Getenv(adminPasswordEnv); pw != "" {
		return pw, nil
	}

	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
	if isTerminal(fd) {
		if err := writef(cmdCtx.Stdout, "Password: "); err != nil {
			return "", err
		}
		pw, err := readPassword(fd)
		if writeErr := writef(cmdCtx.Stdout, "\n"); writeErr != nil && err == nil {
			err = writeErr
		}
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		if len(pw) == 0 {
			return "", errors.New("password must not be empty")
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(cmdCtx.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", fmt.Errorf("password must not be empty (set %s or pipe it on stdin)", adminPasswordEnv)
	}
	return pw, nil
}

func runListSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseListSessionsFlags(args, cmdCtx.Config.Auth.RecentSessionsLimit)
	if err != nil {
		return err
	}
	cmdCtx.Config.Auth.RecentSessionsLimit = opts.Limit

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	return withAuth(ctx, cmdCtx, func(ctx context.Context, svc authAdmin) error {
		operator := domainauth.Claims{Username: "mmk-auth-admin", Role: domainauth.RoleAdmin}
		records, listErr := svc.ListRecentSessions(ctx, operator)
		if listErr != nil {
			return fmt.Errorf("list sessions: %w", listErr)
		}
		return renderSessionTable(cmdCtx.Stdout, records)
	})
}

func parseListSessionsFlags(args []string, defaultLimit int) (listSessionsOptions, error) {
	fs := flag.NewFlagSet("list-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := listSessionsOptions{}
	fs.IntVar(&opts.Limit, "limit", defaultLimit, "Maximum number of records to print")

	if err := fs.Parse(args); err != nil {
		return listSessionsOptions{}, err
	}
	if opts.Limit <= 0 {
		return listSessionsOptions{}, errors.New("--limit must be greater than zero")
	}
	return opts, nil
}

func renderSessionTable(w io.Writer, records []domainauth.SessionRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "SESSION ID\tUSERNAME\tLOGIN (UTC)\tLOGOUT (UTC)\tDURATION\n"); err != nil {
		return fmt.Errorf("write sessions header row: %w", err)
	}

	for _, rec := range records {
		logout := "-"
		if rec.LogoutTime != nil {
			logout = util.FormatTimestamp(*rec.LogoutTime)
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
			rec.ID, rec.Username, util.FormatTimestamp(rec.LoginTime), logout,
			util.FormatSessionDuration(rec.DurationInSeconds)); err != nil {
			return fmt.Errorf("write sessions row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush sessions table: %w", err)
	}
	return nil
}
