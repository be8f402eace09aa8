package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/mmk-auth-api/config"
	"github.com/target/mmk-auth-api/internal/adapters/jwttoken"
	"github.com/target/mmk-auth-api/internal/adapters/revocation"
	domainauth "github.com/target/mmk-auth-api/internal/domain/auth"
	mockauth "github.com/target/mmk-auth-api/internal/mocks/auth"
	"github.com/target/mmk-auth-api/internal/service"
)

type fakeBackend struct {
	svc      *service.AuthService
	users    *mockauth.MemoryCredentialStore
	sessions *mockauth.MemorySessionLedger
}

func stubAuth(t *testing.T) *fakeBackend {
	t.Helper()
	tokens, err := jwttoken.New(jwttoken.Options{Secret: "test", TTL: time.Hour})
	require.NoError(t, err)

	fb := &fakeBackend{
		users:    mockauth.NewMemoryCredentialStore(),
		sessions: mockauth.NewMemorySessionLedger(),
	}
	build := func(limit int) *service.AuthService {
		return service.MustNewAuthService(service.AuthServiceOptions{
			Users:       fb.users,
			Sessions:    fb.sessions,
			Hasher:      &mockauth.PlainHasher{},
			Tokens:      tokens,
			Revocations: revocation.NewMemoryRegistry(time.Hour),
			RecentLimit: limit,
		})
	}
	fb.svc = build(0)

	orig := withAuth
	withAuth = func(ctx context.Context, cmdCtx *commandContext, fn func(context.Context, authAdmin) error) error {
		return fn(ctx, build(cmdCtx.Config.Auth.RecentSessionsLimit))
	}
	t.Cleanup(func() { withAuth = orig })
	return fb
}

func newCommandContext(stdin string) (*commandContext, *bytes.Buffer) {
	var out bytes.Buffer
	return &commandContext{
		Ctx:    context.Background(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: config.AppConfig{Auth: config.AuthConfig{RecentSessionsLimit: 50}},
		Stdin:  strings.NewReader(stdin),
		Stdout: &out,
	}, &out
}

func stubTerminal(t *testing.T, interactive bool, password string, err error) {
	t.Helper()
	origTerm, origRead := isTerminal, readPassword
	isTerminal = func(int) bool { return interactive }
	readPassword = func(int) ([]byte, error) { return []byte(password), err }
	t.Cleanup(func() { isTerminal, readPassword = origTerm, origRead })
}

func TestParseCreateUserFlags(t *testing.T) {
	opts, err := parseCreateUserFlags([]string{"-username", " root ", "-role", "ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, "root", opts.Username)
	assert.Equal(t, domainauth.RoleAdmin, opts.Role)

	opts, err = parseCreateUserFlags([]string{"-username", "alice"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleUser, opts.Role)

	_, err = parseCreateUserFlags([]string{"-role", "admin"})
	require.Error(t, err)

	_, err = parseCreateUserFlags([]string{"-username", "x", "-role", "owner"})
	require.Error(t, err)
}

func TestParseListSessionsFlags(t *testing.T) {
	opts, err := parseListSessionsFlags(nil, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, opts.Limit)

	opts, err = parseListSessionsFlags([]string{"-limit", "5"}, 50)
	require.NoError(t, err)
	assert.Equal(t, 5, opts.Limit)

	_, err = parseListSessionsFlags([]string{"-limit", "0"}, 50)
	require.Error(t, err)
}

func TestParseMigrateFlags(t *testing.T) {
	opts, err := parseMigrateFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultMigrationTimeout, opts.Timeout)

	_, err = parseMigrateFlags([]string{"-timeout", "0s"})
	require.Error(t, err)
}

func TestResolvePassword(t *testing.T) {
	t.Run("environment wins", func(t *testing.T) {
		t.Setenv(adminPasswordEnv, "from-env")
		stubTerminal(t, true, "typed", nil)
		cmdCtx, _ := newCommandContext("")

		pw, err := resolvePassword(cmdCtx)
		require.NoError(t, err)
		assert.Equal(t, "from-env", pw)
	})

	t.Run("terminal prompt", func(t *testing.T) {
		t.Setenv(adminPasswordEnv, "")
		stubTerminal(t, true, "typed", nil)
		cmdCtx, out := newCommandContext("")

		pw, err := resolvePassword(cmdCtx)
		require.NoError(t, err)
		assert.Equal(t, "typed", pw)
		assert.Contains(t, out.String(), "Password: ")
	})

	t.Run("terminal read failure", func(t *testing.T) {
		t.Setenv(adminPasswordEnv, "")
		stubTerminal(t, true, "", errors.New("tty gone"))
		cmdCtx, _ := newCommandContext("")

		_, err := resolvePassword(cmdCtx)
		require.Error(t, err)
	})

	t.Run("piped stdin", func(t *testing.T) {
		t.Setenv(adminPasswordEnv, "")
		stubTerminal(t, false, "", nil)
		cmdCtx, _ := newCommandContext("piped-pw\n")

		pw, err := resolvePassword(cmdCtx)
		require.NoError(t, err)
		assert.Equal(t, "piped-pw", pw)
	})

	t.Run("empty stdin", func(t *testing.T) {
		t.Setenv(adminPasswordEnv, "")
		stubTerminal(t, false, "", nil)
		cmdCtx, _ := newCommandContext("")

		_, err := resolvePassword(cmdCtx)
		require.Error(t, err)
	})
}

func TestRunCreateUser(t *testing.T) {
	fb := stubAuth(t)
	t.Setenv(adminPasswordEnv, "rootpw")
	cmdCtx, out := newCommandContext("")

	require.NoError(t, runCreateUser(cmdCtx, []string{"-username", "root", "-role", "admin"}))
	assert.Contains(t, out.String(), `created admin user "root"`)

	user, err := fb.users.FindByUsername(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, user.Role)
	assert.Equal(t, "plain$rootpw", user.PasswordHash)

	err = runCreateUser(cmdCtx, []string{"-username", "root"})
	require.Error(t, err)
}

func TestRunListSessions(t *testing.T) {
	fb := stubAuth(t)
	ctx := context.Background()
	_, err := fb.svc.CreateUser(ctx, "alice", "pw", domainauth.RoleUser)
	require.NoError(t, err)
	for range 3 {
		_, err = fb.svc.Login(ctx, "alice", "pw")
		require.NoError(t, err)
	}

	cmdCtx, out := newCommandContext("")
	require.NoError(t, runListSessions(cmdCtx, []string{"-limit", "2"}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "SESSION ID")
	assert.Contains(t, lines[1], "alice")
	assert.Contains(t, lines[1], "-")
}

func TestRenderSessionTable(t *testing.T) {
	login := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	logout := login.Add(90 * time.Second)
	dur := 90.0

	var out bytes.Buffer
	require.NoError(t, renderSessionTable(&out, []domainauth.SessionRecord{
		{ID: "s1", Username: "alice", LoginTime: login, LogoutTime: &logout, DurationInSeconds: &dur},
	}))

	assert.Contains(t, out.String(), "2024-01-02T03:04:05Z")
	assert.Contains(t, out.String(), "2024-01-02T03:05:35Z")
	assert.Contains(t, out.String(), "1m30s")
}

func TestPrintUsageListsCommands(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printUsage(&out))
	for _, name := range []string{"migrate", "create-user", "list-sessions"} {
		assert.Contains(t, out.String(), name)
	}
}
