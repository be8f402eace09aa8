package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/mmk-auth-api/internal/domain/auth"
	"github.com/target/mmk-auth-api/internal/ports"
	"github.com/target/mmk-auth-api/internal/testutil"
)

func newTestSession(user domainauth.User, login time.Time) domainauth.SessionRecord {
	return domainauth.NewSessionRecord(uuid.NewString(), user, login)
}

func TestSessionRepo_CreateFindUpdate(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewSessionRepo(db)
		ctx := context.Background()
		user := newTestUser("alice", domainauth.RoleUser)
		login := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

		rec := newTestSession(user, login)
		require.NoError(t, repo.Create(ctx, rec))

		got, err := repo.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.UserID)
		assert.Equal(t, "alice", got.Username)
		assert.True(t, got.LoginTime.Equal(login))
		assert.True(t, got.IsActive())
		assert.Nil(t, got.DurationInSeconds)

		require.NoError(t, got.Close(login.Add(90*time.Second)))
		require.NoError(t, repo.Update(ctx, got))

		closed, err := repo.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		require.NotNil(t, closed.LogoutTime)
		require.NotNil(t, closed.DurationInSeconds)
		assert.True(t, closed.LogoutTime.Equal(login.Add(90*time.Second)))
		assert.InDelta(t, 90.0, *closed.DurationInSeconds, 0.001)
	})
}

func TestSessionRepo_MissingRecord(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewSessionRepo(db)
		ctx := context.Background()

		_, err := repo.FindByID(ctx, uuid.NewString())
		require.ErrorIs(t, err, ports.ErrSessionNotFound)

		_, err = repo.FindByID(ctx, "bogus")
		require.ErrorIs(t, err, ports.ErrSessionNotFound)

		rec := newTestSession(newTestUser("ghost", domainauth.RoleUser), time.Now())
		require.NoError(t, rec.Close(time.Now().Add(time.Second)))
		require.ErrorIs(t, repo.Update(ctx, rec), ports.ErrSessionNotFound)
	})
}

func TestSessionRepo_ListRecent(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewSessionRepo(db)
		ctx := context.Background()
		user := newTestUser("carol", domainauth.RoleUser)
		base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

		var ids []string
		for i := range 5 {
			rec := newTestSession(user, base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, repo.Create(ctx, rec))
			ids = append(ids, rec.ID)
		}

		all, err := repo.ListRecent(ctx, 50)
		require.NoError(t, err)
		require.Len(t, all, 5)
		for i := 1; i < len(all); i++ {
			assert.False(t, all[i].LoginTime.After(all[i-1].LoginTime), "records must be newest first")
		}
		assert.Equal(t, ids[4], all[0].ID)

		limited, err := repo.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, limited, 2)
		assert.Equal(t, ids[4], limited[0].ID)
		assert.Equal(t, ids[3], limited[1].ID)

		none, err := repo.ListRecent(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestSessionRepo_ListRecent_Empty(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	testutil.WithAutoDB(t, func(db *sql.DB) {
		out, err := NewSessionRepo(db).ListRecent(context.Background(), 10)
		require.NoError(t, err)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})
}
