//go:build integration

package database_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"ms-directory/internal/config"
	"ms-directory/internal/database"
	"ms-directory/internal/database/migrations"
	"ms-directory/internal/directory"
	directory_db "ms-directory/internal/directory/db"
	"ms-directory/internal/directory/service"
	"ms-directory/internal/logger"
	"ms-directory/internal/models"
)

// TestPostgresDirectory runs migrations and the mutation envelope against a
// real PostgreSQL container.
func TestPostgresDirectory(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping PostgreSQL integration test in short mode")
	}

	ctx := context.Background()
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "directory",
				"POSTGRES_PASSWORD": "directory",
				"POSTGRES_DB":       "directory",
			},
			// postgres restarts once after init, so wait for the second ready line
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer pgContainer.Terminate(ctx)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	log := logger.NewWithWriter(io.Discard)
	cfg := config.DatabaseConfig{
		Driver:         database.DriverPostgres,
		PostgresDSN:    fmt.Sprintf("postgres://directory:directory@%s:%s/directory?sslmode=disable", host, port.Port()),
		MaxOpenConns:   5,
		MaxIdleConns:   5,
		MaxLifetime:    time.Minute,
		ConnectRetries: 5,
		RetryDelay:     time.Second,
	}

	bunDB, err := database.Open(ctx, cfg, log)
	require.NoError(t, err)
	defer bunDB.Close()

	runner := migrations.NewRunner(bunDB, migrations.MigrateOptions{MigrationsDir: "../../migrations"}, log)
	require.NoError(t, runner.RunMigrations())
	// startup closes the runner before serving, the pool must outlive it
	require.NoError(t, runner.Close())
	require.NoError(t, bunDB.PingContext(ctx))

	directoryDB := directory_db.New(bunDB)
	now := time.Now().UTC()
	mutations := service.NewMutationService(directoryDB, nil, log, directory.FixedClock(now))
	queries := service.NewQueryService(directoryDB, directory.FixedClock(now), 10)

	venue := mutations.CreateVenue(ctx, service.VenueInput{
		Name: "The Fillmore", City: "San Francisco", State: "CA", Address: "1805 Geary Blvd", Genres: []string{"Rock n Roll"},
	})
	require.True(t, venue.Success, venue.Message)

	duplicate := mutations.CreateVenue(ctx, service.VenueInput{
		Name: "The Fillmore", City: "Oakland", State: "CA", Address: "1 Main St", Genres: []string{"Jazz"},
	})
	assert.False(t, duplicate.Success)
	assert.Equal(t, directory.KindConstraintViolation, duplicate.Kind)

	artist := mutations.CreateArtist(ctx, service.ArtistInput{
		Name: "Guns N Petals", City: "San Francisco", State: "CA", Genres: []string{"Rock n Roll"},
	})
	require.True(t, artist.Success, artist.Message)

	show := mutations.CreateShow(ctx, service.ShowInput{ArtistID: artist.ID, VenueID: venue.ID, StartTime: now.Add(time.Hour)})
	require.True(t, show.Success, show.Message)

	// the foreign key itself rejects a dangling show
	err = directoryDB.InTx(ctx, func(ctx context.Context, tx *directory_db.DB) error {
		return tx.CreateShow(ctx, &models.Show{StartTime: now, ArtistID: 9999, VenueID: venue.ID})
	})
	assert.Equal(t, directory.KindConstraintViolation, directory.KindOf(err))

	detail, err := queries.VenueDetail(ctx, venue.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Fillmore", detail.Name)
	assert.Equal(t, 1, detail.UpcomingShowsCount)

	// a second runner sees the schema already applied
	again := migrations.NewRunner(bunDB, migrations.MigrateOptions{MigrationsDir: "../../migrations"}, log)
	require.NoError(t, again.RunMigrations())
	require.NoError(t, again.Close())
	_, err = queries.VenueDetail(ctx, venue.ID)
	require.NoError(t, err)

	deleted := mutations.DeleteVenue(ctx, venue.ID)
	require.True(t, deleted.Success, deleted.Message)

	count, err := directoryDB.CountShows(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
