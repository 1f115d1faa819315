// Package suites holds integration test suites backed by throwaway
// containers. They are skipped with -short.
package suites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/joefazee/globeguide/app/database"

	// database/sql driver for the raw connection
	_ "github.com/lib/pq"
)

const (
	pgImage    = "postgres:17.5-alpine3.21"
	pgPort     = "5432/tcp"
	pgDatabase = "globeguide_test"
	pgUser     = "globeguide"
	pgPassword = "globeguide-test"
)

// PostgresContainer is a running postgres with the globeguide test database.
type PostgresContainer struct {
	testcontainers.Container
	DSN string
}

func dsn(host string, port nat.Port) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, host, port.Port(), pgDatabase)
}

// StartPostgres starts a container and waits until it answers queries.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{pgPort},
			Cmd:          []string{"postgres", "-c", "fsync=off"},
			Env: map[string]string{
				"POSTGRES_DB":       pgDatabase,
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
			},
			WaitingFor: wait.ForSQL(pgPort, "postgres", dsn).
				WithStartupTimeout(30 * time.Second).
				WithQuery("SELECT 1"),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("postgres host: %w", err)
	}
	port, err := c.MappedPort(ctx, pgPort)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("postgres port: %w", err)
	}
	return &PostgresContainer{Container: c, DSN: dsn(host, port)}, nil
}

// RepositoryTestSuite gives embedding suites a migrated database and empties
// every application table before each test.
type RepositoryTestSuite struct {
	suite.Suite
	Container *PostgresContainer
	DB        *gorm.DB
	SQLDB     *sql.DB

	// AutoMigrate applies migrations/ from the module root in SetupSuite.
	AutoMigrate    bool
	MigrationsPath string
}

func (s *RepositoryTestSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("Skipping database integration tests in short mode")
	}

	ctx := context.Background()
	container, err := StartPostgres(ctx)
	s.Require().NoError(err)
	s.Container = container
	s.T().Cleanup(s.cleanup)

	s.SQLDB, err = sql.Open("postgres", container.DSN)
	s.Require().NoError(err)
	s.SQLDB.SetMaxOpenConns(5)
	s.SQLDB.SetMaxIdleConns(2)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	s.Require().NoError(s.SQLDB.PingContext(pingCtx))

	s.DB, err = gorm.Open(postgres.New(postgres.Config{Conn: s.SQLDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)

	if s.AutoMigrate {
		s.Require().NoError(s.RunMigrations())
	}
}

func (s *RepositoryTestSuite) cleanup() {
	if s.SQLDB != nil {
		_ = s.SQLDB.Close()
	}
	if s.Container != nil {
		_ = s.Container.Terminate(context.Background())
	}
}

// RunMigrations applies every up migration.
func (s *RepositoryTestSuite) RunMigrations() error {
	if s.MigrationsPath == "" {
		s.MigrationsPath = migrationsDir()
	}
	if s.MigrationsPath == "" {
		return errors.New("migrations directory not found")
	}
	return database.Migrate(s.MigrationsPath, s.Container.DSN)
}

// migrationsDir walks up to the module root.
func migrationsDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "migrations")
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func (s *RepositoryTestSuite) SetupTest() {
	if s.DB == nil {
		return
	}
	var tables []string
	s.Require().NoError(s.DB.Raw(`
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		AND table_name <> 'schema_migrations'`).Scan(&tables).Error)
	for _, table := range tables {
		s.Require().NoError(s.DB.Exec(fmt.Sprintf(`TRUNCATE TABLE %q CASCADE`, table)).Error)
	}
}

// CountRecords returns the number of rows in table.
func (s *RepositoryTestSuite) CountRecords(table string) int64 {
	var n int64
	s.DB.Table(table).Count(&n)
	return n
}

func (s *RepositoryTestSuite) AssertDBError(err error, args ...interface{}) {
	s.Assert().Error(err, args...)
}

func (s *RepositoryTestSuite) AssertNoDBError(err error, args ...interface{}) {
	s.Assert().NoError(err, args...)
}
