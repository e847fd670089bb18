// Package postgres maintains the database client and schema migrations.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Config represents all of the mandatory configs required to establish a
// connection.
type Config struct {
	User        string
	Password    string
	Host        string
	Name        string
	Schema      string
	MaxIdleConn int
	MaxOpenConn int
	MaxIdleTime time.Duration
	MaxLifeTime time.Duration
	DisableTLS  bool
}

// Client represents a postgres client with some extended functionality over
// database/sql.
type Client struct {
	DB *sql.DB
}

// NewClient initializes a client instance and returns it.
func NewClient(conf Config) (*Client, error) {
	sslMode := "require"
	if conf.DisableTLS {
		sslMode = "disable"
	}

	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	if conf.Schema != "" {
		q.Set("search_path", conf.Schema)
	}

	uri := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(conf.User, conf.Password),
		Host:     conf.Host,
		Path:     conf.Name,
		RawQuery: q.Encode(),
	}

	db, err := sql.Open("pgx", uri.String())
	if err != nil {
		return nil, fmt.Errorf("opening connection: %w", err)
	}

	db.SetMaxOpenConns(conf.MaxOpenConn)
	db.SetMaxIdleConns(conf.MaxIdleConn)
	db.SetConnMaxIdleTime(conf.MaxIdleTime)
	db.SetConnMaxLifetime(conf.MaxLifeTime)

	return &Client{
		DB: db,
	}, nil
}

// StatusCheck pings the database until it answers or the context expires,
// then runs a round trip query against the engine.
func (c *Client) StatusCheck(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second*5)
		defer cancel()
	}

	for try := 1; ; try++ {
		pingErr := c.DB.PingContext(ctx)
		if pingErr == nil {
			break
		}

		time.Sleep(time.Millisecond * time.Duration(try) * 100)

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s:%w", pingErr, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	var result bool
	const q = "SELECT TRUE"
	if err := c.DB.QueryRowContext(ctx, q).Scan(&result); err != nil {
		return fmt.Errorf("queryRowContext: %w", err)
	}

	return nil
}

// Migrate runs the embedded schema migrations against the client.
func (c *Client) Migrate() error {
	driver, err := postgres.WithInstance(c.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("selecting driver: %w", err)
	}

	src, err := iofs.New(migrationFiles, "sql")
	if err != nil {
		return fmt.Errorf("creating migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}
