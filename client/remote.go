package client

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// DefaultRemoteURL is the managed database endpoint used when no override is
// configured.
const DefaultRemoteURL = "postgres://db.services.astro-db.dev:5432/app"

// RemoteClient talks to a managed remote database. The access token is
// presented as the connection password; transport security is the driver's
// concern.
type RemoteClient struct {
	db       *sql.DB
	provider string
}

// RemoteDSN derives the driver name and DSN from the endpoint URL scheme,
// injecting the access token as the password.
func RemoteDSN(endpoint, token string) (driver, dsn string, err error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", "", fmt.Errorf("invalid remote endpoint %q: %w", endpoint, err)
	}

	user := "astro"
	if u.User != nil && u.User.Username() != "" {
		user = u.User.Username()
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		u.Scheme = "postgres"
		u.User = url.UserPassword(user, token)
		return "postgres", u.String(), nil
	case "mysql":
		dbName := strings.TrimPrefix(u.Path, "/")
		return "mysql", fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", user, token, u.Host, dbName), nil
	default:
		return "", "", fmt.Errorf("unsupported remote endpoint scheme %q", u.Scheme)
	}
}

// NewRemote opens a client for the managed database at endpoint,
// authenticating with the app token.
func NewRemote(endpoint, token string) (*RemoteClient, error) {
	driver, dsn, err := RemoteDSN(endpoint, token)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote database: %w", err)
	}

	return &RemoteClient{db: db, provider: driver}, nil
}

// Provider returns the SQL provider name ("postgres" or "mysql") matching
// the endpoint the client was built for.
func (c *RemoteClient) Provider() string { return c.provider }

func (c *RemoteClient) Run(ctx context.Context, stmt Statement) (Result, error) {
	return runOne(ctx, c.db, stmt)
}

func (c *RemoteClient) Batch(ctx context.Context, stmts []Statement) ([]Result, error) {
	return runBatch(ctx, c.db, stmts)
}

func (c *RemoteClient) Close() error {
	return c.db.Close()
}
