package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

//go:embed migrations
var migrations embed.FS

type Postgres struct {
	db  *pgx.Conn
	log *logrus.Entry
	dsn string
}

func ConnectDB(ctx context.Context, log *logrus.Logger, dsn string) (*Postgres, error) {
	db, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgx.Connect: %w", err)
	}

	err = db.Ping(ctx)
	if err != nil {
		return nil, fmt.Errorf("db.Ping: %w", err)
	}

	return &Postgres{
		db:  db,
		log: log.WithField("module", "postgres"),
		dsn: dsn,
	}, nil
}

func (p *Postgres) Migrate(direction migrate.MigrationDirection) error {
	conn, err := sql.Open("pgx", p.dsn)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}

	defer func() {
		err := conn.Close()
		if err != nil {
			p.log.Warningf("conn.Close: %s", err)
		}
	}()

	asset := migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations,
		Root:       "migrations",
	}

	n, err := migrate.Exec(conn, "postgres", asset, direction)
	if err != nil {
		return fmt.Errorf("migrate.Exec: %w", err)
	}

	p.log.Infof("applied %d migrations", n)

	return nil
}

func (p *Postgres) TruncateTable(ctx context.Context, table string) error {
	_, err := p.db.Exec(ctx, "TRUNCATE TABLE "+pgx.Identifier{table}.Sanitize())
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func (p *Postgres) Close(ctx context.Context) error {
	err := p.db.Close(ctx)
	if err != nil {
		return fmt.Errorf("db.Close: %w", err)
	}

	return nil
}
