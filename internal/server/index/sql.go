package index

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/postapp/internal/dbx"
	"github.com/dmitrijs2005/postapp/internal/server/migrations"
	"github.com/dmitrijs2005/postapp/internal/server/models"
)

// SQLRepository keeps records in the images table of a postgres or sqlite
// database.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// OpenSQL opens dsn with the driver for its dialect and brings the schema
// up to date.
func OpenSQL(ctx context.Context, dsn string) (*sql.DB, dbx.Dialect, error) {
	d := dbx.DialectFromDSN(dsn)

	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("db open error: %w", err)
	}
	if d == dbx.DialectSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := RunMigrations(ctx, db, d); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("migration error: %w", err)
	}
	return db, d, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB, d dbx.Dialect) error {
	provider, err := goose.NewProvider(goose.Dialect(d.GooseDialect()), db, migrations.Migrations)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

func (r *SQLRepository) Put(ctx context.Context, img models.Image) error {
	query := dbx.Rebind(r.dialect,
		`INSERT INTO images (s3_object_key, category, image_location)
		 VALUES (?, ?, ?)
		 ON CONFLICT (s3_object_key) DO UPDATE
		 SET category = excluded.category, image_location = excluded.image_location`)

	if _, err := r.db.ExecContext(ctx, query, img.S3ObjectKey, img.Category, img.ImageLocation); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, key string) error {
	query := dbx.Rebind(r.dialect, `DELETE FROM images WHERE s3_object_key = ?`)

	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) KeysByCategory(ctx context.Context, category string) ([]models.ImageKey, error) {
	query := dbx.Rebind(r.dialect,
		`SELECT s3_object_key FROM images
		 WHERE category = ?
		 ORDER BY created_at, s3_object_key`)

	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	keys := []models.ImageKey{}
	for rows.Next() {
		var k models.ImageKey
		if err := rows.Scan(&k.S3ObjectKey); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return keys, nil
}
