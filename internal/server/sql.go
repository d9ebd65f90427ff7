package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/five82/marquee/internal/catalog"
)

// Supported SQL dialects.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	year INTEGER NOT NULL,
	genre TEXT NOT NULL,
	score DOUBLE PRECISION NOT NULL,
	kind TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	created_at BIGINT NOT NULL
)`

// SQLRepository stores records in SQLite or PostgreSQL through database/sql.
type SQLRepository struct {
	db      *sql.DB
	dialect string
	now     func() time.Time

	mu   sync.Mutex
	last int64
}

// OpenSQL connects to dsn with the given dialect and creates the schema.
// For SQLite the dsn is a file path (or ":memory:").
func OpenSQL(ctx context.Context, dialect, dsn string) (*SQLRepository, error) {
	var driver string
	switch dialect {
	case DialectSQLite:
		driver = "sqlite3"
	case DialectPostgres:
		driver = "pgx"
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dialect == DialectSQLite {
		// SQLite serializes writers; one connection avoids "database is locked".
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLRepository{db: db, dialect: dialect, now: time.Now}, nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (r *SQLRepository) rebind(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

const selectColumns = `SELECT id, title, year, genre, score, kind, image_url FROM records`

func (r *SQLRepository) List(ctx context.Context) ([]catalog.Record, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []catalog.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	if out == nil {
		out = []catalog.Record{}
	}
	return out, nil
}

func (r *SQLRepository) Get(ctx context.Context, id catalog.ID) (catalog.Record, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(selectColumns+` WHERE id = ?`), id.String())
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Record{}, ErrNotFound
	}
	return rec, err
}

func (r *SQLRepository) Create(ctx context.Context, d catalog.Draft) (catalog.Record, error) {
	rec := d.WithID(newID())
	_, err := r.db.ExecContext(ctx, r.rebind(
		`INSERT INTO records (id, title, year, genre, score, kind, image_url, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		rec.ID.String(), rec.Title, rec.Year, rec.Genre, rec.Score, string(rec.Kind), rec.ImageURL, r.nextStamp(),
	)
	if err != nil {
		return catalog.Record{}, fmt.Errorf("insert record: %w", err)
	}
	return rec, nil
}

func (r *SQLRepository) Update(ctx context.Context, id catalog.ID, d catalog.Draft) (catalog.Record, error) {
	res, err := r.db.ExecContext(ctx, r.rebind(
		`UPDATE records SET title = ?, year = ?, genre = ?, score = ?, kind = ?, image_url = ? WHERE id = ?`),
		d.Title, d.Year, d.Genre, d.Score, string(d.Kind), d.ImageURL, id.String(),
	)
	if err != nil {
		return catalog.Record{}, fmt.Errorf("update record: %w", err)
	}
	if err := requireOneRow(res); err != nil {
		return catalog.Record{}, err
	}
	return d.WithID(id), nil
}

func (r *SQLRepository) Delete(ctx context.Context, id catalog.ID) error {
	res, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM records WHERE id = ?`), id.String())
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return requireOneRow(res)
}

// nextStamp returns a strictly increasing creation stamp so List keeps
// insertion order even when the clock does not advance between inserts.
func (r *SQLRepository) nextStamp() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	stamp := r.now().UnixNano()
	if stamp <= r.last {
		stamp = r.last + 1
	}
	r.last = stamp
	return stamp
}

// Close releases the database handle.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (catalog.Record, error) {
	var (
		rec  catalog.Record
		id   string
		kind string
	)
	if err := row.Scan(&id, &rec.Title, &rec.Year, &rec.Genre, &rec.Score, &kind, &rec.ImageURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Record{}, err
		}
		return catalog.Record{}, fmt.Errorf("scan record: %w", err)
	}
	rec.ID = catalog.ID(id)
	rec.Kind = catalog.Kind(kind)
	return rec, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
