package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/siteops/siteaudit/internal/models"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer. A single connection
	// serializes all DB access through Go's connection pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// newULID generates a new ULID string.
func newULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Options ---

func (s *SQLiteStore) GetOption(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM options WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get option %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) SetOption(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO options (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("set option %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteOption(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM options WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("delete option %s: %w", key, err)
	}
	return nil
}

// --- Attachments ---

func (s *SQLiteStore) CreateAttachment(ctx context.Context, a *models.Attachment) error {
	if a.ID == "" {
		a.ID = newULID()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `INSERT INTO attachments
		(id, title, mime_type, file_path, width, height, size_bytes, alt_text, public_url, edit_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.MimeType, a.FilePath, a.Width, a.Height, a.SizeBytes,
		a.AltText, a.PublicURL, a.EditURL, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create attachment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetAttachment(ctx context.Context, id string) (*models.Attachment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title, mime_type, file_path, width, height,
		size_bytes, alt_text, public_url, edit_url, created_at, updated_at
		FROM attachments WHERE id = ?`, id)
	return scanAttachment(row)
}

func (s *SQLiteStore) ListImages(ctx context.Context) ([]*models.Attachment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, mime_type, file_path, width, height,
		size_bytes, alt_text, public_url, edit_url, created_at, updated_at
		FROM attachments WHERE mime_type LIKE 'image/%' ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var images []*models.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, a)
	}
	return images, rows.Err()
}

func (s *SQLiteStore) SetAltText(ctx context.Context, id, alt string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE attachments SET alt_text = ?, updated_at = ? WHERE id = ?",
		alt, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set alt text: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set alt text: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttachment(row rowScanner) (*models.Attachment, error) {
	var a models.Attachment
	err := row.Scan(&a.ID, &a.Title, &a.MimeType, &a.FilePath, &a.Width, &a.Height,
		&a.SizeBytes, &a.AltText, &a.PublicURL, &a.EditURL, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan attachment: %w", err)
	}
	return &a, nil
}

// --- Content types ---

func (s *SQLiteStore) UpsertContentType(ctx context.Context, ct *models.ContentType) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO content_types (slug, label, public, publicly_queryable, builtin)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET label = excluded.label, public = excluded.public,
			publicly_queryable = excluded.publicly_queryable, builtin = excluded.builtin`,
		ct.Slug, ct.Label, boolToInt(ct.Public), boolToInt(ct.PubliclyQueryable), boolToInt(ct.Builtin))
	if err != nil {
		return fmt.Errorf("upsert content type %s: %w", ct.Slug, err)
	}
	return nil
}

func (s *SQLiteStore) ListContentTypes(ctx context.Context) ([]*models.ContentType, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT slug, label, public, publicly_queryable, builtin FROM content_types ORDER BY slug")
	if err != nil {
		return nil, fmt.Errorf("list content types: %w", err)
	}
	defer rows.Close()

	var types []*models.ContentType
	for rows.Next() {
		var ct models.ContentType
		var public, queryable, builtin int
		if err := rows.Scan(&ct.Slug, &ct.Label, &public, &queryable, &builtin); err != nil {
			return nil, fmt.Errorf("scan content type: %w", err)
		}
		ct.Public = public != 0
		ct.PubliclyQueryable = queryable != 0
		ct.Builtin = builtin != 0
		types = append(types, &ct)
	}
	return types, rows.Err()
}

// --- Users ---

func (s *SQLiteStore) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = newULID()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, display_name, email, role) VALUES (?, ?, ?, ?)",
		u.ID, u.DisplayName, u.Email, string(u.Role))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	var role string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, display_name, email, role FROM users WHERE id = ?", id).
		Scan(&u.ID, &u.DisplayName, &u.Email, &role)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	u.Role = models.UserRole(role)
	return &u, nil
}

func (s *SQLiteStore) ListUsersByRole(ctx context.Context, roles ...models.UserRole) ([]*models.User, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(roles))
	args := make([]any, len(roles))
	for i, r := range roles {
		placeholders[i] = "?"
		args[i] = string(r)
	}

	query := fmt.Sprintf(
		"SELECT id, display_name, email, role FROM users WHERE role IN (%s) ORDER BY display_name",
		strings.Join(placeholders, ", "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		var role string
		if err := rows.Scan(&u.ID, &u.DisplayName, &u.Email, &role); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Role = models.UserRole(role)
		users = append(users, &u)
	}
	return users, rows.Err()
}

// boolToInt converts a bool to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
