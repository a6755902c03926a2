package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"clipgrid/internal/config"
)

// Source records how an order entry was produced.
type Source string

const (
	// SourceSave is an order saved from the interactive UI.
	SourceSave Source = "save"
	// SourceExport is an order written by the export command.
	SourceExport Source = "export"
	// SourceImport is an order file loaded and applied.
	SourceImport Source = "import"
)

// Entry is one recorded order.
type Entry struct {
	ID        int64     `json:"id"`
	Folder    string    `json:"folder"`
	Names     []string  `json:"names"`
	FilePath  string    `json:"file_path,omitempty"`
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages order history backed by SQLite.
type Store struct {
	db    *sql.DB
	path  string
	limit int
	now   func() time.Time
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.HistoryPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, limit: cfg.Order.HistoryLimit, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// RecordOrder stores an order for a folder and prunes entries beyond the
// configured history limit.
func (s *Store) RecordOrder(ctx context.Context, entry Entry) (Entry, error) {
	folder, err := folderKey(entry.Folder)
	if err != nil {
		return Entry{}, err
	}
	entry.Folder = folder
	if entry.Source == "" {
		entry.Source = SourceSave
	}
	if entry.Names == nil {
		entry.Names = []string{}
	}
	namesJSON, err := json.Marshal(entry.Names)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal names: %w", err)
	}
	entry.CreatedAt = s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (folder, names_json, clip_count, file_path, source, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Folder,
		string(namesJSON),
		len(entry.Names),
		nullableString(entry.FilePath),
		string(entry.Source),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert order: %w", err)
	}
	if entry.ID, err = res.LastInsertId(); err != nil {
		return Entry{}, fmt.Errorf("last insert id: %w", err)
	}

	if s.limit > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM orders WHERE folder = ? AND id NOT IN (
                SELECT id FROM orders WHERE folder = ? ORDER BY id DESC LIMIT ?
            )`,
			entry.Folder, entry.Folder, s.limit,
		); err != nil {
			return Entry{}, fmt.Errorf("prune orders: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Entry{}, fmt.Errorf("commit order: %w", err)
	}
	return entry, nil
}

// ListOrders returns up to limit orders for a folder, newest first. A
// non-positive limit returns every entry.
func (s *Store) ListOrders(ctx context.Context, folder string, limit int) ([]Entry, error) {
	key, err := folderKey(folder)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, folder, names_json, file_path, source, created_at
         FROM orders WHERE folder = ? ORDER BY id DESC LIMIT ?`,
		key, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return entries, nil
}

// LatestOrder returns the newest order for a folder, or nil when none exists.
func (s *Store) LatestOrder(ctx context.Context, folder string) (*Entry, error) {
	entries, err := s.ListOrders(ctx, folder, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// SaveSlots remembers the presentation slot count for a folder.
func (s *Store) SaveSlots(ctx context.Context, folder string, slots int) error {
	key, err := folderKey(folder)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO folder_prefs (folder, slots, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(folder) DO UPDATE SET slots = excluded.slots, updated_at = excluded.updated_at`,
		key, slots, s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save slots: %w", err)
	}
	return nil
}

// Slots returns the remembered slot count for a folder. ok is false when
// nothing was saved.
func (s *Store) Slots(ctx context.Context, folder string) (slots int, ok bool, err error) {
	key, err := folderKey(folder)
	if err != nil {
		return 0, false, err
	}
	err = s.db.QueryRowContext(ctx, "SELECT slots FROM folder_prefs WHERE folder = ?", key).Scan(&slots)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query slots: %w", err)
	}
	return slots, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		entry     Entry
		namesJSON string
		filePath  sql.NullString
		source    string
		created   string
	)
	if err := row.Scan(&entry.ID, &entry.Folder, &namesJSON, &filePath, &source, &created); err != nil {
		return Entry{}, fmt.Errorf("scan order: %w", err)
	}
	if err := json.Unmarshal([]byte(namesJSON), &entry.Names); err != nil {
		return Entry{}, fmt.Errorf("decode order %d names: %w", entry.ID, err)
	}
	entry.FilePath = filePath.String
	entry.Source = Source(source)
	if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
		entry.CreatedAt = ts
	}
	return entry, nil
}

func folderKey(folder string) (string, error) {
	if folder == "" {
		return "", errors.New("folder is required")
	}
	abs, err := filepath.Abs(folder)
	if err != nil {
		return "", fmt.Errorf("resolve folder %q: %w", folder, err)
	}
	return abs, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
