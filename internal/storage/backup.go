package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrBackupUnsupported is returned when the database has no file to back up.
var ErrBackupUnsupported = errors.New("backup requires a file-backed database")

// BackupInfo describes a database snapshot taken with Backup.
type BackupInfo struct {
	CreatedAt time.Time
	ID        string
	Path      string
	Reason    string
}

// Backup writes a consistent copy of the database next to it, under
// backups/<id>.db, and records it in the backups table.
func (s *SQLiteStorage) Backup(ctx context.Context, reason string) (*BackupInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if s.dbPath == ":memory:" {
		return nil, ErrBackupUnsupported
	}

	dir := filepath.Join(filepath.Dir(s.dbPath), "backups")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}

	now := time.Now()
	id := "backup-" + now.Format("20060102-150405.000")
	dest, err := filepath.Abs(filepath.Join(dir, id+".db"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve backup path: %w", err)
	}
	if strings.ContainsAny(dest, `'";`) {
		return nil, fmt.Errorf("invalid backup path %q", dest)
	}

	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return nil, fmt.Errorf("failed to checkpoint WAL: %w", err)
	}
	// #nosec G201 - dest is validated above
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", dest)); err != nil {
		return nil, fmt.Errorf("failed to back up database: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO backups (id, path, reason, created_at) VALUES (?, ?, ?, ?)`,
		id, dest, reason, now); err != nil {
		// The copy on disk is still usable.
		slog.Warn("failed to record backup", "id", id, "error", err)
	}

	slog.Info("created database backup", "id", id, "path", dest)
	return &BackupInfo{ID: id, Path: dest, Reason: reason, CreatedAt: now}, nil
}

// Backups lists recorded backups, newest first.
func (s *SQLiteStorage) Backups(ctx context.Context) ([]BackupInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, path, reason, created_at FROM backups ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query backups: %w", err)
	}
	defer rows.Close()

	var out []BackupInfo
	for rows.Next() {
		var b BackupInfo
		if err := rows.Scan(&b.ID, &b.Path, &b.Reason, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan backup: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating backups: %w", err)
	}
	return out, nil
}
