package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ghostcopy/ghostd/internal/application/ports"
	"github.com/ghostcopy/ghostd/internal/domain/clip"
	"github.com/ghostcopy/ghostd/internal/domain/gerrors"
)

// DefaultRetainItems is how many items the store keeps per owner before
// the retention sweep prunes the oldest.
const DefaultRetainItems = 50

// Repository is a SQLite-backed implementation of the clipboard store.
// It is intended for self-hosted single-machine deployments where the
// "remote" store lives on the local disk.
type Repository struct {
	conn       *Connection
	deviceType clip.DeviceType
	deviceName string
	retain     int
}

var _ ports.Repository = (*Repository)(nil)

// NewRepository creates a repository over an open connection. retain is the
// per-owner item cap; zero or negative selects DefaultRetainItems.
func NewRepository(conn *Connection, deviceType clip.DeviceType, deviceName string, retain int) (*Repository, error) {
	if conn == nil {
		return nil, fmt.Errorf("connection is required")
	}
	if !clip.IsValidDeviceType(deviceType) {
		return nil, fmt.Errorf("invalid device type: %s", deviceType)
	}
	if deviceName == "" {
		return nil, gerrors.ErrDeviceNameRequired
	}
	if retain <= 0 {
		retain = DefaultRetainItems
	}

	return &Repository{
		conn:       conn,
		deviceType: deviceType,
		deviceName: deviceName,
		retain:     retain,
	}, nil
}

// DeviceType returns the type of the current device.
func (r *Repository) DeviceType() clip.DeviceType {
	return r.deviceType
}

// DeviceName returns the display name of the current device.
func (r *Repository) DeviceName() string {
	return r.deviceName
}

// Insert persists a text-like item and returns the stored copy.
func (r *Repository) Insert(ctx context.Context, item *clip.Item) (*clip.Item, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	db, err := r.conn.DB()
	if err != nil {
		return nil, gerrors.ErrStoreUnavailable
	}

	stored := *item
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	if err := r.insertRow(ctx, db, &stored); err != nil {
		return nil, err
	}

	r.sweep(ctx, db, stored.OwnerID)
	return &stored, nil
}

// InsertImage persists an image item together with its bytes.
func (r *Repository) InsertImage(ctx context.Context, item *clip.Item, data []byte) (*clip.Item, error) {
	return r.insertWithBlob(ctx, item, data)
}

// InsertFile persists a file item together with its name and bytes.
func (r *Repository) InsertFile(ctx context.Context, item *clip.Item, name string, data []byte) (*clip.Item, error) {
	item.FileName = name
	return r.insertWithBlob(ctx, item, data)
}

func (r *Repository) insertWithBlob(ctx context.Context, item *clip.Item, data []byte) (*clip.Item, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, gerrors.ErrUnsupportedContent
	}

	db, err := r.conn.DB()
	if err != nil {
		return nil, gerrors.ErrStoreUnavailable
	}

	stored := *item
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	stored.ContentRef = "blob:" + uuid.New().String()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO clipboard_blobs (ref, data) VALUES (?, ?)`,
		stored.ContentRef, data,
	); err != nil {
		return nil, fmt.Errorf("could not store payload: %w", err)
	}

	if err := r.insertRowTx(ctx, tx, &stored); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit item: %w", err)
	}

	r.sweep(ctx, db, stored.OwnerID)
	return &stored, nil
}

// GetHistory returns up to limit items, most recent first.
func (r *Repository) GetHistory(ctx context.Context, limit int) ([]*clip.Item, error) {
	if limit <= 0 {
		limit = r.retain
	}

	db, err := r.conn.DB()
	if err != nil {
		return nil, gerrors.ErrStoreUnavailable
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, owner_id, content, content_ref, content_type,
		       device_type, device_name, target_types, file_name,
		       created_at, encrypted
		FROM clipboard_items
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("could not query history: %w", err)
	}
	defer rows.Close()

	var items []*clip.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read history: %w", err)
	}

	return items, nil
}

// DownloadFile fetches the stored bytes for an image or file item.
func (r *Repository) DownloadFile(ctx context.Context, item *clip.Item) ([]byte, bool, error) {
	if item.ContentRef == "" {
		return nil, false, nil
	}

	db, err := r.conn.DB()
	if err != nil {
		return nil, false, gerrors.ErrStoreUnavailable
	}

	var data []byte
	err = db.QueryRowContext(ctx,
		`SELECT data FROM clipboard_blobs WHERE ref = ?`, item.ContentRef,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("could not load payload: %w", err)
	}

	return data, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*clip.Item, error) {
	var (
		item        clip.Item
		contentType string
		deviceType  string
		targets     string
		encrypted   int
	)
	if err := row.Scan(
		&item.ID, &item.OwnerID, &item.Content, &item.ContentRef,
		&contentType, &deviceType, &item.DeviceName, &targets,
		&item.FileName, &item.CreatedAt, &encrypted,
	); err != nil {
		return nil, fmt.Errorf("could not scan item: %w", err)
	}

	item.Type = clip.ContentType(contentType)
	item.DeviceType = clip.DeviceType(deviceType)
	item.TargetTypes = parseTargets(targets)
	item.Encrypted = encrypted != 0
	return &item, nil
}

func (r *Repository) insertRow(ctx context.Context, db *sql.DB, item *clip.Item) error {
	_, err := db.ExecContext(ctx, insertItemSQL, insertItemArgs(item)...)
	if err != nil {
		return fmt.Errorf("could not insert item: %w", err)
	}
	return nil
}

func (r *Repository) insertRowTx(ctx context.Context, tx *sql.Tx, item *clip.Item) error {
	_, err := tx.ExecContext(ctx, insertItemSQL, insertItemArgs(item)...)
	if err != nil {
		return fmt.Errorf("could not insert item: %w", err)
	}
	return nil
}

const insertItemSQL = `
	INSERT INTO clipboard_items (
		id, owner_id, content, content_ref, content_type,
		device_type, device_name, target_types, file_name,
		created_at, encrypted
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func insertItemArgs(item *clip.Item) []any {
	encrypted := 0
	if item.Encrypted {
		encrypted = 1
	}
	return []any{
		item.ID, item.OwnerID, item.Content, item.ContentRef,
		string(item.Type), string(item.DeviceType), item.DeviceName,
		joinTargets(item.TargetTypes), item.FileName,
		item.CreatedAt, encrypted,
	}
}

// sweep prunes the oldest items past the retention cap, deleting any blobs
// they reference. Failures are ignored; the next insert retries.
func (r *Repository) sweep(ctx context.Context, db *sql.DB, ownerID string) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, content_ref FROM clipboard_items
		WHERE owner_id = ?
		ORDER BY created_at DESC
		LIMIT -1 OFFSET ?
	`, ownerID, r.retain)
	if err != nil {
		return
	}

	var ids, refs []string
	for rows.Next() {
		var id, ref string
		if err := rows.Scan(&id, &ref); err != nil {
			rows.Close()
			return
		}
		ids = append(ids, id)
		if ref != "" {
			refs = append(refs, ref)
		}
	}
	rows.Close()

	for _, id := range ids {
		db.ExecContext(ctx, `DELETE FROM clipboard_items WHERE id = ?`, id)
	}
	for _, ref := range refs {
		db.ExecContext(ctx, `DELETE FROM clipboard_blobs WHERE ref = ?`, ref)
	}
}

func joinTargets(targets []clip.DeviceType) string {
	if len(targets) == 0 {
		return ""
	}
	parts := make([]string, len(targets))
	for i, t := range targets {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

func parseTargets(s string) []clip.DeviceType {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	targets := make([]clip.DeviceType, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		targets = append(targets, clip.DeviceType(p))
	}
	if len(targets) == 0 {
		return nil
	}
	return targets
}
