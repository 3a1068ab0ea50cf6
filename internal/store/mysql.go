package store

import (
	"context"
	"database/sql"
	"strings"
)

// MySQL persists sessions in a device_sessions table, one row per
// device/key pair.  Useful when the gateway runs next to a restaurant
// database and no Redis is available.
type MySQL struct {
	db *sql.DB
}

// NewMySQL binds the store to an open database handle.
func NewMySQL(db *sql.DB) *MySQL { return &MySQL{db: db} }

// EnsureSchema creates the backing table when it does not exist yet.
func (m *MySQL) EnsureSchema(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS device_sessions (
			device_id  VARCHAR(64)  NOT NULL,
			k          VARCHAR(32)  NOT NULL,
			v          TEXT         NOT NULL,
			updated_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
			             ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (device_id, k)
		)`)
	return err
}

func (m *MySQL) Get(ctx context.Context, deviceID, key string) (string, error) {
	var v string
	err := m.db.QueryRowContext(ctx,
		`SELECT v FROM device_sessions WHERE device_id = ? AND k = ?`,
		deviceID, key,
	).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return v, err
}

func (m *MySQL) Set(ctx context.Context, deviceID, key, value string) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO device_sessions (device_id, k, v) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE v = VALUES(v)`,
		deviceID, key, value,
	)
	return err
}

func (m *MySQL) Clear(ctx context.Context, deviceID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, 0, len(keys)+1)
	args = append(args, deviceID)
	for _, k := range keys {
		args = append(args, k)
	}
	_, err := m.db.ExecContext(ctx,
		`DELETE FROM device_sessions WHERE device_id = ? AND k IN (`+placeholders+`)`,
		args...,
	)
	return err
}
