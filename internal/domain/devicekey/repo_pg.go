package devicekey

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medigram/medigram/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

// queryable abstracts pgxpool.Pool and pgx.Tx.
type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const keyColumns = `device_id, user_id, public_key, created_at, revoked_at`

func (r *repoPG) Register(ctx context.Context, key *DeviceKey) error {
	if key.DeviceID == uuid.Nil {
		key.DeviceID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO device_keys (device_id, user_id, public_key)
		VALUES ($1, $2, $3)`,
		key.DeviceID, key.UserID, key.PublicKey,
	)
	return err
}

func (r *repoPG) Lookup(ctx context.Context, deviceID uuid.UUID) (*DeviceKey, error) {
	var k DeviceKey
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+keyColumns+` FROM device_keys WHERE device_id = $1`, deviceID).Scan(
		&k.DeviceID, &k.UserID, &k.PublicKey, &k.CreatedAt, &k.RevokedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *repoPG) Revoke(ctx context.Context, deviceID uuid.UUID, at time.Time) error {
	// the IS NULL guard makes re-revocation a no-op
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE device_keys SET revoked_at = $2
		WHERE device_id = $1 AND revoked_at IS NULL`,
		deviceID, at,
	)
	return err
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]*DeviceKey, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+keyColumns+` FROM device_keys WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []*DeviceKey
	for rows.Next() {
		var k DeviceKey
		if err := rows.Scan(&k.DeviceID, &k.UserID, &k.PublicKey, &k.CreatedAt, &k.RevokedAt); err != nil {
			return nil, err
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}
