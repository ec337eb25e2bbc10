package measurement

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medigram/medigram/internal/platform/db"
)

// queryable abstracts pgxpool.Pool and pgx.Tx.
type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const measurementColumns = `id, user_id, height_cm, weight_kg, systolic_bp, diastolic_bp, recorded_at`

func (r *repoPG) Create(ctx context.Context, m *Measurement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO user_measurements (id, user_id, height_cm, weight_kg, systolic_bp, diastolic_bp)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.UserID, m.HeightCM, m.WeightKG, m.SystolicBP, m.DiastolicBP,
	)
	return err
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Measurement, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM user_measurements WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+measurementColumns+` FROM user_measurements WHERE user_id = $1 ORDER BY recorded_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var measurements []*Measurement
	for rows.Next() {
		var m Measurement
		if err := rows.Scan(&m.ID, &m.UserID, &m.HeightCM, &m.WeightKG, &m.SystolicBP, &m.DiastolicBP, &m.RecordedAt); err != nil {
			return nil, 0, err
		}
		measurements = append(measurements, &m)
	}
	return measurements, total, rows.Err()
}

func (r *repoPG) Latest(ctx context.Context, userID uuid.UUID) (*Measurement, error) {
	var m Measurement
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+measurementColumns+` FROM user_measurements WHERE user_id = $1 ORDER BY recorded_at DESC LIMIT 1`,
		userID).Scan(&m.ID, &m.UserID, &m.HeightCM, &m.WeightKG, &m.SystolicBP, &m.DiastolicBP, &m.RecordedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
