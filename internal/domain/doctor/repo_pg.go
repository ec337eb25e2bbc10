package doctor

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

// queryable abstracts pgxpool.Pool and pgx.Tx.
type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type profileRepoPG struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepoPG{pool: pool}
}

func (r *profileRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const profileColumns = `id, user_id, license_number, specialization, approved_at, created_at`

func (r *profileRepoPG) Create(ctx context.Context, p *Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctor_profiles (id, user_id, license_number, specialization)
		VALUES ($1, $2, $3, $4)`,
		p.ID, p.UserID, p.LicenseNumber, p.Specialization,
	)
	return err
}

func (r *profileRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return scanProfile(r.conn(ctx).QueryRow(ctx,
		`SELECT `+profileColumns+` FROM doctor_profiles WHERE id = $1`, id))
}

func (r *profileRepoPG) GetByUser(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return scanProfile(r.conn(ctx).QueryRow(ctx,
		`SELECT `+profileColumns+` FROM doctor_profiles WHERE user_id = $1`, userID))
}

func (r *profileRepoPG) Approve(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctor_profiles SET approved_at = $2
		WHERE id = $1 AND approved_at IS NULL`,
		id, at,
	)
	return err
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.UserID, &p.LicenseNumber, &p.Specialization, &p.ApprovedAt, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type locationRepoPG struct {
	pool *pgxpool.Pool
}

func NewLocationRepo(pool *pgxpool.Pool) LocationRepository {
	return &locationRepoPG{pool: pool}
}

func (r *locationRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const locationColumns = `id, profile_id, name, address, approved_at, created_at`

func (r *locationRepoPG) Create(ctx context.Context, l *PracticeLocation) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctor_practice_locations (id, profile_id, name, address)
		VALUES ($1, $2, $3, $4)`,
		l.ID, l.ProfileID, l.Name, l.Address,
	)
	return err
}

func (r *locationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*PracticeLocation, error) {
	var l PracticeLocation
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+locationColumns+` FROM doctor_practice_locations WHERE id = $1`, id).Scan(
		&l.ID, &l.ProfileID, &l.Name, &l.Address, &l.ApprovedAt, &l.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *locationRepoPG) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*PracticeLocation, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+locationColumns+` FROM doctor_practice_locations WHERE profile_id = $1 ORDER BY created_at`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*PracticeLocation
	for rows.Next() {
		var l PracticeLocation
		if err := rows.Scan(&l.ID, &l.ProfileID, &l.Name, &l.Address, &l.ApprovedAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, &l)
	}
	return locations, rows.Err()
}

func (r *locationRepoPG) Approve(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctor_practice_locations SET approved_at = $2
		WHERE id = $1 AND approved_at IS NULL`,
		id, at,
	)
	return err
}

func (r *locationRepoPG) HasApproved(ctx context.Context, profileID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM doctor_practice_locations
			WHERE profile_id = $1 AND approved_at IS NOT NULL
		)`, profileID).Scan(&exists)
	return exists, err
}
