package consultation

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

func (r *repoPG) Create(ctx context.Context, c *Consultation) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO consultations (id, patient_id, doctor_profile_id, notes)
		VALUES ($1, $2, $3, $4)`,
		c.ID, c.PatientID, c.DoctorProfileID, c.Notes,
	)
	if err != nil {
		return err
	}

	for i := range c.Diagnoses {
		d := &c.Diagnoses[i]
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		d.ConsultationID = c.ID
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO diagnoses (id, consultation_id, name, notes)
			VALUES ($1, $2, $3, $4)`,
			d.ID, d.ConsultationID, d.Name, d.Notes,
		); err != nil {
			return err
		}
	}

	for i := range c.Prescriptions {
		p := &c.Prescriptions[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.ConsultationID = c.ID
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO prescriptions (id, consultation_id, medicine_name, dosage, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			p.ID, p.ConsultationID, p.MedicineName, p.Dosage, p.Quantity,
		); err != nil {
			return err
		}
	}

	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	var c Consultation
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, doctor_profile_id, notes, created_at
		FROM consultations WHERE id = $1`, id).Scan(
		&c.ID, &c.PatientID, &c.DoctorProfileID, &c.Notes, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repoPG) loadChildren(ctx context.Context, c *Consultation) error {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, consultation_id, name, notes
		FROM diagnoses WHERE consultation_id = $1`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var d Diagnosis
		if err := rows.Scan(&d.ID, &d.ConsultationID, &d.Name, &d.Notes); err != nil {
			return err
		}
		c.Diagnoses = append(c.Diagnoses, d)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	prows, err := r.conn(ctx).Query(ctx, `
		SELECT id, consultation_id, medicine_name, dosage, quantity, purchased_at, reminder_at
		FROM prescriptions WHERE consultation_id = $1`, c.ID)
	if err != nil {
		return err
	}
	defer prows.Close()
	for prows.Next() {
		var p Prescription
		if err := prows.Scan(&p.ID, &p.ConsultationID, &p.MedicineName, &p.Dosage, &p.Quantity, &p.PurchasedAt, &p.ReminderAt); err != nil {
			return err
		}
		c.Prescriptions = append(c.Prescriptions, p)
	}
	return prows.Err()
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM consultations WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, doctor_profile_id, notes, created_at
		FROM consultations WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var consultations []*Consultation
	for rows.Next() {
		var c Consultation
		if err := rows.Scan(&c.ID, &c.PatientID, &c.DoctorProfileID, &c.Notes, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		consultations = append(consultations, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, c := range consultations {
		if err := r.loadChildren(ctx, c); err != nil {
			return nil, 0, err
		}
	}
	return consultations, total, nil
}

func (r *repoPG) ListByDoctor(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM consultations WHERE doctor_profile_id = $1`, profileID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, doctor_profile_id, notes, created_at
		FROM consultations WHERE doctor_profile_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		profileID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var consultations []*Consultation
	for rows.Next() {
		var c Consultation
		if err := rows.Scan(&c.ID, &c.PatientID, &c.DoctorProfileID, &c.Notes, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		consultations = append(consultations, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, c := range consultations {
		if err := r.loadChildren(ctx, c); err != nil {
			return nil, 0, err
		}
	}
	return consultations, total, nil
}

func (r *repoPG) GetPrescription(ctx context.Context, id uuid.UUID) (*Prescription, uuid.UUID, error) {
	var p Prescription
	var patientID uuid.UUID
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT p.id, p.consultation_id, p.medicine_name, p.dosage, p.quantity, p.purchased_at, p.reminder_at, c.patient_id
		FROM prescriptions p
		JOIN consultations c ON c.id = p.consultation_id
		WHERE p.id = $1`, id).Scan(
		&p.ID, &p.ConsultationID, &p.MedicineName, &p.Dosage, &p.Quantity, &p.PurchasedAt, &p.ReminderAt, &patientID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, uuid.Nil, nil
	}
	if err != nil {
		return nil, uuid.Nil, err
	}
	return &p, patientID, nil
}

func (r *repoPG) MarkPurchased(ctx context.Context, prescriptionID uuid.UUID, at time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE prescriptions SET purchased_at = $2
		WHERE id = $1 AND purchased_at IS NULL`,
		prescriptionID, at,
	)
	return err
}

func (r *repoPG) SetReminder(ctx context.Context, prescriptionID uuid.UUID, at time.Time) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE prescriptions SET reminder_at = $2 WHERE id = $1`, prescriptionID, at)
	return err
}
