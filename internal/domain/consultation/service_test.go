package consultation

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medigram/medigram/internal/apperror"
	"github.com/medigram/medigram/internal/platform/auth"
	"github.com/medigram/medigram/internal/platform/consent"
)

type mockRepo struct {
	consultations map[uuid.UUID]*Consultation
	prescriptions map[uuid.UUID]*Prescription
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		consultations: make(map[uuid.UUID]*Consultation),
		prescriptions: make(map[uuid.UUID]*Prescription),
	}
}

func (m *mockRepo) Create(_ context.Context, c *Consultation) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	for i := range c.Prescriptions {
		p := &c.Prescriptions[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.ConsultationID = c.ID
		m.prescriptions[p.ID] = p
	}
	m.consultations[c.ID] = c
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Consultation, error) {
	return m.consultations[id], nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	var result []*Consultation
	for _, c := range m.consultations {
		if c.PatientID == patientID {
			result = append(result, c)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, profileID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	var result []*Consultation
	for _, c := range m.consultations {
		if c.DoctorProfileID == profileID {
			result = append(result, c)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) GetPrescription(_ context.Context, id uuid.UUID) (*Prescription, uuid.UUID, error) {
	p, ok := m.prescriptions[id]
	if !ok {
		return nil, uuid.Nil, nil
	}
	return p, m.consultations[p.ConsultationID].PatientID, nil
}

func (m *mockRepo) MarkPurchased(_ context.Context, id uuid.UUID, at time.Time) error {
	if p, ok := m.prescriptions[id]; ok && p.PurchasedAt == nil {
		p.PurchasedAt = &at
	}
	return nil
}

func (m *mockRepo) SetReminder(_ context.Context, id uuid.UUID, at time.Time) error {
	if p, ok := m.prescriptions[id]; ok {
		p.ReminderAt = &at
	}
	return nil
}

type fakeKeyLookup struct {
	keys map[uuid.UUID]*consent.Key
}

func (f *fakeKeyLookup) Lookup(_ context.Context, deviceID uuid.UUID) (*consent.Key, error) {
	return f.keys[deviceID], nil
}

type fakeApprover struct {
	approved map[uuid.UUID]bool
}

func (f *fakeApprover) HasApprovedLocation(_ context.Context, profileID uuid.UUID) (bool, error) {
	return f.approved[profileID], nil
}

type fakeClinicians struct {
	clinicians map[uuid.UUID]*auth.Clinician
}

func (f *fakeClinicians) FindClinician(_ context.Context, userID uuid.UUID) (*auth.Clinician, error) {
	return f.clinicians[userID], nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc       *Service
	repo      *mockRepo
	nonces    *consent.NonceCache
	approver  *fakeApprover
	patientID uuid.UUID
	deviceID  uuid.UUID
	priv      ed25519.PrivateKey
	doctor    *auth.Clinician
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	patientID := uuid.New()
	deviceID := uuid.New()
	doctorUser := uuid.New()
	doctor := &auth.Clinician{UserID: doctorUser, ProfileID: uuid.New()}

	nonces := consent.NewNonceCache(time.Hour)
	t.Cleanup(nonces.Close)

	keys := &fakeKeyLookup{keys: map[uuid.UUID]*consent.Key{
		deviceID: {UserID: patientID, PublicKey: pub},
	}}
	approver := &fakeApprover{approved: map[uuid.UUID]bool{doctor.ProfileID: true}}
	clinicians := &fakeClinicians{clinicians: map[uuid.UUID]*auth.Clinician{doctorUser: doctor}}

	repo := newMockRepo()
	svc := NewService(repo, consent.NewVerifier(nonces, keys, 0), approver, clinicians, passthroughTx)

	return &fixture{
		svc:       svc,
		repo:      repo,
		nonces:    nonces,
		approver:  approver,
		patientID: patientID,
		deviceID:  deviceID,
		priv:      priv,
		doctor:    doctor,
	}
}

// signedRequest builds a fully signed CreateRequest over a fresh nonce.
func (f *fixture) signedRequest(t *testing.T) CreateRequest {
	t.Helper()
	nonce, _, err := f.nonces.Issue()
	if err != nil {
		t.Fatal(err)
	}
	record := SignedRecord{
		Nonce:     nonce,
		PatientID: f.patientID,
		Notes:     "routine checkup",
		Diagnoses: []DiagnosisInput{{Name: "hypertension"}},
		Prescriptions: []PrescriptionInput{
			{MedicineName: "amlodipine", Dosage: "5mg daily", Quantity: 30},
		},
	}
	canonical, err := consent.Canonicalize(record)
	if err != nil {
		t.Fatal(err)
	}
	return CreateRequest{
		Consent: consent.Consent{
			SignerDeviceID: f.deviceID,
			Nonce:          nonce,
			Signature:      base64.StdEncoding.EncodeToString(ed25519.Sign(f.priv, canonical)),
		},
		SignedRecord: record,
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	req := f.signedRequest(t)

	c, err := f.svc.Create(context.Background(), f.doctor, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.PatientID != f.patientID {
		t.Errorf("patient = %s", c.PatientID)
	}
	if c.DoctorProfileID != f.doctor.ProfileID {
		t.Errorf("doctor profile = %s", c.DoctorProfileID)
	}
	if len(c.Diagnoses) != 1 || len(c.Prescriptions) != 1 {
		t.Errorf("children not written: %+v", c)
	}
}

func TestCreate_NotAClinician(t *testing.T) {
	f := newFixture(t)
	req := f.signedRequest(t)

	_, err := f.svc.Create(context.Background(), nil, req)
	if !apperror.Is(err, apperror.NotLicensed) {
		t.Errorf("expected NotLicensed, got %v", err)
	}
	// the consent was never verified, so the nonce survives
	if !f.nonces.TryConsume(req.Consent.Nonce) {
		t.Error("nonce should not be burned before verification runs")
	}
}

func TestCreate_NoApprovedLocation(t *testing.T) {
	f := newFixture(t)
	f.approver.approved[f.doctor.ProfileID] = false
	req := f.signedRequest(t)

	_, err := f.svc.Create(context.Background(), f.doctor, req)
	if !apperror.Is(err, apperror.LocationNotApproved) {
		t.Errorf("expected LocationNotApproved, got %v", err)
	}
}

func TestCreate_TamperedRecord(t *testing.T) {
	f := newFixture(t)
	req := f.signedRequest(t)
	req.Notes = "changed after signing"

	_, err := f.svc.Create(context.Background(), f.doctor, req)
	if !apperror.Is(err, apperror.NonConsent) {
		t.Errorf("expected NonConsent, got %v", err)
	}
	if len(f.repo.consultations) != 0 {
		t.Error("nothing should be written on a failed consent check")
	}
}

func TestCreate_NonceReplay(t *testing.T) {
	f := newFixture(t)
	req := f.signedRequest(t)

	if _, err := f.svc.Create(context.Background(), f.doctor, req); err != nil {
		t.Fatal(err)
	}
	_, err := f.svc.Create(context.Background(), f.doctor, req)
	if !apperror.Is(err, apperror.NonceInvalid) {
		t.Errorf("expected NonceInvalid on replay, got %v", err)
	}
	if len(f.repo.consultations) != 1 {
		t.Errorf("replay wrote a record: %d consultations", len(f.repo.consultations))
	}
}

func TestCreate_StaleRecordWithFreshNonce(t *testing.T) {
	f := newFixture(t)
	req := f.signedRequest(t)

	if _, err := f.svc.Create(context.Background(), f.doctor, req); err != nil {
		t.Fatal(err)
	}

	// same signed record and signature, but smuggled in under a
	// nonce issued after the patient signed
	fresh, _, err := f.nonces.Issue()
	if err != nil {
		t.Fatal(err)
	}
	req.Consent.Nonce = fresh

	_, err = f.svc.Create(context.Background(), f.doctor, req)
	if !apperror.Is(err, apperror.NonceInvalid) {
		t.Errorf("expected NonceInvalid for stale signed record, got %v", err)
	}
	if len(f.repo.consultations) != 1 {
		t.Errorf("stale record wrote a consultation: %d total", len(f.repo.consultations))
	}
}

func TestGet_AccessControl(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(context.Background(), f.doctor, f.signedRequest(t))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.Get(context.Background(), f.patientID, created.ID); err != nil {
		t.Errorf("patient denied: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), f.doctor.UserID, created.ID); err != nil {
		t.Errorf("authoring doctor denied: %v", err)
	}
	_, err = f.svc.Get(context.Background(), uuid.New(), created.ID)
	if !apperror.Is(err, apperror.NotSameUser) {
		t.Errorf("expected NotSameUser for a stranger, got %v", err)
	}
}

func TestListPatientChart_AccessControl(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Create(context.Background(), f.doctor, f.signedRequest(t)); err != nil {
		t.Fatal(err)
	}

	// any clinician may read a patient chart
	list, total, err := f.svc.ListPatientChart(context.Background(), f.doctor.UserID, f.doctor, f.patientID, 20, 0)
	if err != nil {
		t.Fatalf("clinician denied: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Errorf("total = %d, len = %d", total, len(list))
	}

	// the patient may read their own chart
	if _, _, err := f.svc.ListPatientChart(context.Background(), f.patientID, nil, f.patientID, 20, 0); err != nil {
		t.Errorf("patient denied: %v", err)
	}

	// an ordinary stranger may not
	_, _, err = f.svc.ListPatientChart(context.Background(), uuid.New(), nil, f.patientID, 20, 0)
	if !apperror.Is(err, apperror.NotSameUser) {
		t.Errorf("expected NotSameUser, got %v", err)
	}
}

func TestListAuthored(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Create(context.Background(), f.doctor, f.signedRequest(t)); err != nil {
		t.Fatal(err)
	}

	list, total, err := f.svc.ListAuthored(context.Background(), f.doctor, 20, 0)
	if err != nil {
		t.Fatalf("ListAuthored: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Errorf("total = %d, len = %d", total, len(list))
	}

	_, _, err = f.svc.ListAuthored(context.Background(), nil, 20, 0)
	if !apperror.Is(err, apperror.NotLicensed) {
		t.Errorf("expected NotLicensed for non-clinician, got %v", err)
	}
}

func TestMarkPurchased(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(context.Background(), f.doctor, f.signedRequest(t))
	if err != nil {
		t.Fatal(err)
	}
	prescriptionID := created.Prescriptions[0].ID

	p, err := f.svc.MarkPurchased(context.Background(), f.patientID, prescriptionID)
	if err != nil {
		t.Fatalf("MarkPurchased: %v", err)
	}
	if p.PurchasedAt == nil {
		t.Fatal("expected purchase timestamp")
	}
	first := *p.PurchasedAt

	// marking again keeps the original timestamp
	p, err = f.svc.MarkPurchased(context.Background(), f.patientID, prescriptionID)
	if err != nil {
		t.Fatal(err)
	}
	if !p.PurchasedAt.Equal(first) {
		t.Error("purchase timestamp changed on re-mark")
	}

	// only the patient may mark
	_, err = f.svc.MarkPurchased(context.Background(), uuid.New(), prescriptionID)
	if !apperror.Is(err, apperror.NotSameUser) {
		t.Errorf("expected NotSameUser, got %v", err)
	}
}

func TestSetReminder(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(context.Background(), f.doctor, f.signedRequest(t))
	if err != nil {
		t.Fatal(err)
	}
	prescriptionID := created.Prescriptions[0].ID

	_, err = f.svc.SetReminder(context.Background(), f.patientID, prescriptionID, time.Now().Add(-time.Hour))
	if !apperror.Is(err, apperror.Invalid) {
		t.Errorf("expected Invalid for past reminder, got %v", err)
	}

	at := time.Now().Add(8 * time.Hour)
	p, err := f.svc.SetReminder(context.Background(), f.patientID, prescriptionID, at)
	if err != nil {
		t.Fatalf("SetReminder: %v", err)
	}
	if p.ReminderAt == nil || !p.ReminderAt.Equal(at) {
		t.Errorf("reminder = %v, want %v", p.ReminderAt, at)
	}
}
