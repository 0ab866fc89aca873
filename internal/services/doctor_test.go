package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/simple-ehr/internal/models"
)

func TestDoctorDashboard_AssociatedPatients(t *testing.T) {
	env := newTestEnv(t)
	house := env.doctor(t, "House", "house@example.com")
	wilson := env.doctor(t, "Wilson", "wilson@example.com")
	viaRecord := env.patient(t, "Ada", "ada@example.com")
	viaAppointment := env.patient(t, "Brian", "brian@example.com")
	stranger := env.patient(t, "Carla", "carla@example.com")
	ctx := context.Background()

	older := models.MedicalRecord{Diagnosis: "flu", DoctorID: house.ID, PatientID: viaRecord.ID, Date: time.Now().Add(-48 * time.Hour)}
	newer := models.MedicalRecord{Diagnosis: "cold", DoctorID: house.ID, PatientID: viaRecord.ID, Date: time.Now().Add(-time.Hour)}
	foreign := models.MedicalRecord{Diagnosis: "sprain", DoctorID: wilson.ID, PatientID: viaRecord.ID, Date: time.Now()}
	unrelated := models.MedicalRecord{Diagnosis: "rash", DoctorID: wilson.ID, PatientID: stranger.ID}
	for _, r := range []*models.MedicalRecord{&older, &newer, &foreign, &unrelated} {
		if err := env.mem.Records().Create(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := env.appointments.Book(ctx, viaAppointment.ID, Booking{DoctorID: house.ID.Hex(), Date: futureDate()}); err != nil {
		t.Fatal(err)
	}

	dash, err := env.doctors.Dashboard(ctx, house.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(dash.Patients) != 2 {
		t.Fatalf("expected 2 associated patients, got %d", len(dash.Patients))
	}
	for _, row := range dash.Patients {
		switch row.Patient.ID {
		case viaRecord.ID:
			if row.LatestRecord == nil || row.LatestRecord.ID != newer.ID {
				t.Errorf("expected newest own record, got %+v", row.LatestRecord)
			}
		case viaAppointment.ID:
			if row.LatestRecord != nil {
				t.Errorf("expected no record, got %+v", row.LatestRecord)
			}
		default:
			t.Errorf("unexpected patient %s", row.Patient.Name)
		}
	}
	if dash.PendingCount != 1 || dash.AcceptedCount != 0 {
		t.Errorf("unexpected counts: pending=%d accepted=%d", dash.PendingCount, dash.AcceptedCount)
	}
}

func TestAddRecord_AppearsOnce(t *testing.T) {
	env := newTestEnv(t)
	d := env.doctor(t, "House", "house@example.com")
	p := env.patient(t, "Ada", "ada@example.com")
	ctx := context.Background()

	rec, err := env.doctors.AddRecord(ctx, d.ID, p.ID, RecordInput{Diagnosis: "flu", Prescription: "rest"})
	if err != nil {
		t.Fatalf("add record: %v", err)
	}
	if rec.Pharm != models.PharmNotDispensed {
		t.Errorf("expected default pharm %q, got %q", models.PharmNotDispensed, rec.Pharm)
	}

	detail, err := env.doctors.PatientDetail(ctx, d.ID, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	seen := 0
	for _, r := range detail.Records {
		if r.ID == rec.ID {
			seen++
			if r.DoctorName != "House" {
				t.Errorf("expected doctor name House, got %q", r.DoctorName)
			}
		}
	}
	if seen != 1 {
		t.Errorf("expected record exactly once, got %d", seen)
	}
	if detail.RecentAppointment != nil {
		t.Errorf("expected no appointment, got %+v", detail.RecentAppointment)
	}
}

func TestAddRecord_Rejections(t *testing.T) {
	env := newTestEnv(t)
	d := env.doctor(t, "House", "house@example.com")
	p := env.patient(t, "Ada", "ada@example.com")
	ctx := context.Background()

	if _, err := env.doctors.AddRecord(ctx, d.ID, primitive.NewObjectID(), RecordInput{Diagnosis: "flu"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown patient: expected ErrNotFound, got %v", err)
	}
	if _, err := env.doctors.AddRecord(ctx, d.ID, p.ID, RecordInput{Prescription: "rest"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing diagnosis: expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateRecord(t *testing.T) {
	env := newTestEnv(t)
	house := env.doctor(t, "House", "house@example.com")
	wilson := env.doctor(t, "Wilson", "wilson@example.com")
	p := env.patient(t, "Ada", "ada@example.com")
	other := env.patient(t, "Brian", "brian@example.com")
	ctx := context.Background()

	rec, err := env.doctors.AddRecord(ctx, house.ID, p.ID, RecordInput{Diagnosis: "flu"})
	if err != nil {
		t.Fatal(err)
	}
	if err := env.doctors.UpdateRecord(ctx, other.ID, rec.ID, RecordUpdate{Diagnosis: "cold"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrong patient: expected ErrNotFound, got %v", err)
	}
	if err := env.doctors.UpdateRecord(ctx, p.ID, rec.ID, RecordUpdate{Diagnosis: "cold", Prescription: "tea"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	detail, err := env.doctors.PatientDetail(ctx, wilson.ID, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Records) != 1 || detail.Records[0].Diagnosis != "cold" || detail.Records[0].Prescription != "tea" {
		t.Errorf("unexpected records after update: %+v", detail.Records)
	}
}

func TestPatientDetail_RecentAppointment(t *testing.T) {
	env := newTestEnv(t)
	d := env.doctor(t, "House", "house@example.com")
	p := env.patient(t, "Ada", "ada@example.com")
	ctx := context.Background()

	first, _ := env.appointments.Book(ctx, p.ID, Booking{DoctorID: d.ID.Hex(), Date: "2031-03-01T10:00"})
	last, _ := env.appointments.Book(ctx, p.ID, Booking{DoctorID: d.ID.Hex(), Date: "2031-04-01T10:00"})
	if first == nil || last == nil {
		t.Fatal("booking failed")
	}

	detail, err := env.doctors.PatientDetail(ctx, d.ID, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.RecentAppointment == nil || detail.RecentAppointment.ID != last.ID {
		t.Errorf("expected latest appointment %s, got %+v", last.ID.Hex(), detail.RecentAppointment)
	}
}

func TestPatients_AllWithHistory(t *testing.T) {
	env := newTestEnv(t)
	d := env.doctor(t, "House", "house@example.com")
	a := env.patient(t, "Ada", "ada@example.com")
	env.patient(t, "Brian", "brian@example.com")
	ctx := context.Background()

	if _, err := env.doctors.AddRecord(ctx, d.ID, a.ID, RecordInput{Diagnosis: "flu"}); err != nil {
		t.Fatal(err)
	}
	list, err := env.doctors.Patients(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 patients, got %d", len(list))
	}
	for _, h := range list {
		want := 0
		if h.Patient.ID == a.ID {
			want = 1
		}
		if len(h.Records) != want {
			t.Errorf("%s: expected %d records, got %d", h.Patient.Name, want, len(h.Records))
		}
	}
}
