package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/simple-ehr/internal/models"
)

// doctorNames resolves the names of the given doctors in one query.
func doctorNames(ctx context.Context, creds CredentialStore, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	doctors, err := creds.DoctorsByIDs(ctx, unique(ids))
	if err != nil {
		return nil, fromStore(err, "resolve doctors")
	}
	names := make(map[primitive.ObjectID]string, len(doctors))
	for _, d := range doctors {
		names[d.ID] = d.Name
	}
	return names, nil
}

func patientNames(ctx context.Context, creds CredentialStore, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	patients, err := creds.PatientsByIDs(ctx, unique(ids))
	if err != nil {
		return nil, fromStore(err, "resolve patients")
	}
	names := make(map[primitive.ObjectID]string, len(patients))
	for _, p := range patients {
		names[p.ID] = p.Name
	}
	return names, nil
}

func recordViews(ctx context.Context, creds CredentialStore, records []models.MedicalRecord) ([]models.RecordView, error) {
	ids := make([]primitive.ObjectID, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.DoctorID)
	}
	names, err := doctorNames(ctx, creds, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, models.RecordView{MedicalRecord: r, DoctorName: names[r.DoctorID]})
	}
	return views, nil
}

func appointmentViews(ctx context.Context, creds CredentialStore, apts []models.Appointment) ([]models.AppointmentView, error) {
	doctorIDs := make([]primitive.ObjectID, 0, len(apts))
	patientIDs := make([]primitive.ObjectID, 0, len(apts))
	for _, a := range apts {
		doctorIDs = append(doctorIDs, a.DoctorID)
		patientIDs = append(patientIDs, a.PatientID)
	}
	doctors, err := doctorNames(ctx, creds, doctorIDs)
	if err != nil {
		return nil, err
	}
	patients, err := patientNames(ctx, creds, patientIDs)
	if err != nil {
		return nil, err
	}
	views := make([]models.AppointmentView, 0, len(apts))
	for _, a := range apts {
		views = append(views, models.AppointmentView{
			Appointment: a,
			DoctorName:  doctors[a.DoctorID],
			PatientName: patients[a.PatientID],
		})
	}
	return views, nil
}

func unique(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
