package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const PharmNotDispensed = "no"

type MedicalRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Diagnosis    string             `bson:"diagnosis" json:"diagnosis"`
	Prescription string             `bson:"prescription,omitempty" json:"prescription,omitempty"`
	Lab          string             `bson:"lab,omitempty" json:"lab,omitempty"`
	Radio        string             `bson:"radio,omitempty" json:"radio,omitempty"`
	Pharm        string             `bson:"pharm" json:"pharm"`
	DoctorID     primitive.ObjectID `bson:"doctor" json:"doctorId"`
	PatientID    primitive.ObjectID `bson:"patient" json:"patientId"`
	Date         time.Time          `bson:"date" json:"date"`
}

// RecordView is a record annotated with the name of the doctor who wrote it.
type RecordView struct {
	MedicalRecord
	DoctorName string
}
