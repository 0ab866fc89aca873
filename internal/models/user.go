package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Designation is the optional speciality of a doctor.
type Designation string

const (
	DesignationConsultant  Designation = "consultant"
	DesignationRadiologist Designation = "radiologist"
	DesignationPharmacist  Designation = "pharmacist"
	DesignationLab         Designation = "lab"
)

var designations = []Designation{DesignationConsultant, DesignationRadiologist, DesignationPharmacist, DesignationLab}

// Designations lists the known specialities in display order.
func Designations() []Designation {
	return append([]Designation(nil), designations...)
}

func ValidDesignation(d Designation) bool {
	if d == "" {
		return true
	}
	for _, known := range designations {
		if d == known {
			return true
		}
	}
	return false
}

type Doctor struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	Role        Role               `bson:"role" json:"role"`
	Designation Designation        `bson:"designation,omitempty" json:"designation,omitempty"`
}

type Patient struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Role     Role               `bson:"role" json:"role"`
}

// Credential is the part of a Doctor or Patient needed to authenticate.
type Credential struct {
	ID       primitive.ObjectID
	Name     string
	Email    string
	Password string
	Role     Role
}

func (d Doctor) Credential() Credential {
	return Credential{ID: d.ID, Name: d.Name, Email: d.Email, Password: d.Password, Role: RoleDoctor}
}

func (p Patient) Credential() Credential {
	return Credential{ID: p.ID, Name: p.Name, Email: p.Email, Password: p.Password, Role: RolePatient}
}

// NormalizeEmail is applied to every email before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
