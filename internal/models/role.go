package models

import "fmt"

// Role is the fixed tag of a credential. Only Doctor and Patient exist.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleDoctor:
		return RoleDoctor, nil
	case RolePatient:
		return RolePatient, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }

// DashboardPath is where a freshly logged-in user of this role lands.
func (r Role) DashboardPath() string {
	switch r {
	case RoleDoctor:
		return "/doctor/dashboard"
	case RolePatient:
		return "/patient/dashboard"
	default:
		return "/login"
	}
}
