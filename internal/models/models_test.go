package models

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"doctor", RoleDoctor, false},
		{"patient", RolePatient, false},
		{"admin", "", true},
		{"Doctor", "", true},
		{"", "", true},
	} {
		got, err := ParseRole(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseRole(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoleDashboardPath(t *testing.T) {
	if RoleDoctor.DashboardPath() != "/doctor/dashboard" {
		t.Errorf("unexpected doctor path %s", RoleDoctor.DashboardPath())
	}
	if RolePatient.DashboardPath() != "/patient/dashboard" {
		t.Errorf("unexpected patient path %s", RolePatient.DashboardPath())
	}
	if Role("nurse").DashboardPath() != "/login" {
		t.Error("unknown role should land on /login")
	}
}

func TestStatusTransition(t *testing.T) {
	next, changed, err := StatusPending.Transition(StatusAccepted)
	if err != nil || !changed || next != StatusAccepted {
		t.Fatalf("pending->accepted = %s %v %v", next, changed, err)
	}

	next, changed, err = StatusPending.Transition(StatusRejected)
	if err != nil || !changed || next != StatusRejected {
		t.Fatalf("pending->rejected = %s %v %v", next, changed, err)
	}

	next, changed, err = StatusAccepted.Transition(StatusAccepted)
	if err != nil || changed || next != StatusAccepted {
		t.Fatalf("accepted->accepted should be a no-op, got %s %v %v", next, changed, err)
	}

	next, _, err = StatusAccepted.Transition(StatusRejected)
	if !errors.Is(err, ErrTerminalStatus) || next != StatusAccepted {
		t.Fatalf("accepted->rejected should fail, got %s %v", next, err)
	}

	if _, _, err = StatusAccepted.Transition(StatusPending); err == nil {
		t.Fatal("no transition may re-enter pending")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jane.Doe@Example.COM "); got != "jane.doe@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestValidDesignation(t *testing.T) {
	if !ValidDesignation("") || !ValidDesignation(DesignationLab) {
		t.Error("empty and known designations are valid")
	}
	if ValidDesignation("surgeon") {
		t.Error("unknown designation accepted")
	}
}
