package services

import (
	"context"
	"errors"
	"testing"

	"github.com/harentsoaR/simple-ehr/internal/models"
)

func TestLogin_ValidCredential(t *testing.T) {
	env := newTestEnv(t)
	p := env.patient(t, "Ada", "ada@example.com")

	token, id, err := env.auth.Login(context.Background(), models.RolePatient, "ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
	if id.UserID != p.ID || id.Role != models.RolePatient {
		t.Errorf("unexpected identity: %+v", id)
	}
}

func TestLogin_NormalizesEmail(t *testing.T) {
	env := newTestEnv(t)
	env.patient(t, "Ada", "  Ada@Example.COM ")

	if _, _, err := env.auth.Login(context.Background(), models.RolePatient, "ada@example.com", "secret1"); err != nil {
		t.Fatalf("expected login with normalized email, got %v", err)
	}
}

func TestLogin_Rejections(t *testing.T) {
	env := newTestEnv(t)
	env.patient(t, "Ada", "ada@example.com")
	env.doctor(t, "House", "house@example.com")

	cases := []struct {
		name     string
		role     models.Role
		email    string
		password string
	}{
		{"unknown email", models.RolePatient, "nobody@example.com", "secret1"},
		{"wrong password", models.RolePatient, "ada@example.com", "wrong"},
		{"wrong role", models.RoleDoctor, "ada@example.com", "secret1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := env.auth.Login(context.Background(), tc.role, tc.email, tc.password)
			if !errors.Is(err, ErrInvalidCredential) {
				t.Fatalf("expected ErrInvalidCredential, got %v", err)
			}
		})
	}
}

func TestRegisterPatient_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.patient(t, "Ada", "ada@example.com")

	_, err := env.auth.RegisterPatient(context.Background(), PatientRegistration{
		Name: "Other", Email: "ADA@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	all, err := env.mem.Credentials().ListPatients(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("expected exactly one stored patient, got %d", len(all))
	}
}

func TestRegisterPatient_SameEmailDifferentRole(t *testing.T) {
	env := newTestEnv(t)
	env.doctor(t, "House", "shared@example.com")
	env.patient(t, "Ada", "shared@example.com")
}

func TestRegisterPatient_PasswordMismatch(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.RegisterPatient(context.Background(), PatientRegistration{
		Name: "Ada", Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret2",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.auth.RegisterPatient(ctx, PatientRegistration{
		Name: "Ada", Email: "not-an-email", Password: "secret1", ConfirmPassword: "secret1",
	}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad email: expected ErrInvalidInput, got %v", err)
	}
	if _, err := env.auth.RegisterPatient(ctx, PatientRegistration{
		Name: "Ada", Email: "ada@example.com", Password: "123", ConfirmPassword: "123",
	}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("short password: expected ErrInvalidInput, got %v", err)
	}
	if _, err := env.auth.RegisterDoctor(ctx, DoctorRegistration{
		Name: "House", Email: "house@example.com", Password: "secret1", Designation: "Astrologer",
	}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("designation: expected ErrInvalidInput, got %v", err)
	}
}

func TestRegister_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.mem.Fail = errors.New("connection reset")

	_, err := env.auth.RegisterDoctor(context.Background(), DoctorRegistration{
		Name: "House", Email: "house@example.com", Password: "secret1",
	})
	if !errors.Is(err, ErrStoreFailure) {
		t.Fatalf("expected ErrStoreFailure, got %v", err)
	}
}

func TestLogout_RevokesSession(t *testing.T) {
	env := newTestEnv(t)
	env.patient(t, "Ada", "ada@example.com")
	ctx := context.Background()

	token, id, err := env.auth.Login(ctx, models.RolePatient, "ada@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if err := env.auth.Logout(ctx, id); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := env.sessions.Verify(ctx, token); err == nil {
		t.Fatal("expected revoked token to fail verification")
	}
}
