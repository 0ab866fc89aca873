package services

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/simple-ehr/internal/models"
	"github.com/harentsoaR/simple-ehr/internal/session"
	"github.com/harentsoaR/simple-ehr/internal/store"
	"github.com/harentsoaR/simple-ehr/internal/utils"
)

type AuthService struct {
	creds    CredentialStore
	sessions *session.Manager
	hashCost int
	log      *logrus.Logger
}

func NewAuthService(creds CredentialStore, sessions *session.Manager, hashCost int, log *logrus.Logger) *AuthService {
	if hashCost == 0 {
		hashCost = utils.DefaultHashCost
	}
	return &AuthService{creds: creds, sessions: sessions, hashCost: hashCost, log: log}
}

// Login checks the password against the credential of the given role and
// issues a session token. Unknown email and wrong password are reported the
// same way.
func (s *AuthService) Login(ctx context.Context, role models.Role, email, password string) (string, session.Identity, error) {
	cred, err := s.creds.FindByEmail(ctx, role, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", session.Identity{}, ErrInvalidCredential
		}
		return "", session.Identity{}, fromStore(err, "find credential")
	}
	if !utils.CheckPasswordHash(password, cred.Password) {
		return "", session.Identity{}, ErrInvalidCredential
	}

	token, id, err := s.sessions.Issue(cred.ID, cred.Role)
	if err != nil {
		return "", session.Identity{}, errors.Wrap(err, "issue session")
	}
	s.log.WithFields(logrus.Fields{"user_id": cred.ID.Hex(), "role": cred.Role}).Info("login succeeded")
	return token, id, nil
}

func (s *AuthService) Logout(ctx context.Context, id session.Identity) error {
	if err := s.sessions.Revoke(ctx, id); err != nil {
		return errors.Wrap(err, "revoke session")
	}
	return nil
}

func (s *AuthService) RegisterDoctor(ctx context.Context, reg DoctorRegistration) (*models.Doctor, error) {
	reg.Email = models.NormalizeEmail(reg.Email)
	if err := reg.Validate(); err != nil {
		return nil, invalid("register doctor", err)
	}
	if err := s.ensureEmailFree(ctx, models.RoleDoctor, reg.Email); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(reg.Password, s.hashCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	doctor := &models.Doctor{
		Name:        reg.Name,
		Email:       reg.Email,
		Password:    hash,
		Designation: reg.Designation,
	}
	if err := s.creds.CreateDoctor(ctx, doctor); err != nil {
		return nil, fromStore(err, "create doctor")
	}
	s.log.WithField("doctor_id", doctor.ID.Hex()).Info("doctor registered")
	return doctor, nil
}

func (s *AuthService) RegisterPatient(ctx context.Context, reg PatientRegistration) (*models.Patient, error) {
	reg.Email = models.NormalizeEmail(reg.Email)
	if err := reg.Validate(); err != nil {
		return nil, invalid("register patient", err)
	}
	if err := s.ensureEmailFree(ctx, models.RolePatient, reg.Email); err != nil {
		return nil, err
	}
	if reg.Password != reg.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	hash, err := utils.HashPassword(reg.Password, s.hashCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	patient := &models.Patient{
		Name:     reg.Name,
		Email:    reg.Email,
		Password: hash,
	}
	if err := s.creds.CreatePatient(ctx, patient); err != nil {
		return nil, fromStore(err, "create patient")
	}
	s.log.WithField("patient_id", patient.ID.Hex()).Info("patient registered")
	return patient, nil
}

func (s *AuthService) ensureEmailFree(ctx context.Context, role models.Role, email string) error {
	exists, err := s.creds.EmailExists(ctx, role, email)
	if err != nil {
		return fromStore(err, "check email")
	}
	if exists {
		return errors.Wrapf(ErrConflict, "%s email already registered", role)
	}
	return nil
}
