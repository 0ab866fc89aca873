package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/simple-ehr/internal/models"
	"github.com/harentsoaR/simple-ehr/internal/session"
	"github.com/harentsoaR/simple-ehr/internal/store/memstore"
)

type recordingNotifier struct {
	mu        sync.Mutex
	decisions []models.Appointment
}

func (n *recordingNotifier) AppointmentDecided(_ models.Patient, _ models.Doctor, apt models.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.decisions = append(n.decisions, apt)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.decisions)
}

type testEnv struct {
	mem          *memstore.Store
	sessions     *session.Manager
	notifier     *recordingNotifier
	auth         *AuthService
	doctors      *DoctorService
	appointments *AppointmentService
	patients     *PatientService
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := quietLogger()
	mem := memstore.New()
	creds, records, apts := mem.Credentials(), mem.Records(), mem.Appointments()
	sessions := session.NewManager("test-secret", time.Hour, session.NewMemoryRevocations())
	notifier := &recordingNotifier{}

	return &testEnv{
		mem:          mem,
		sessions:     sessions,
		notifier:     notifier,
		auth:         NewAuthService(creds, sessions, bcrypt.MinCost, log),
		doctors:      NewDoctorService(creds, records, apts, log),
		appointments: NewAppointmentService(creds, apts, notifier, log),
		patients:     NewPatientService(creds, records, apts, log),
	}
}

func (e *testEnv) doctor(t *testing.T, name, email string) *models.Doctor {
	t.Helper()
	d, err := e.auth.RegisterDoctor(context.Background(), DoctorRegistration{
		Name: name, Email: email, Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register doctor: %v", err)
	}
	return d
}

func (e *testEnv) patient(t *testing.T, name, email string) *models.Patient {
	t.Helper()
	p, err := e.auth.RegisterPatient(context.Background(), PatientRegistration{
		Name: name, Email: email, Password: "secret1", ConfirmPassword: "secret1",
	})
	if err != nil {
		t.Fatalf("register patient: %v", err)
	}
	return p
}
