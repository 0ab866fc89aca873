package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/harentsoaR/simple-ehr/internal/config"
	"github.com/harentsoaR/simple-ehr/internal/models"
)

// Notifier is told about appointment decisions after they are stored.
type Notifier interface {
	AppointmentDecided(patient models.Patient, doctor models.Doctor, apt models.Appointment)
}

// MailSender is satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailNotifier emails the patient when a doctor accepts or rejects their
// appointment. Without an SMTP host it only logs.
type MailNotifier struct {
	sender MailSender
	from   string
	log    *logrus.Logger
}

func NewMailNotifier(cfg config.SMTPConfig, log *logrus.Logger) *MailNotifier {
	n := &MailNotifier{from: cfg.From, log: log}
	if cfg.Host != "" {
		n.sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	}
	return n
}

func newMailNotifierWithSender(sender MailSender, from string, log *logrus.Logger) *MailNotifier {
	return &MailNotifier{sender: sender, from: from, log: log}
}

func (n *MailNotifier) AppointmentDecided(patient models.Patient, doctor models.Doctor, apt models.Appointment) {
	if patient.Email == "" {
		n.log.WithField("appointment_id", apt.ID.Hex()).Warn("mail not sent: patient has no email")
		return
	}
	if n.sender == nil {
		n.log.WithFields(logrus.Fields{
			"appointment_id": apt.ID.Hex(),
			"status":         apt.Status,
		}).Debug("mail disabled: SMTP_HOST not set")
		return
	}

	// Send in a goroutine so the decision request is not held by SMTP.
	go n.send(decisionMessage(n.from, patient, doctor, apt))
}

func (n *MailNotifier) send(m *gomail.Message) {
	to := m.GetHeader("To")
	if err := n.sender.DialAndSend(m); err != nil {
		n.log.WithError(err).WithField("to", to).Error("failed to send appointment mail")
		return
	}
	n.log.WithField("to", to).Info("appointment mail sent")
}

func decisionMessage(from string, patient models.Patient, doctor models.Doctor, apt models.Appointment) *gomail.Message {
	when := apt.Date.In(time.Local).Format("Jan 2, 2006 at 3:04 PM")

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", patient.Email)
	m.SetHeader("Subject", fmt.Sprintf("Your appointment was %s", apt.Status))
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nDr. %s has %s your appointment on %s.\n",
		patient.Name, doctor.Name, apt.Status, when,
	))
	return m
}
