package views

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/harentsoaR/simple-ehr/internal/models"
	"github.com/harentsoaR/simple-ehr/internal/services"
)

func TestLoad_DefinesEveryPage(t *testing.T) {
	tmpl, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	pages := []string{
		"login", "register",
		"doctor/register", "doctor/dashboard", "doctor/patients", "doctor/patient-details", "doctor/appointments",
		"patient/dashboard", "patient/records",
	}
	for _, name := range pages {
		if tmpl.Lookup(name) == nil {
			t.Errorf("template %q not defined", name)
		}
	}
}

func TestRender_PatientRecords(t *testing.T) {
	tmpl, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	data := map[string]interface{}{
		"Title":   "Medical Records",
		"Layout":  "patient",
		"Success": "",
		"Error":   "",
		"Records": &services.PatientRecords{
			Patient: models.Patient{Name: "Ada <script>"},
			Records: []models.RecordView{{
				MedicalRecord: models.MedicalRecord{Diagnosis: "flu", Pharm: "no", Date: time.Date(2030, 2, 1, 0, 0, 0, 0, time.Local)},
				DoctorName:    "House",
			}},
		},
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "patient/records", data); err != nil {
		t.Fatalf("execute: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Feb 1, 2030", "House", "flu", "Ada &lt;script&gt;"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestFormat_UsesServerZone(t *testing.T) {
	saved := time.Local
	time.Local = time.FixedZone("EAT", 3*60*60)
	t.Cleanup(func() { time.Local = saved })

	stored := time.Date(2030, 2, 1, 22, 30, 0, 0, time.UTC)
	date := funcs["formatDate"].(func(time.Time) string)
	dateTime := funcs["formatDateTime"].(func(time.Time) string)

	if got := date(stored); got != "Feb 2, 2030" {
		t.Errorf("formatDate: got %q", got)
	}
	if got := dateTime(stored); got != "Feb 2, 2030 1:30 AM" {
		t.Errorf("formatDateTime: got %q", got)
	}
	if got := dateTime(time.Time{}); got != "" {
		t.Errorf("zero time: got %q", got)
	}
}
