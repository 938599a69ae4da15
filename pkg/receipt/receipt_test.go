package receipt

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRender_ProducesPDF(t *testing.T) {
	out, err := Render(Data{
		TransactionID:   "7f7c2b54-3d3e-4f8a-9c55-1f1c0c7b9b10",
		Hash:            "0x" + string(bytes.Repeat([]byte("a"), 64)),
		AppointmentID:   "0b7a3c1e-0000-4000-8000-000000000001",
		AppointmentDate: "2025-06-01",
		AppointmentTime: "10:30:00",
		DoctorName:      "Dr. Strange",
		PatientName:     "Jane Doe",
		Amount:          decimal.NewFromInt(5),
		Type:            "received",
		Status:          "completed",
		CreatedAt:       time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF document")
	}
}
