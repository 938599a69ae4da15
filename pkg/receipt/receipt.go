package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Data is everything printed on a payment receipt.
type Data struct {
	TransactionID   string
	Hash            string
	AppointmentID   string
	AppointmentDate string
	AppointmentTime string
	DoctorName      string
	PatientName     string
	Amount          decimal.Decimal
	Type            string
	Status          string
	Description     string
	CreatedAt       time.Time
}

// Render builds an A4 receipt and returns the PDF bytes.
func Render(d Data) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 70, 140)
	pdf.CellFormat(0, 10, "Telehealth Payment Receipt", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, "Issued "+d.CreatedAt.UTC().Format("2006-01-02 15:04:05 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Payment Details", "1", 1, "C", false, 0, "")

	addDetail(pdf, "Transaction", d.TransactionID)
	addDetail(pdf, "Hash", d.Hash)
	if d.AppointmentID != "" {
		addDetail(pdf, "Appointment", d.AppointmentID)
		addDetail(pdf, "Scheduled", fmt.Sprintf("%s %s", d.AppointmentDate, d.AppointmentTime))
	}
	addDetail(pdf, "Doctor", d.DoctorName)
	addDetail(pdf, "Patient", d.PatientName)
	addDetail(pdf, "Type", d.Type)
	addDetail(pdf, "Status", d.Status)
	if d.Description != "" {
		addDetail(pdf, "Description", d.Description)
	}

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(45, 10, "Amount", "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 10, d.Amount.StringFixed(2), "1", 1, "", false, 0, "")

	pdf.SetY(pdf.GetY() + 12)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 10, "This is a computer generated receipt", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func addDetail(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(45, 10, label, "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 10, value, "1", 1, "", false, 0, "")
}
