package usecase

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go-telehealth/internal/domain/entity"

	"github.com/google/uuid"
)

func TestTransactions_ListAndReceipt(t *testing.T) {
	env := newTestEnv(t)
	txs := NewTransactionUsecase(env.log, &fakeTransactionRepo{s: env.store}, &fakeAppointmentRepo{s: env.store})
	patient := env.seedUser(t, entity.RolePatient, "Jane Doe", walletA)
	doctor := env.seedUser(t, entity.RoleDoctor, "Greg House", "")
	stranger := env.seedUser(t, entity.RolePatient, "John Roe", "")

	id := mustRequest(t, env, patient, doctor)
	mustAccept(t, env, doctor, id)
	paid, err := pay(env, patient, id, 5)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}

	forPatient, err := txs.ListTransactions(context.Background(), patient)
	if err != nil || len(forPatient) != 1 {
		t.Fatalf("patient list: %v, %d rows", err, len(forPatient))
	}
	forDoctor, err := txs.ListTransactions(context.Background(), doctor)
	if err != nil || len(forDoctor) != 1 {
		t.Fatalf("doctor list: %v, %d rows", err, len(forDoctor))
	}
	forStranger, _ := txs.ListTransactions(context.Background(), stranger)
	if len(forStranger) != 0 {
		t.Error("stranger must see no transactions")
	}

	pdf, err := txs.GetReceipt(context.Background(), doctor, paid.Transaction.ID)
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("receipt is not a PDF")
	}

	if _, err := txs.GetReceipt(context.Background(), stranger, paid.Transaction.ID); !errors.Is(err, ErrNotTransactionParty) {
		t.Errorf("expected ErrNotTransactionParty, got %v", err)
	}
	if _, err := txs.GetReceipt(context.Background(), patient, uuid.New()); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
}
