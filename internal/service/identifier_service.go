package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// IdentifierGenerator issues unguessable identifiers for payments and meeting rooms.
type IdentifierGenerator interface {
	TransactionHash() (string, error)
	MeetingID() (string, error)
}

type randomIdentifierGenerator struct{}

func NewIdentifierGenerator() IdentifierGenerator {
	return randomIdentifierGenerator{}
}

// TransactionHash returns "0x" followed by 64 lowercase hex characters.
func (randomIdentifierGenerator) TransactionHash() (string, error) {
	b, err := randomHex(32)
	if err != nil {
		return "", err
	}
	return "0x" + b, nil
}

// MeetingID returns a 32 character hex room name.
func (randomIdentifierGenerator) MeetingID() (string, error) {
	return randomHex(16)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
