package entity

import "github.com/google/uuid"

// Session is the authenticated caller of one request. It is built by the HTTP
// layer and passed explicitly into every usecase call.
type Session struct {
	UserID uuid.UUID
	Email  string
	Role   Role

	// ConnectedWallet is the address the client reports as currently connected.
	// Empty means no wallet is connected.
	ConnectedWallet string
}

func (s *Session) IsPatient() bool {
	return s != nil && s.Role == RolePatient
}

func (s *Session) IsDoctor() bool {
	return s != nil && s.Role == RoleDoctor
}

func (s *Session) HasWallet() bool {
	return s != nil && s.ConnectedWallet != ""
}
