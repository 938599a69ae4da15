package entity

// Role is the account kind stored on the user row. It is resolved once into the
// request Session and never re-read by the usecases.
type Role string

const (
	RolePatient Role = "user"
	RoleDoctor  Role = "doctor"
)

func (r Role) IsValid() bool {
	return r == RolePatient || r == RoleDoctor
}

func (r Role) String() string {
	return string(r)
}
