package models

// Session is the single authenticated identity of the running client: a
// copy of an Account with the credential hash stripped. Mutating a Session
// does not touch the persisted Account except through explicit directory
// updates.
type Session struct {
	Username  string        `json:"username"`
	FullName  string        `json:"fullName"`
	Email     string        `json:"email,omitempty"`
	Role      Role          `json:"role"`
	Status    AccountStatus `json:"status"`
	CreatedAt string        `json:"createdAt"`
}

// NewSession derives a Session from an Account.
func NewSession(a Account) Session {
	return Session{
		Username:  a.Username,
		FullName:  a.FullName,
		Email:     a.Email,
		Role:      a.Role,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}
}

// IsAdmin reports whether the session belongs to an administrator.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
