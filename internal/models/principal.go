package models

// Principal is the authenticated identity attached to a request.
type Principal struct {
	AccountID uint
	Role      Role
	Email     string
}

func (p Principal) Is(role Role) bool {
	return p.AccountID != 0 && p.Role == role
}
