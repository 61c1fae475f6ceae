package domain

// Identity is the authenticated caller of an operation. A nil *Identity is an anonymous caller.
type Identity struct {
	UserID   uint
	Username string
}
