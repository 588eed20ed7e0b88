package model

// MembershipLevel affects peak-hour priority and billing discounts.
type MembershipLevel int

const (
	Regular MembershipLevel = iota
	Premium
)

func (l MembershipLevel) String() string {
	if l == Premium {
		return "premium"
	}
	return "regular"
}

// User is an account that can own vehicles and hold bookings.
type User struct {
	ID    int
	Name  string
	Level MembershipLevel
}
