// Package state tracks the single piece of conversation state this
// bot has: which users are awaiting a month selection, and which
// months they may pick from.
package state

// Pending is the awaiting-month-selection marker for one user. Months
// holds the labels that were offered; a reply is validated against
// them case-insensitively.
type Pending struct {
	Months []string
}

// Store keys pending selections by user id. Implementations must keep
// per-user entries independent so one user's flow never leaks into
// another's.
type Store interface {
	Get(userID int64) (Pending, bool)
	Set(userID int64, p Pending)
	Clear(userID int64)
}
