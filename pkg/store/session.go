package store

import "time"

// Session is the server-side state of one client's progress through a
// workflow. C is the immutable configuration, H one history step and D the
// model-derived state that is overwritten rather than appended.
type Session[C, H, D any] struct {
	ID      string `json:"id"`
	Config  C      `json:"config"`
	History []H    `json:"history"`
	// Cursor counts completed steps; len(History) == Cursor.
	Cursor int `json:"cursor"`
	// Max bounds Cursor.
	Max     int `json:"max"`
	Derived D   `json:"derived"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Completed reports whether the step budget is spent.
func (s Session[C, H, D]) Completed() bool {
	return s.Cursor >= s.Max
}

// Last returns the most recent history step.
func (s Session[C, H, D]) Last() (H, bool) {
	if len(s.History) == 0 {
		var zero H
		return zero, false
	}
	return s.History[len(s.History)-1], true
}

// Clone copies the history slice. cloneDerived, when non-nil, deep-copies D.
func (s Session[C, H, D]) Clone(cloneDerived func(D) D) Session[C, H, D] {
	s.History = append([]H(nil), s.History...)
	if cloneDerived != nil {
		s.Derived = cloneDerived(s.Derived)
	}
	return s
}
