package contract

// SessionStore is keyed, process-lifetime state with create/read/update/delete.
// Values are owned by the store: Get returns a copy, and Update commits the
// mutated copy only when the mutator succeeds.
type SessionStore[V any] interface {
	// Create allocates a fresh id, builds the value for it and stores it.
	Create(build func(id string) V) string
	Get(id string) (V, error)
	Update(id string, mutate func(v *V) error) error
	Delete(id string) error
	Count() int
}
