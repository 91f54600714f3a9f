package cache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// The store never connected; every cache call is a no-op for process life.
	StoreDisabled(err error)

	// One live store operation failed and was converted into a miss/no-op.
	// op ∈ {"get", "set", "delete", "keys", "flush"}
	StoreDegraded(op, key string, err error)

	// An entry was deleted by the cache on read.
	// reason ∈ {"corrupt", "value_decode"}
	SelfHeal(storageKey, reason string)

	// A value outside the serializable variant set was rejected at Set.
	EncodeRejected(key string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) StoreDisabled(error)                 {}
func (NopHooks) StoreDegraded(string, string, error) {}
func (NopHooks) SelfHeal(string, string)             {}
func (NopHooks) EncodeRejected(string, error)        {}
