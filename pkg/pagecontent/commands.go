package pagecontent

// command pairs a local-state mutation with its captured inverse. Optimistic
// operations apply the command before the Store round-trip and revert it when
// the Store rejects the mutation, so rollback is always "apply the captured
// pre-image" instead of per-call reconstruction.
type command struct {
	apply  func()
	revert func()
}

func (c command) Apply() {
	if c.apply != nil {
		c.apply()
	}
}

func (c command) Revert() {
	if c.revert != nil {
		c.revert()
	}
}
