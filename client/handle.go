package client

import "sync"

// Handle is the single-owner access point for the process-wide client: the
// first Get constructs it, every later Get returns the same handle. The
// client is still passed explicitly to consumers so they stay testable with
// a fake.
type Handle struct {
	once   sync.Once
	client Client
	err    error
}

// Get returns the session client, constructing it with open on first use.
func (h *Handle) Get(open func() (Client, error)) (Client, error) {
	h.once.Do(func() {
		h.client, h.err = open()
	})
	return h.client, h.err
}

// Close closes the underlying client if it was ever constructed.
func (h *Handle) Close() error {
	if h.client == nil {
		return nil
	}
	return h.client.Close()
}
