package ports

// PoolRefiller defines the interface for the long-running pool top-up surface
type PoolRefiller interface {
	// Start starts the refiller
	Start() error

	// Stop stops the refiller and waits for an in-flight run to finish
	Stop() error
}
