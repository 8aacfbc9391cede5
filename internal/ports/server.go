package ports

// Server is a transport surface (HTTP API or SMTP ingress filter) that
// exposes the validation service.
type Server interface {
	// Start starts serving. It must not block.
	Start() error

	// Stop shuts the surface down.
	Stop() error
}
