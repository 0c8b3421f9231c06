package lifecycle

import "context"

// Component is anything the application starts on boot and stops on shutdown.
type Component interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
