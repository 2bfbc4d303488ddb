package ports

import "context"

// ClassifierRepository persists the classifier name the host settled on.
type ClassifierRepository interface {
	// Load returns the saved name.
	// Returns "" and nil error if nothing was saved yet.
	Load(ctx context.Context) (string, error)

	// Save persists the name atomically.
	Save(ctx context.Context, name string) error
}
