package i

import "github.com/google/uuid"

// ViewerTokenizer turns viewer ids into tamper-proof tokens and back.
type ViewerTokenizer interface {
	// Issue creates a token carrying the viewer id.
	Issue(id uuid.UUID) (string, error)

	// Parse validates a token and returns the viewer id it carries.
	Parse(token string) (uuid.UUID, error)
}
