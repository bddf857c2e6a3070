package port

import "context"

// LabelResolver maps an address to a human-readable label. Resolution
// failures fall back to a shortened form of the raw address and never block
// the caller.
type LabelResolver interface {
	Resolve(ctx context.Context, address string) string
}
