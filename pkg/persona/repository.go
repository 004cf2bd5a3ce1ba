package persona

import "context"

// Repository resolves a caller's pet binding and loads profiles. The
// data is owned and edited by the external admin surface, so profiles
// are re-read on every turn rather than cached here.
type Repository interface {
	// ResolveBinding maps a messaging-platform user id to a pet id.
	// The second return is false when the user has no pet configured.
	ResolveBinding(ctx context.Context, userID string) (string, bool, error)
	LoadProfile(ctx context.Context, petID string) (*Profile, error)
}
