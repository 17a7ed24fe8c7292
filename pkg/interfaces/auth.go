package interfaces

import "context"

// AuthProvider answers who is editing a section and whether they may write
// it. The bearer middleware puts the caller on the request context.
type AuthProvider interface {
	CurrentUserID(ctx context.Context) (string, error)
	HasPermission(ctx context.Context, permission string) (bool, error)
}
