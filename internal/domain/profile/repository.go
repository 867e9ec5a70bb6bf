package profile

import "context"

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	Update(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID uint) (*Profile, error)
	// ListSharingLocation returns consenting profiles that have both coordinates.
	ListSharingLocation(ctx context.Context) ([]*Profile, error)
}
