package pet

import "context"

type Repository interface {
	Create(ctx context.Context, p *Pet) error
	GetByID(ctx context.Context, id uint) (*Pet, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]*Pet, error)
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
}
