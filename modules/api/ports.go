package api

import (
	"context"

	domain "github.com/ekoc03/pokedex/domain/task"
	"github.com/ekoc03/pokedex/modules/activity"
	"github.com/ekoc03/pokedex/modules/catalog"
	"github.com/ekoc03/pokedex/modules/task"
)

// TaskService is the task module surface used by the handlers.
type TaskService interface {
	Create(ctx context.Context, ownerID uint, payload task.TaskPayload) (*domain.Task, error)
	List(ctx context.Context, filter task.Filter) ([]domain.Task, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]domain.Task, error)
	GetByID(ctx context.Context, id uint) (*domain.Task, error)
	Update(ctx context.Context, id, ownerID uint, payload task.TaskPayload) (*domain.Task, error)
	Delete(ctx context.Context, id, ownerID uint) error
}

// CatalogService is the catalog module surface used by the handlers.
type CatalogService interface {
	ListPage(ctx context.Context, page, limit int, search string) (*catalog.PaginatedResponse[catalog.Pokemon], error)
	GetDetail(ctx context.Context, id int) (*catalog.PokemonDetail, error)
}

// ActivityFeed exposes a user's recent task activity.
type ActivityFeed interface {
	Recent(userID uint, limit int) []activity.Entry
}

var (
	_ TaskService    = (*task.Service)(nil)
	_ CatalogService = (*catalog.Service)(nil)
	_ ActivityFeed   = (*activity.Module)(nil)
)
