package task

import (
	"context"
	"errors"

	domain "github.com/ekoc03/pokedex/domain/task"
	"gorm.io/gorm"
)

// Filter narrows a task listing. Zero values impose no constraint.
type Filter struct {
	Status  domain.Status
	OwnerID uint
}

// Repository is the task store used by the service.
type Repository interface {
	Create(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id uint) (*domain.Task, error)
	List(ctx context.Context, filter Filter) ([]domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id uint) error
}

// GormRepository stores tasks in a relational database through GORM.
type GormRepository struct {
	db *gorm.DB
}

var _ Repository = (*GormRepository)(nil)

// NewGormRepository creates a new GormRepository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates or updates the tasks table.
func (r *GormRepository) Migrate() error {
	return r.db.AutoMigrate(&domain.Task{})
}

// Create inserts a task and fills in its id and timestamps.
func (r *GormRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// FindByID returns ErrNotFound when the task does not exist.
func (r *GormRepository) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	var t domain.Task
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns tasks matching filter, earliest due date first.
func (r *GormRepository) List(ctx context.Context, filter Filter) ([]domain.Task, error) {
	query := r.db.WithContext(ctx).Model(&domain.Task{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OwnerID != 0 {
		query = query.Where("user_id = ?", filter.OwnerID)
	}

	tasks := make([]domain.Task, 0)
	if err := query.Order("due_date ASC").Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists every field of t.
func (r *GormRepository) Update(ctx context.Context, t *domain.Task) error {
	result := r.db.WithContext(ctx).Save(t)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Delete removes a task. Deleting a missing task returns ErrNotFound.
func (r *GormRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
