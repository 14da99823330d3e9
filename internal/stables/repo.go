package stables

import (
	"context"

	"github.com/equilog/equilog-backend/pkg/db/models"
	"github.com/equilog/equilog-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes stable persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the stable and fills in its id.
func (r *Repository) Create(ctx context.Context, stable *models.Stable) error {
	return r.db.WithContext(ctx).Create(stable).Error
}

// FindByID loads a stable.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.Stable, error) {
	var stable models.Stable
	if err := r.db.WithContext(ctx).First(&stable, id).Error; err != nil {
		return nil, err
	}
	return &stable, nil
}

// CountMembersAndHorses returns the roster sizes of a stable.
func (r *Repository) CountMembersAndHorses(ctx context.Context, id int) (int64, int64, error) {
	var members, horses int64
	if err := r.db.WithContext(ctx).Model(&models.UserStable{}).Where("stable_id = ?", id).Count(&members).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.StableHorse{}).Where("stable_id = ?", id).Count(&horses).Error; err != nil {
		return 0, 0, err
	}
	return members, horses, nil
}

// Search matches term against name, county and address. Name prefix matches
// rank first, then name, county and address substring matches, then name.
// An empty term lists stables by name.
func (r *Repository) Search(ctx context.Context, term string, page pagination.Page) ([]models.Stable, error) {
	q := r.db.WithContext(ctx).Model(&models.Stable{})
	if term != "" {
		starts := term + "%"
		contains := "%" + term + "%"
		q = q.
			Where("lower(name) LIKE ? OR lower(county) LIKE ? OR lower(address) LIKE ?", contains, contains, contains).
			Order(clause.OrderBy{Expression: clause.Expr{
				SQL: "CASE WHEN lower(name) LIKE ? THEN 0 WHEN lower(name) LIKE ? THEN 1 WHEN lower(county) LIKE ? THEN 2 WHEN lower(address) LIKE ? THEN 3 ELSE 4 END",
				Vars: []any{starts, contains, contains, contains},
			}})
	}
	var rows []models.Stable
	err := q.Order("name").Order("id").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the mutable stable columns.
func (r *Repository) Update(ctx context.Context, stable *models.Stable) error {
	return r.db.WithContext(ctx).
		Model(stable).
		Select("name", "type", "county", "address", "post_code", "box_count").
		Updates(stable).Error
}

// SetProfilePicture stores the picture URL of a stable.
func (r *Repository) SetProfilePicture(ctx context.Context, id int, pictureURL string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Stable{}).
		Where("id = ?", id).
		Update("profile_picture", pictureURL)
	return res.RowsAffected, res.Error
}

// Delete removes the stable; memberships, horses links, posts and events cascade.
func (r *Repository) Delete(ctx context.Context, id int) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Stable{}, id)
	return res.RowsAffected, res.Error
}

// FindLocation looks up post code reference data.
func (r *Repository) FindLocation(ctx context.Context, postCode string) (*models.StableLocation, error) {
	var loc models.StableLocation
	if err := r.db.WithContext(ctx).Where("post_code = ?", postCode).First(&loc).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}
