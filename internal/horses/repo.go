package horses

import (
	"context"

	"github.com/equilog/equilog-backend/pkg/db/models"
	"github.com/equilog/equilog-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes horse, stable-horse and user-horse persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, horse *models.Horse) error {
	return r.db.WithContext(ctx).Create(horse).Error
}

func (r *Repository) FindByID(ctx context.Context, id int) (*models.Horse, error) {
	var horse models.Horse
	if err := r.db.WithContext(ctx).First(&horse, id).Error; err != nil {
		return nil, err
	}
	return &horse, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Horse, error) {
	var rows []models.Horse
	if err := r.db.WithContext(ctx).Order("name, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, horse *models.Horse) error {
	return r.db.WithContext(ctx).
		Model(horse).
		Select("name", "color", "breed", "birth_date", "description").
		Updates(horse).Error
}

// Delete removes the horse; its stable and user links cascade.
func (r *Repository) Delete(ctx context.Context, id int) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Horse{}, id)
	return res.RowsAffected, res.Error
}

// ListUsers returns every user linked to the given horses.
func (r *Repository) ListUsers(ctx context.Context, horseIDs ...int) ([]horseUserRow, error) {
	var rows []horseUserRow
	if len(horseIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Table("user_horses").
		Select("user_horses.horse_id, users.id AS user_id, users.first_name, users.last_name, user_horses.user_role").
		Joins("JOIN users ON users.id = user_horses.user_id").
		Where("user_horses.horse_id IN ?", horseIDs).
		Order("user_horses.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// StableExists reports whether a stable row exists.
func (r *Repository) StableExists(ctx context.Context, id int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Stable{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UserExists reports whether a user row exists.
func (r *Repository) UserExists(ctx context.Context, id int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CreateStableHorse(ctx context.Context, stableID, horseID int) (*models.StableHorse, error) {
	row := &models.StableHorse{StableID: stableID, HorseID: horseID}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) ListStableHorses(ctx context.Context, stableID int) ([]models.StableHorse, error) {
	var rows []models.StableHorse
	if err := r.db.WithContext(ctx).Where("stable_id = ?", stableID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ListStableHorsesWithDetails(ctx context.Context, stableID int) ([]stableHorseRow, error) {
	var rows []stableHorseRow
	err := r.db.WithContext(ctx).
		Table("stable_horses").
		Select("stable_horses.id AS stable_horse_id, horses.id AS horse_id, horses.name AS horse_name, horses.color, horses.breed").
		Joins("JOIN horses ON horses.id = stable_horses.horse_id").
		Where("stable_horses.stable_id = ?", stableID).
		Order("horses.name, stable_horses.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) DeleteStableHorse(ctx context.Context, id int) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.StableHorse{}, id)
	return res.RowsAffected, res.Error
}

func (r *Repository) CreateUserHorse(ctx context.Context, userID, horseID int, role enums.HorseRole) (*models.UserHorse, error) {
	row := &models.UserHorse{UserID: userID, HorseID: horseID, UserRole: role}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}
