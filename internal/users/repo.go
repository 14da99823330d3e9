package users

import (
	"context"
	"strings"

	"github.com/equilog/equilog-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email, case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by id.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns every user ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	if err := r.db.WithContext(ctx).Order("first_name, last_name, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the mutable profile columns of user.
func (r *Repository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).
		Model(user).
		Select("first_name", "last_name", "email", "phone_number", "emergency_contact", "core_information", "description").
		Updates(user).Error
}

// UpdatePasswordHash overwrites the stored password hash.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id int, hash string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	return res.RowsAffected, res.Error
}

// SetProfilePicture stores the picture URL for the user.
func (r *Repository) SetProfilePicture(ctx context.Context, id int, pictureURL string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("profile_picture", pictureURL)
	return res.RowsAffected, res.Error
}

// Delete removes the user. Membership and link rows cascade.
func (r *Repository) Delete(ctx context.Context, id int) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	return res.RowsAffected, res.Error
}

// ListHorsesInStable returns the user's horses that are housed in stableID.
func (r *Repository) ListHorsesInStable(ctx context.Context, userID, stableID int) ([]HorseWithRoleDTO, error) {
	var rows []HorseWithRoleDTO
	err := r.db.WithContext(ctx).
		Table("user_horses").
		Select("horses.id AS horse_id, horses.name AS horse_name, horses.color, horses.breed, user_horses.user_role").
		Joins("JOIN horses ON horses.id = user_horses.horse_id").
		Where("user_horses.user_id = ?", userID).
		Where("EXISTS (SELECT 1 FROM stable_horses sh WHERE sh.horse_id = user_horses.horse_id AND sh.stable_id = ?)", stableID).
		Order("horses.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
