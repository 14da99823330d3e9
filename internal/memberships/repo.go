package memberships

import (
	"context"
	"fmt"

	"github.com/equilog/equilog-backend/pkg/db/models"
	"github.com/equilog/equilog-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create persists a new membership record.
func (r *Repository) Create(ctx context.Context, userID, stableID int, role enums.StableRole) (*models.UserStable, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid stable role %d", role)
	}
	membership := &models.UserStable{
		UserID:   userID,
		StableID: stableID,
		Role:     role,
	}
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// FindByID retrieves a membership by its id.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.UserStable, error) {
	var membership models.UserStable
	if err := r.db.WithContext(ctx).First(&membership, id).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// FindByUserAndStable retrieves a membership by user and stable.
func (r *Repository) FindByUserAndStable(ctx context.Context, userID, stableID int) (*models.UserStable, error) {
	var membership models.UserStable
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND stable_id = ?", userID, stableID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// ListByUser returns every membership the user holds.
func (r *Repository) ListByUser(ctx context.Context, userID int) ([]models.UserStable, error) {
	var rows []models.UserStable
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByStable returns memberships for the stable along with user metadata.
func (r *Repository) ListByStable(ctx context.Context, stableID int) ([]StableUserDTO, error) {
	var rows []stableUserRow
	err := r.db.WithContext(ctx).
		Model(&models.UserStable{}).
		Select("user_stables.*, users.first_name, users.last_name, users.email, users.profile_picture").
		Joins("JOIN users ON users.id = user_stables.user_id").
		Where("user_stables.stable_id = ?", stableID).
		Order("user_stables.role, users.first_name, users.last_name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return stableUsersFromRows(rows), nil
}

// UpdateRole sets the role of the membership with id.
func (r *Repository) UpdateRole(ctx context.Context, id int, role enums.StableRole) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.UserStable{}).
		Where("id = ?", id).
		Update("role", role)
	return res.RowsAffected, res.Error
}

// Delete removes the membership with id.
func (r *Repository) Delete(ctx context.Context, id int) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.UserStable{}, id)
	return res.RowsAffected, res.Error
}

// DeleteByUserAndStable removes the user's membership in the stable.
func (r *Repository) DeleteByUserAndStable(ctx context.Context, userID, stableID int) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND stable_id = ?", userID, stableID).
		Delete(&models.UserStable{})
	return res.RowsAffected, res.Error
}

// ListOwnerConnections returns the user's Owner memberships in id order.
func (r *Repository) ListOwnerConnections(ctx context.Context, userID int) ([]models.UserStable, error) {
	var rows []models.UserStable
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, enums.StableRoleOwner).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// HasOnlyOneMember reports whether exactly one membership exists for the stable.
func (r *Repository) HasOnlyOneMember(ctx context.Context, stableID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserStable{}).
		Where("stable_id = ?", stableID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 1, nil
}

// HasMoreThanOneOwner reports whether the stable has at least two Owner rows.
func (r *Repository) HasMoreThanOneOwner(ctx context.Context, stableID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserStable{}).
		Where("stable_id = ? AND role = ?", stableID, enums.StableRoleOwner).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count >= 2, nil
}

// FindPromotionCandidate returns the first Admin or Member of the stable other
// than excludeUserID, Admins first. gorm.ErrRecordNotFound signals no candidate.
func (r *Repository) FindPromotionCandidate(ctx context.Context, stableID, excludeUserID int) (*models.UserStable, error) {
	var membership models.UserStable
	err := r.db.WithContext(ctx).
		Where("stable_id = ? AND role IN ? AND user_id <> ?", stableID, enums.PromotableStableRoles(), excludeUserID).
		Order("role").
		Order("id").
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// PromoteToOwner sets the membership's role to Owner. gorm.ErrRecordNotFound
// means the membership no longer exists.
func (r *Repository) PromoteToOwner(ctx context.Context, membership *models.UserStable) error {
	res := r.db.WithContext(ctx).
		Model(&models.UserStable{}).
		Where("id = ?", membership.ID).
		Update("role", enums.StableRoleOwner)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	membership.Role = enums.StableRoleOwner
	return nil
}
