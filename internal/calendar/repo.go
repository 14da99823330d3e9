package calendar

import (
	"context"

	"github.com/equilog/equilog-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes calendar event persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.CalendarEvent{}).
		Select("calendar_events.*, users.first_name, users.last_name, users.profile_picture").
		Joins("JOIN users ON users.id = calendar_events.user_id").
		Order("calendar_events.start_date_time, calendar_events.id")
}

func (r *Repository) ListByStable(ctx context.Context, stableID int) ([]eventRow, error) {
	var rows []eventRow
	if err := r.query(ctx).Where("calendar_events.stable_id = ?", stableID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) List(ctx context.Context) ([]eventRow, error) {
	var rows []eventRow
	if err := r.query(ctx).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*eventRow, error) {
	var rows []eventRow
	if err := r.query(ctx).Where("calendar_events.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *Repository) Create(ctx context.Context, event *models.CalendarEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *Repository) Update(ctx context.Context, input UpdateEventInput) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CalendarEvent{}).
		Where("id = ?", input.ID).
		Updates(map[string]any{
			"title":           input.Title,
			"start_date_time": input.StartDateTime,
			"end_date_time":   input.EndDateTime,
		})
	return res.RowsAffected, res.Error
}

func (r *Repository) Delete(ctx context.Context, id int) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.CalendarEvent{}, id)
	return res.RowsAffected, res.Error
}
