package calendar

import (
	"time"

	"github.com/equilog/equilog-backend/pkg/db/models"
)

// CalendarEventDTO is an event with its creator's display fields.
type CalendarEventDTO struct {
	ID             int       `json:"id"`
	StableID       int       `json:"stableId"`
	Title          string    `json:"title"`
	StartDateTime  time.Time `json:"startDateTime"`
	EndDateTime    time.Time `json:"endDateTime"`
	UserID         int       `json:"userId"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
}

// CreateEventInput captures the fields for a new event.
type CreateEventInput struct {
	StableID      int       `json:"stableId" validate:"required,gt=0"`
	UserID        int       `json:"userId" validate:"required,gt=0"`
	Title         string    `json:"title" validate:"required,max=100"`
	StartDateTime time.Time `json:"startDateTime" validate:"required"`
	EndDateTime   time.Time `json:"endDateTime" validate:"required"`
}

// UpdateEventInput captures the mutable event fields.
type UpdateEventInput struct {
	ID            int       `json:"id" validate:"required,gt=0"`
	Title         string    `json:"title" validate:"required,max=100"`
	StartDateTime time.Time `json:"startDateTime" validate:"required"`
	EndDateTime   time.Time `json:"endDateTime" validate:"required"`
}

type eventRow struct {
	models.CalendarEvent
	FirstName      string
	LastName       string
	ProfilePicture *string
}

func fromRow(row eventRow) CalendarEventDTO {
	return CalendarEventDTO{
		ID:             row.ID,
		StableID:       row.StableID,
		Title:          row.Title,
		StartDateTime:  row.StartDateTime,
		EndDateTime:    row.EndDateTime,
		UserID:         row.UserID,
		FirstName:      row.FirstName,
		LastName:       row.LastName,
		ProfilePicture: row.ProfilePicture,
	}
}

func fromRows(rows []eventRow) []CalendarEventDTO {
	out := make([]CalendarEventDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out
}
