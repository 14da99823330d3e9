package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgdb "github.com/equilog/equilog-backend/pkg/db"
	"github.com/equilog/equilog-backend/pkg/db/models"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"gorm.io/gorm"
)

type eventRepository interface {
	ListByStable(ctx context.Context, stableID int) ([]eventRow, error)
	List(ctx context.Context) ([]eventRow, error)
	FindByID(ctx context.Context, id int) (*eventRow, error)
	Create(ctx context.Context, event *models.CalendarEvent) error
	Update(ctx context.Context, input UpdateEventInput) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
}

// Service exposes stable calendar operations.
type Service interface {
	ListByStable(ctx context.Context, stableID int) ([]CalendarEventDTO, error)
	List(ctx context.Context) ([]CalendarEventDTO, error)
	Get(ctx context.Context, id int) (*CalendarEventDTO, error)
	Create(ctx context.Context, input CreateEventInput) (*CalendarEventDTO, error)
	Update(ctx context.Context, input UpdateEventInput) error
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo eventRepository
}

// NewService builds a calendar service.
func NewService(repo eventRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("calendar repository required")
	}
	return &service{repo: repo}, nil
}

var errEventNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "Calendar event not found.")

func validateWindow(start, end time.Time) error {
	if !end.After(start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end date must be after start date")
	}
	return nil
}

func (s *service) ListByStable(ctx context.Context, stableID int) ([]CalendarEventDTO, error) {
	rows, err := s.repo.ListByStable(ctx, stableID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list calendar events")
	}
	return fromRows(rows), nil
}

func (s *service) List(ctx context.Context) ([]CalendarEventDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list calendar events")
	}
	return fromRows(rows), nil
}

func (s *service) Get(ctx context.Context, id int) (*CalendarEventDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errEventNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load calendar event")
	}
	dto := fromRow(*row)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateEventInput) (*CalendarEventDTO, error) {
	if err := validateWindow(input.StartDateTime, input.EndDateTime); err != nil {
		return nil, err
	}
	event := &models.CalendarEvent{
		StableID:      input.StableID,
		UserID:        input.UserID,
		Title:         input.Title,
		StartDateTime: input.StartDateTime.UTC(),
		EndDateTime:   input.EndDateTime.UTC(),
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, pkgdb.TranslateWriteError(err, "create calendar event")
	}
	return s.Get(ctx, event.ID)
}

func (s *service) Update(ctx context.Context, input UpdateEventInput) error {
	if err := validateWindow(input.StartDateTime, input.EndDateTime); err != nil {
		return err
	}
	input.StartDateTime = input.StartDateTime.UTC()
	input.EndDateTime = input.EndDateTime.UTC()
	affected, err := s.repo.Update(ctx, input)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update calendar event")
	}
	if affected == 0 {
		return errEventNotFound
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete calendar event")
	}
	if affected == 0 {
		return errEventNotFound
	}
	return nil
}
