package controllers

import (
	"net/http"

	"github.com/equilog/equilog-backend/api/responses"
	"github.com/equilog/equilog-backend/internal/calendar"
	"github.com/equilog/equilog-backend/pkg/logger"
)

func CalendarEventList(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		writeValue(w, r, logg, list, err)
	}
}

func CalendarEventGet(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := pathID(w, r, logg, "calendarEventId")
		if !ok {
			return
		}
		event, err := svc.Get(r.Context(), eventID)
		writeValue(w, r, logg, event, err)
	}
}

func CalendarEventCreate(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		var body calendar.CreateEventInput
		body.UserID = userID
		if !decodeBody(w, r, logg, &body) {
			return
		}
		body.UserID = userID
		event, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, http.StatusCreated, event, "Calendar event created successfully.")
	}
}

func CalendarEventUpdate(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := pathID(w, r, logg, "calendarEventId")
		if !ok {
			return
		}
		var body calendar.UpdateEventInput
		body.ID = eventID
		if !decodeBody(w, r, logg, &body) {
			return
		}
		body.ID = eventID
		writeDone(w, r, logg, http.StatusOK, "Calendar event updated successfully.", svc.Update(r.Context(), body))
	}
}

func CalendarEventDelete(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := pathID(w, r, logg, "calendarEventId")
		if !ok {
			return
		}
		writeDone(w, r, logg, http.StatusOK, "Calendar event deleted successfully.", svc.Delete(r.Context(), eventID))
	}
}
