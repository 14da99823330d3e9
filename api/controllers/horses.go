package controllers

import (
	"net/http"

	"github.com/equilog/equilog-backend/api/responses"
	"github.com/equilog/equilog-backend/internal/horses"
	"github.com/equilog/equilog-backend/pkg/logger"
)

type createdID struct {
	ID int `json:"id"`
}

func HorseList(svc horses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		writeValue(w, r, logg, list, err)
	}
}

func HorseGet(svc horses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		horseID, ok := pathID(w, r, logg, "horseId")
		if !ok {
			return
		}
		horse, err := svc.Get(r.Context(), horseID)
		writeValue(w, r, logg, horse, err)
	}
}

// HorseProfile returns the horse together with its owners.
func HorseProfile(svc horses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		horseID, ok := pathID(w, r, logg, "horseId")
		if !ok {
			return
		}
		profile, err := svc.Profile(r.Context(), horseID)
		writeValue(w, r, logg, profile, err)
	}
}

// HorseCreate inserts a bare horse with no stable or owner links.
func HorseCreate(svc horses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body horses.CreateHorseInput
		if !decodeBody(w, r, logg, &body) {
			return
		}
		id, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, http.StatusCreated, createdID{ID: id}, "Horse created successfully.")
	}
}

func HorseUpdate(svc horses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		horseID, ok := pathID(w, r, logg, "horseId")
		if !ok {
			return
		}
		var body horses.UpdateHorseInput
		body.ID = horseID
		if !decodeBody(w, r, logg, &body) {
			return
		}
		body.ID = horseID
		writeDone(w, r, logg, http.StatusOK, "Horse updated successfully.", svc.Update(r.Context(), body))
	}
}

func HorseDelete(svc horses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		horseID, ok := pathID(w, r, logg, "horseId")
		if !ok {
			return
		}
		writeDone(w, r, logg, http.StatusOK, "Horse deleted successfully.", svc.Delete(r.Context(), horseID))
	}
}

// StableHorseRemove detaches a horse from a stable without deleting it.
func StableHorseRemove(svc horses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stableHorseID, ok := pathID(w, r, logg, "stableHorseId")
		if !ok {
			return
		}
		writeDone(w, r, logg, http.StatusOK, "Horse removed from stable successfully.", svc.RemoveFromStable(r.Context(), stableHorseID))
	}
}
