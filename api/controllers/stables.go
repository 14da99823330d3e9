package controllers

import (
	"net/http"

	"github.com/equilog/equilog-backend/api/responses"
	"github.com/equilog/equilog-backend/api/validators"
	"github.com/equilog/equilog-backend/internal/calendar"
	"github.com/equilog/equilog-backend/internal/horses"
	"github.com/equilog/equilog-backend/internal/invites"
	"github.com/equilog/equilog-backend/internal/joinrequests"
	"github.com/equilog/equilog-backend/internal/memberships"
	"github.com/equilog/equilog-backend/internal/posts"
	"github.com/equilog/equilog-backend/internal/stables"
	"github.com/equilog/equilog-backend/pkg/logger"
	"github.com/equilog/equilog-backend/pkg/pagination"
)

func StableGet(svc stables.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stableID, ok := pathID(w, r, logg, "stableId")
		if !ok {
			return
		}
		stable, err := svc.Get(r.Context(), stableID)
		writeValue(w, r, logg, stable, err)
	}
}

// StableSearch ranks stables by name against ?searchTerm with page/pageSize paging.
func StableSearch(svc stables.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 0, 0, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pageSize, err := validators.ParseQueryInt(r, "pageSize", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.Search(r.Context(), stables.SearchParams{
			SearchTerm: validators.SanitizeString(r.URL.Query().Get("searchTerm"), 0),
			Page:       page,
			PageSize:   pageSize,
		})
		writeValue(w, r, logg, list, err)
	}
}

func StableUpdate(svc stables.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stableID, ok := pathID(w, r, logg, "stableId")
		if !ok {
			return
		}
		var body stables.UpdateStableInput
		body.ID = stableID
		if !decodeBody(w, r, logg, &body) {
			return
		}
		body.ID = stableID
		writeDone(w, r, logg, http.StatusOK, "Stable updated successfully.", svc.Update(r.Context(), body))
	}
}

func StableDelete(svc stables.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stableID, ok := pathID(w, r, logg, "stableId")
		if !ok {
			return
		}
		writeDone(w, r, logg, http.StatusOK, "Stable deleted successfully.", svc.Delete(r.Context(), stableID))
	}
}

// StableLocation resolves a post code to its county and municipality.
func StableLocation(svc stables.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loc, err := svc.Location(r.Context(), r.URL.Query().Get("postCode"))
		writeValue(w, r, logg, loc, err)
	}
}

func StableUsers(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stableID, ok := pathID(w, r, logg, "stableId")
		if !ok {
			return
		}
		list, err := svc.ListUsersByStable(r.Context(), stableID)
		writeValue(w, r, logg, list, err)
	}
}

// StableHorses lists a stable's horses; ?include=owners adds each horse's owners.
func StableHorses(svc horses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stableID, ok := pathID(w, r, logg, "stableId")
		if !ok {
			return
		}
		if r.URL.Query().Get("include") == "owners" {
			list, err := svc.ListWithOwnersByStable(r.Context(), stableID)
			writeValue(w, r, logg, list, err)
			return
		}
		list, err := svc.ListByStable(r.Context(), stableID)
		writeValue(w, r, logg, list, err)
	}
}

func StablePosts(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stableID, ok := pathID(w, r, logg, "stableId")
		if !ok {
			return
		}
		list, err := svc.ListByStable(r.Context(), stableID)
		writeValue(w, r, logg, list, err)
	}
}

func StableCalendarEvents(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stableID, ok := pathID(w, r, logg, "stableId")
		if !ok {
			return
		}
		list, err := svc.ListByStable(r.Context(), stableID)
		writeValue(w, r, logg, list, err)
	}
}

func StableInvites(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stableID, ok := pathID(w, r, logg, "stableId")
		if !ok {
			return
		}
		list, err := svc.ListInvitedUsers(r.Context(), stableID)
		writeValue(w, r, logg, list, err)
	}
}

func StableJoinRequests(svc joinrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stableID, ok := pathID(w, r, logg, "stableId")
		if !ok {
			return
		}
		list, err := svc.ListByStable(r.Context(), stableID)
		writeValue(w, r, logg, list, err)
	}
}
