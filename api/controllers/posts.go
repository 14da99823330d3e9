package controllers

import (
	"net/http"

	"github.com/equilog/equilog-backend/api/responses"
	"github.com/equilog/equilog-backend/internal/comments"
	"github.com/equilog/equilog-backend/internal/posts"
	"github.com/equilog/equilog-backend/pkg/logger"
)

func StablePostGet(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := pathID(w, r, logg, "stablePostId")
		if !ok {
			return
		}
		post, err := svc.Get(r.Context(), postID)
		writeValue(w, r, logg, post, err)
	}
}

// StablePostCreate publishes a post authored by the caller.
func StablePostCreate(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		var body posts.CreatePostInput
		body.UserID = userID
		if !decodeBody(w, r, logg, &body) {
			return
		}
		body.UserID = userID
		post, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, http.StatusCreated, post, "Stable post created successfully.")
	}
}

func StablePostUpdate(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := pathID(w, r, logg, "stablePostId")
		if !ok {
			return
		}
		var body posts.UpdatePostInput
		body.ID = postID
		if !decodeBody(w, r, logg, &body) {
			return
		}
		body.ID = postID
		writeDone(w, r, logg, http.StatusOK, "Stable post updated successfully.", svc.Update(r.Context(), body))
	}
}

func StablePostTogglePinned(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := pathID(w, r, logg, "stablePostId")
		if !ok {
			return
		}
		writeDone(w, r, logg, http.StatusOK, "Stable post pin changed successfully.", svc.TogglePinned(r.Context(), postID))
	}
}

func StablePostDelete(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := pathID(w, r, logg, "stablePostId")
		if !ok {
			return
		}
		writeDone(w, r, logg, http.StatusOK, "Stable post deleted successfully.", svc.Delete(r.Context(), postID))
	}
}

func StablePostComments(svc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := pathID(w, r, logg, "stablePostId")
		if !ok {
			return
		}
		list, err := svc.ListByStablePost(r.Context(), postID)
		writeValue(w, r, logg, list, err)
	}
}

// CommentDelete removes a comment; its link rows go with it through the cascade.
func CommentDelete(svc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, ok := pathID(w, r, logg, "commentId")
		if !ok {
			return
		}
		writeDone(w, r, logg, http.StatusOK, "Comment deleted successfully.", svc.Delete(r.Context(), commentID))
	}
}
