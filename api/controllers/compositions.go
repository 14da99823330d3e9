package controllers

import (
	"context"
	"net/http"

	"github.com/equilog/equilog-backend/api/responses"
	"github.com/equilog/equilog-backend/internal/comments"
	"github.com/equilog/equilog-backend/internal/horses"
	"github.com/equilog/equilog-backend/internal/stables"
	"github.com/equilog/equilog-backend/pkg/logger"
	"github.com/equilog/equilog-backend/pkg/types"
)

// Compositions is the multi-step surface exposed over HTTP.
type Compositions interface {
	TransferStableOwnership(ctx context.Context, userID int) types.Result[types.Unit]
	DeleteUserComposition(ctx context.Context, userID int) types.Result[types.Unit]
	LeaveStableComposition(ctx context.Context, userID, stableID int) types.Result[types.Unit]
	CreateHorseComposition(ctx context.Context, stableID, userID int, horse horses.CreateHorseInput) types.Result[types.Unit]
	CreateStableComposition(ctx context.Context, userID int, stable stables.CreateStableInput) types.Result[types.Unit]
	CreateCommentComposition(ctx context.Context, userID, stablePostID int, comment comments.CreateCommentInput) types.Result[types.Unit]
	SetProfilePictureComposition(ctx context.Context, userID int, blobName string) types.Result[types.Unit]
	SendPasswordResetEmailComposition(ctx context.Context, address string) types.Result[types.Unit]
}

type horseCompositionRequest struct {
	StableID int                     `json:"stableId" validate:"required,gt=0"`
	Horse    horses.CreateHorseInput `json:"horse"`
}

type commentCompositionRequest struct {
	StablePostID int                         `json:"stablePostId" validate:"required,gt=0"`
	Comment      comments.CreateCommentInput `json:"comment"`
}

type profilePictureRequest struct {
	BlobName string `json:"blobName" validate:"required,max=300"`
}

type passwordResetEmailRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// HorseCreateComposition creates a horse in a stable owned by the caller.
func HorseCreateComposition(svc Compositions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		var body horseCompositionRequest
		if !decodeBody(w, r, logg, &body) {
			return
		}
		responses.WriteResult(w, svc.CreateHorseComposition(r.Context(), body.StableID, userID, body.Horse))
	}
}

// StableCreateComposition creates a stable with the caller as its owner.
func StableCreateComposition(svc Compositions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		var body stables.CreateStableInput
		if !decodeBody(w, r, logg, &body) {
			return
		}
		responses.WriteResult(w, svc.CreateStableComposition(r.Context(), userID, body))
	}
}

// CommentCreateComposition adds a comment by the caller to a stable post.
func CommentCreateComposition(svc Compositions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		var body commentCompositionRequest
		if !decodeBody(w, r, logg, &body) {
			return
		}
		responses.WriteResult(w, svc.CreateCommentComposition(r.Context(), userID, body.StablePostID, body.Comment))
	}
}

// UserDeleteComposition hands over the user's stables and deletes the account.
func UserDeleteComposition(svc Compositions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, logg, "userId")
		if !ok || !requireSelf(w, r, logg, userID) {
			return
		}
		responses.WriteResult(w, svc.DeleteUserComposition(r.Context(), userID))
	}
}

// UserTransferOwnership settles ownership of every stable the user owns.
func UserTransferOwnership(svc Compositions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, logg, "userId")
		if !ok || !requireSelf(w, r, logg, userID) {
			return
		}
		responses.WriteResult(w, svc.TransferStableOwnership(r.Context(), userID))
	}
}

// UserLeaveStableComposition removes the user from a stable after settling ownership.
func UserLeaveStableComposition(svc Compositions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, logg, "userId")
		if !ok {
			return
		}
		stableID, ok := pathID(w, r, logg, "stableId")
		if !ok || !requireSelf(w, r, logg, userID) {
			return
		}
		responses.WriteResult(w, svc.LeaveStableComposition(r.Context(), userID, stableID))
	}
}

// UserSetProfilePicture stores an uploaded blob as the user's profile picture.
func UserSetProfilePicture(svc Compositions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, logg, "userId")
		if !ok || !requireSelf(w, r, logg, userID) {
			return
		}
		var body profilePictureRequest
		if !decodeBody(w, r, logg, &body) {
			return
		}
		responses.WriteResult(w, svc.SetProfilePictureComposition(r.Context(), userID, body.BlobName))
	}
}

// PasswordResetEmail is public: it issues a reset token and mails the link.
func PasswordResetEmail(svc Compositions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body passwordResetEmailRequest
		if !decodeBody(w, r, logg, &body) {
			return
		}
		responses.WriteResult(w, svc.SendPasswordResetEmailComposition(r.Context(), body.Email))
	}
}
