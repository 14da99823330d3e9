package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/equilog/equilog-backend/api/responses"
	"github.com/equilog/equilog-backend/api/validators"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/equilog/equilog-backend/pkg/logger"
	"github.com/equilog/equilog-backend/pkg/storage/blob"
)

// BlobURLs signs direct-to-bucket transfers.
type BlobURLs interface {
	SignedUploadURL(ctx context.Context, objectName, contentType string) (string, error)
	SignedReadURL(ctx context.Context, objectName string) (string, error)
}

type uploadURLResponse struct {
	URI      string `json:"uri"`
	BlobName string `json:"blobName"`
}

type readURLResponse struct {
	URI string `json:"uri"`
}

// BlobUploadURL reserves a profile picture object name for the caller and
// returns a presigned PUT URL for it.
func BlobUploadURL(store BlobURLs, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "Blob storage is not configured."))
			return
		}
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		fileName := validators.SanitizeString(r.URL.Query().Get("fileName"), 200)
		if fileName == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string{"fileName": "is required"}))
			return
		}
		name := blob.NewProfilePictureName(userID, fileName)
		uri, err := store.SignedUploadURL(r.Context(), name, r.URL.Query().Get("contentType"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url"))
			return
		}
		responses.WriteSuccess(w, http.StatusOK, uploadURLResponse{URI: uri, BlobName: name}, "")
	}
}

func BlobReadURL(store BlobURLs, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "Blob storage is not configured."))
			return
		}
		name := strings.TrimSpace(r.URL.Query().Get("blobName"))
		if name == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string{"blobName": "is required"}))
			return
		}
		uri, err := store.SignedReadURL(r.Context(), name)
		switch {
		case errors.Is(err, blob.ErrObjectNotFound):
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Blob '%s' not found.", name)))
		case err != nil:
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign read url"))
		default:
			responses.WriteSuccess(w, http.StatusOK, readURLResponse{URI: uri}, "")
		}
	}
}
