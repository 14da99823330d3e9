package compositions

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/equilog/equilog-backend/pkg/storage/blob"
	"github.com/equilog/equilog-backend/pkg/types"
)

const opSetProfilePicture = "set_profile_picture"

// SetProfilePictureComposition resolves a read URI for blobName and stores it
// on the user.
func (s *Service) SetProfilePictureComposition(ctx context.Context, userID int, blobName string) types.Result[types.Unit] {
	return s.run(ctx, opSetProfilePicture, func(ctx context.Context) types.Result[types.Unit] {
		if s.blob == nil {
			return types.Failure[types.Unit](http.StatusServiceUnavailable, "Blob storage is not configured.")
		}
		uri, err := s.blob.SignedReadURL(ctx, blobName)
		if err != nil {
			if errors.Is(err, blob.ErrObjectNotFound) {
				return types.Failure[types.Unit](http.StatusNotFound, fmt.Sprintf("Blob '%s' not found.", blobName))
			}
			return types.Failure[types.Unit](http.StatusInternalServerError, err.Error())
		}
		if err := s.users.SetProfilePicture(ctx, userID, uri); err != nil {
			return types.FailureFromError[types.Unit](err)
		}
		return types.Success(http.StatusOK, types.Unit{}, fmt.Sprintf("Profile picture for user '%d' was set successfully.", userID))
	})
}
