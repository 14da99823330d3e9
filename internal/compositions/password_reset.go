package compositions

import (
	"context"
	"fmt"
	"net/http"

	"github.com/equilog/equilog-backend/internal/email"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/equilog/equilog-backend/pkg/types"
)

const opSendPasswordReset = "send_password_reset_email"

// SendPasswordResetEmailComposition creates a reset request and mails its
// link. The request is deleted again when the email cannot be sent.
func (s *Service) SendPasswordResetEmailComposition(ctx context.Context, address string) types.Result[types.Unit] {
	return s.run(ctx, opSendPasswordReset, func(ctx context.Context) types.Result[types.Unit] {
		if s.passwords == nil || s.mailer == nil {
			return types.Failure[types.Unit](http.StatusServiceUnavailable, "Password reset email is not configured.")
		}
		req, err := s.passwords.CreateResetRequest(ctx, address)
		if err != nil {
			return types.Failure[types.Unit](pkgerrors.StatusOf(err),
				fmt.Sprintf("Failed to create password reset request: %s", pkgerrors.Describe(err)))
		}

		msg, err := email.PasswordResetMessage(s.resetBaseURL, req.Token, req.ExpirationDate)
		if err == nil {
			err = s.mailer.Send(ctx, req.Email, msg)
		}
		if err != nil {
			delErr := s.passwords.DeleteResetRequest(ctx, req.ID)
			s.metrics.IncRollback(opSendPasswordReset, delErr == nil)
			if delErr != nil {
				s.warn(ctx, "compensating delete failed", map[string]any{
					"entity":    "password_reset_request",
					"entity_id": req.ID,
					"error":     delErr.Error(),
				})
			}
			return types.Failure[types.Unit](http.StatusInternalServerError,
				fmt.Sprintf("Failed to send Email: %s. Password reset request creation was rolled back.", err.Error()))
		}
		return types.Success(http.StatusOK, types.Unit{}, "Email sent successfully")
	})
}
