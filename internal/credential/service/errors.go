package service

import (
	"context"

	"jotter/internal/credential/models"
	dErrors "jotter/pkg/domain-errors"
	"jotter/pkg/platform/httputil"
)

func validation(msg string) error {
	return dErrors.New(dErrors.CodeValidation, msg)
}

func invalidCredentials() error {
	return unauthorized(models.MsgInvalidCredentials)
}

func policyViolation() error {
	return dErrors.New(dErrors.CodePolicyViolation, models.MsgPolicyViolation)
}

func noPendingRequest() error {
	return dErrors.New(dErrors.CodeInvalidState, models.MsgNoPendingRequest)
}

// internal logs the infrastructure detail once and hides it from the caller.
func (s *Service) internal(ctx context.Context, op string, err error) error {
	s.logInternal(ctx, "credential "+op+" failed", err, "op", op)
	return &dErrors.Error{Code: dErrors.CodeInternal, Message: httputil.MsgServerProblem, Err: err}
}

func unauthorized(msg string) error {
	return dErrors.New(dErrors.CodeUnauthorized, msg)
}

func isUnauthorized(err error) bool {
	return dErrors.HasCode(err, dErrors.CodeUnauthorized)
}
