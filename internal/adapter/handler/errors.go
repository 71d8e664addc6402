package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
)

func httpStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAdjustment), domain.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateRequest):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func grpcCode(err error) codes.Code {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, domain.ErrInvalidAdjustment):
		return codes.FailedPrecondition
	case domain.IsValidationError(err):
		return codes.InvalidArgument
	case errors.Is(err, domain.ErrDuplicateRequest):
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}

// publicMessage hides infrastructure detail behind a generic message.
func publicMessage(err error) string {
	if httpStatus(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

// bindingError turns a gin binding failure into a domain.ValidationError
// naming the offending JSON field.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.NewValidationError(fe.Field(), ruleReason(fe))
	}
	return domain.NewValidationError("body", "malformed JSON")
}

func ruleReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "must not be empty"
	default:
		return "failed " + fe.Tag()
	}
}
