package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/waselhq/wasel/internal/customer/domain"
	orderdomain "github.com/waselhq/wasel/internal/order/domain"
	pointsdomain "github.com/waselhq/wasel/internal/points/domain"
	riderdomain "github.com/waselhq/wasel/internal/rider/domain"
	settlementdomain "github.com/waselhq/wasel/internal/settlement/domain"
	shopdomain "github.com/waselhq/wasel/internal/shop/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
	ErrInternal       = errors.New("internal_error")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Code: err.Error(), Message: "invalid value"},
			},
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    err.Error(),
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, orderdomain.ErrEmptyItems),
		errors.Is(err, orderdomain.ErrInvalidQuantity),
		errors.Is(err, orderdomain.ErrMissingDeliveryAddress),
		errors.Is(err, orderdomain.ErrMinOrderNotMet),
		errors.Is(err, pointsdomain.ErrInvalidPoints),
		errors.Is(err, pointsdomain.ErrInsufficientPoints),
		errors.Is(err, customerdomain.ErrSelfReferral),
		errors.Is(err, shopdomain.ErrInvalidAdAmount),
		errors.Is(err, shopdomain.ErrInvalidShopID),
		errors.Is(err, shopdomain.ErrProductNotInShop):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, orderdomain.ErrInvalidStatusTransition),
		errors.Is(err, orderdomain.ErrStatusConflict),
		errors.Is(err, shopdomain.ErrShopClosed),
		errors.Is(err, settlementdomain.ErrPeriodNotActive),
		errors.Is(err, settlementdomain.ErrSettlementExists):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, orderdomain.ErrOrderNotFound),
		errors.Is(err, shopdomain.ErrShopNotFound),
		errors.Is(err, shopdomain.ErrProductNotFound),
		errors.Is(err, customerdomain.ErrCustomerNotFound),
		errors.Is(err, riderdomain.ErrRiderNotFound),
		errors.Is(err, settlementdomain.ErrPeriodNotFound),
		errors.Is(err, settlementdomain.ErrNoActivePeriod),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
