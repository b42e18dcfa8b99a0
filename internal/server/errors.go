package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	activitydomain "github.com/frostline/crm/internal/activity/domain"
	customerdomain "github.com/frostline/crm/internal/customer/domain"
	employeedomain "github.com/frostline/crm/internal/employee/domain"
	invoicedomain "github.com/frostline/crm/internal/invoice/domain"
	leaddomain "github.com/frostline/crm/internal/lead/domain"
	projectdomain "github.com/frostline/crm/internal/project/domain"
	quotationdomain "github.com/frostline/crm/internal/quotation/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

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
	return ErrInvalidRequest
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Code:    err.Error(),
			Message: "validation error",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Code:    err.Error(),
			Message: "operation not allowed in the entity's current state",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, quotationdomain.ErrEmptyItems),
		errors.Is(err, quotationdomain.ErrInvalidQuantity),
		errors.Is(err, quotationdomain.ErrInvalidUnitPrice),
		errors.Is(err, quotationdomain.ErrInvalidDiscount),
		errors.Is(err, quotationdomain.ErrInvalidTaxRate),
		errors.Is(err, quotationdomain.ErrInvalidCustomer),
		errors.Is(err, quotationdomain.ErrInvalidActor),
		errors.Is(err, quotationdomain.ErrInvalidID),
		errors.Is(err, quotationdomain.ErrInvalidPageToken),
		errors.Is(err, quotationdomain.ErrInvalidStatus),
		errors.Is(err, quotationdomain.ErrInvalidPercentage),
		errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidEmail),
		errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, customerdomain.ErrInvalidPageToken),
		errors.Is(err, employeedomain.ErrInvalidName),
		errors.Is(err, employeedomain.ErrInvalidEmail),
		errors.Is(err, employeedomain.ErrInvalidRole),
		errors.Is(err, employeedomain.ErrInvalidID),
		errors.Is(err, leaddomain.ErrInvalidName),
		errors.Is(err, leaddomain.ErrInvalidPhone),
		errors.Is(err, leaddomain.ErrInvalidStatus),
		errors.Is(err, leaddomain.ErrInvalidID),
		errors.Is(err, projectdomain.ErrInvalidCustomer),
		errors.Is(err, projectdomain.ErrInvalidName),
		errors.Is(err, projectdomain.ErrInvalidBudget),
		errors.Is(err, projectdomain.ErrInvalidStatus),
		errors.Is(err, projectdomain.ErrInvalidActor),
		errors.Is(err, projectdomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidActor),
		errors.Is(err, invoicedomain.ErrInvalidAmount),
		errors.Is(err, invoicedomain.ErrInvalidStatus),
		errors.Is(err, activitydomain.ErrInvalidProject):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, quotationdomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, employeedomain.ErrNotFound),
		errors.Is(err, leaddomain.ErrNotFound),
		errors.Is(err, projectdomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, quotationdomain.ErrTerminalStatus),
		errors.Is(err, quotationdomain.ErrNotApproved),
		errors.Is(err, quotationdomain.ErrVersionConflict),
		errors.Is(err, leaddomain.ErrAlreadyConverted),
		errors.Is(err, leaddomain.ErrNotQualified),
		errors.Is(err, employeedomain.ErrEmailExists),
		errors.Is(err, invoicedomain.ErrOverpayment),
		errors.Is(err, invoicedomain.ErrCancelled):
		return true
	default:
		return false
	}
}
