package handler

import (
	"errors"
	"net/http"

	"memo-notes/src/domain"
	"memo-notes/src/middleware"
	"memo-notes/src/usecase"
	"memo-notes/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var badRequestErrors = []error{
	usecase.ErrInvalidTitle,
	usecase.ErrInvalidContent,
	usecase.ErrInvalidCategory,
	usecase.ErrInvalidSort,
	usecase.ErrInvalidOrder,
	usecase.ErrInvalidLimit,
	usecase.ErrInvalidName,
	usecase.ErrInvalidSlug,
	usecase.ErrInvalidColor,
}

// errorStatus maps a usecase or repository error to an HTTP status
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrMemoNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrTagNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateSlug):
		return http.StatusConflict
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// respondError writes the error response. Internal errors are logged with
// their cause and reported without it.
func respondError(c *gin.Context, logger *logrus.Logger, summary string, err error) {
	status := errorStatus(err)
	entry := logger.WithError(err).WithFields(logrus.Fields{
		"request_id": middleware.RequestID(c),
		"method":     c.Request.Method,
		"uri":        c.Request.RequestURI,
		"status":     status,
	})

	if status == http.StatusInternalServerError {
		entry.Error(summary)
		c.JSON(status, ErrorResponseDTO{Error: summary})
		return
	}

	entry.Warn(summary)
	c.JSON(status, ErrorResponseDTO{Error: summary, Message: err.Error()})
}

// respondValidation writes a 400 response for a request that failed binding
// or validation
func respondValidation(c *gin.Context, logger *logrus.Logger, summary string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"request_id": middleware.RequestID(c),
		"uri":        c.Request.RequestURI,
	}).Warn("リクエストの検証に失敗")

	resp := ErrorResponseDTO{Error: summary, Message: err.Error()}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Details = verrs.Errors
	}
	c.JSON(http.StatusBadRequest, resp)
}
