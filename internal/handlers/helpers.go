package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/logger"
	"bizledger/internal/models"
	"bizledger/internal/services"
	"bizledger/internal/uuid"
)

// Response is the envelope shared by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse documents the failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Operation not found"`
	Error   string `json:"error" example:"OPERATION_NOT_FOUND"`
}

// respondOK writes a success envelope.
func respondOK(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Response{Success: true, Data: data, Message: message})
}

// RespondWithError writes a failure envelope. An *AppError supplies the
// status, code and message. Anything else is logged and reported as an
// internal error. Internal details are only exposed outside release mode.
func RespondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		appErr = apperrors.Wrap(apperrors.ErrInternalServer, err)
	} else if appErr.Internal != nil {
		logger.Get().Errorw("app error",
			"code", appErr.Code,
			"internal", appErr.Internal.Error(),
			"path", c.Request.URL.Path,
		)
	}

	code := appErr.Code
	if appErr.StatusCode >= http.StatusInternalServerError && appErr.Internal != nil && gin.Mode() != gin.ReleaseMode {
		code += ": " + appErr.Internal.Error()
	}

	c.AbortWithStatusJSON(appErr.StatusCode, Response{
		Success: false,
		Message: appErr.Message,
		Error:   code,
	})
}

func respondWithError(c *gin.Context, err error) {
	RespondWithError(c, err)
}

// parsePathID reads a UUID path parameter.
func parsePathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if !uuid.IsValid(id) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// dateRangeQuery holds the optional date_from/date_to query parameters.
type dateRangeQuery struct {
	DateFrom string `form:"date_from" binding:"omitempty,iso_date"`
	DateTo   string `form:"date_to" binding:"omitempty,iso_date"`
}

// toRange converts the bound query into a service date range.
func (q dateRangeQuery) toRange() (services.DateRange, error) {
	var r services.DateRange
	if q.DateFrom != "" {
		d, err := models.ParseDate(q.DateFrom)
		if err != nil {
			return r, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		r.From = &d
	}
	if q.DateTo != "" {
		d, err := models.ParseDate(q.DateTo)
		if err != nil {
			return r, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		r.To = &d
	}
	if r.From != nil && r.To != nil && r.To.Before(r.From.Time) {
		return r, apperrors.WithMessage(apperrors.ErrInvalidInput, "date_to must not be before date_from")
	}
	return r, nil
}

// bindDateRange binds and converts date_from/date_to.
func bindDateRange(c *gin.Context) (services.DateRange, error) {
	var q dateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return services.DateRange{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return q.toRange()
}
