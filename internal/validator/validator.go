// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"bizledger/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("operation_type", validateOperationType)
		_ = v.RegisterValidation("stats_period", validateStatsPeriod)
		_ = v.RegisterValidation("chat_context", validateChatContext)
		_ = v.RegisterValidation("iso_date", validateISODate)
	}
}

func validateOperationType(fl validator.FieldLevel) bool {
	return models.OperationType(fl.Field().String()).Valid()
}

func validateStatsPeriod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "day", "week", "month", "year":
		return true
	}
	return false
}

func validateChatContext(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "economy", "report", "forecast", "general":
		return true
	}
	return false
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}
