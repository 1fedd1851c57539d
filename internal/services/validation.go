package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"tms/internal/apperror"
	"tms/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// NewValidator returns a validator that knows the shipment specific tags
// and reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("decimal_string", func(fl validator.FieldLevel) bool {
		_, err := decimal.NewFromString(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("shipment_status", func(fl validator.FieldLevel) bool {
		return models.ShipmentStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("shipment_priority", func(fl validator.FieldLevel) bool {
		return models.Priority(fl.Field().String()).Valid()
	})
	return v
}

// validationError turns validator output into a single BAD_USER_INPUT error.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Internal("validation failed", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
	}
	return apperror.Validation("Validation failed: " + strings.Join(msgs, "; "))
}
