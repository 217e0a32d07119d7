package handlers

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegisterValidations adds the custom binding validations the payloads
// use. Call once before the router handles traffic.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected gin validator engine")
	}
	return v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		_, err := primitive.ObjectIDFromHex(fl.Field().String())
		return err == nil
	})
}

// mustObjectID converts a payload field that already passed the
// objectid validation.
func mustObjectID(hex string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(hex)
	return id
}
