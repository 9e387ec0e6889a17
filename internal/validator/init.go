package validator

import (
	"ctchen222/tictactoe/internal/game"
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())

	// "mark" accepts the two player marks, X and O.
	if err := validate.RegisterValidation("mark", validateMark); err != nil {
		panic(err)
	}
}

func validateMark(fl validator.FieldLevel) bool {
	return game.PlayerMark(fl.Field().String()).Valid()
}

// Struct validates s with the shared validator.
func Struct(s any) error {
	return validate.Struct(s)
}

// FailedFields returns the struct field names that failed validation in err.
func FailedFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}
