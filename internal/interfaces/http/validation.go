package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bindJSON parsea y valida el cuerpo. Si falla ya respondió 400 y devuelve handled=true.
func bindJSON(c *fiber.Ctx, out any) (handled bool, err error) {
	if err := c.BodyParser(out); err != nil {
		return true, badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := validate.Struct(out); err != nil {
		return true, badRequest(c, "VALIDATION", validationMessage(err))
	}
	return false, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "datos inválidos"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, strings.ToLower(fe.Field())+": "+fe.Tag())
	}
	return "datos inválidos (" + strings.Join(parts, ", ") + ")"
}
