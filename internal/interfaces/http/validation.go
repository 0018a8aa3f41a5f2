package http

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Nombres de campo según el tag json para que Details coincida con el body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodifica el JSON del body en dst y valida sus tags.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.NewValidationError("cuerpo inválido: %v", err)
	}
	return validateStruct(dst)
}

// validateStruct valida los tags validate y devuelve un *domain.ValidationError con detalle por campo.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.NewValidationError("%v", err)
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), strings.SplitN(fe.Namespace(), ".", 2)[0]+".")
		details[field] = fe.Tag()
	}
	return &domain.ValidationError{Message: "campos inválidos", Details: details}
}

// pathID lee el parámetro :id; los ids son uuid y un valor mal formado es un error de entrada.
func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	return id, checkUUID("id", id)
}

// queryID lee un id opcional de la query; vacío si no viene.
func queryID(c *fiber.Ctx, key string) (string, error) {
	id := strings.TrimSpace(c.Query(key))
	if id == "" {
		return "", nil
	}
	return id, checkUUID(key, id)
}

func checkUUID(field, v string) error {
	if err := validate.Var(v, "required,uuid"); err != nil {
		return &domain.ValidationError{Message: field + " debe ser un uuid", Details: map[string]string{field: "uuid"}}
	}
	return nil
}

// pageFromQuery lee limit/offset, valida el rango y aplica valores por defecto.
func pageFromQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	if err := validateStruct(page); err != nil {
		return page, err
	}
	page.DefaultPage()
	return page, nil
}

// dateQuery acepta RFC3339 o YYYY-MM-DD; nil si el parámetro no viene.
func dateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, &domain.ValidationError{Message: "fecha inválida", Details: map[string]string{key: "date"}}
}
