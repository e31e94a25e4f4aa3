package http

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
)

const dateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// los detalles usan el nombre JSON del campo
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// requestError petición mal formada, antes de llegar al caso de uso.
type requestError struct {
	code    string
	message string
	details map[string]string
}

func (e *requestError) Error() string { return e.message }

func badRequest(code, message string) error {
	return &requestError{code: code, message: message}
}

// validationDetails campo → regla incumplida.
func validationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:] // sin el nombre del struct raíz
		}
		out[ns] = fe.Tag()
	}
	return out
}

// bindJSON decodifica el cuerpo y aplica las reglas `validate` del DTO.
func bindJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return badRequest("INVALID_BODY", "cuerpo inválido")
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return &requestError{code: "VALIDATION", message: "datos inválidos", details: validationDetails(err)}
	}
	return nil
}

// parseID lee un parámetro de ruta entero positivo.
func parseID(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("INVALID_ID", name+" debe ser un entero positivo")
	}
	return id, nil
}

// queryInt64 lee un query param entero opcional.
func queryInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, badRequest("INVALID_QUERY", key+" debe ser entero")
	}
	return &n, nil
}

// queryDate lee una fecha YYYY-MM-DD opcional en hora local.
func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return nil, badRequest("INVALID_DATE", key+" debe tener formato YYYY-MM-DD")
	}
	return &t, nil
}

// pageQuery limit/offset con los límites del DTO.
func pageQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)}
	if err := validateStruct(&p); err != nil {
		return p, err
	}
	p.DefaultPage()
	return p, nil
}

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(dto.SuccessResponse{Success: true, Data: data})
}

// writeError traduce errores de dominio a HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var (
		reqErr   *requestError
		valErr   *domain.ValidationError
		stockErr *domain.InsufficientStockError
	)
	switch {
	case errors.As(err, &reqErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: reqErr.code, Message: reqErr.message, Details: reqErr.details,
		})
	case errors.As(err, &valErr):
		resp := dto.ErrorResponse{Code: "VALIDATION", Message: valErr.Error()}
		if valErr.Field != "" {
			resp.Details = map[string]string{valErr.Field: valErr.Reason}
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: stockErr.Error(),
			Details: map[string]string{
				"product_id":   strconv.FormatInt(stockErr.ProductID, 10),
				"product_name": stockErr.ProductName,
				"requested":    strconv.Itoa(stockErr.Requested),
				"available":    strconv.Itoa(stockErr.Available),
			},
		})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrStorage):
		log := requestLog(c)
		log.Error().Err(err).Str("path", c.Path()).Msg("error de almacenamiento")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "STORAGE", Message: "error de almacenamiento, la operación no se aplicó",
		})
	default:
		log := requestLog(c)
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}

// ErrorHandler para fiber.Config: rutas inexistentes, pánicos recuperados y errores no tratados.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "ROUTE_NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}
