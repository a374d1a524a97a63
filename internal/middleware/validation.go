package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"tabsum/internal/errors"
	"tabsum/internal/infrastructure"
)

// ValidationMiddleware provides request validation using struct tags
type ValidationMiddleware struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewValidationMiddleware creates a new validation middleware with the
// custom artifact rule registered
func NewValidationMiddleware(logger *slog.Logger) *ValidationMiddleware {
	v := validator.New()

	v.RegisterValidation("artifact", isValidArtifactName)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ValidationMiddleware{
		validator: v,
		logger:    logger.With(slog.String("component", "validation_middleware")),
	}
}

// ValidateStruct validates a struct against its validation tags
func (m *ValidationMiddleware) ValidateStruct(v interface{}) error {
	err := m.validator.Struct(v)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, m.formatValidationError(fe))
	}
	return errors.NewValidationError(strings.Join(msgs, "; "))
}

// ValidateArtifact validates an artifact-name query parameter. Absent
// parameters yield the default; invalid values get a 400 problem response
// and a false return.
func (m *ValidationMiddleware) ValidateArtifact(w http.ResponseWriter, r *http.Request, param, defaultValue string) (string, bool) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, true
	}

	if err := m.validator.Var(value, "artifact"); err != nil {
		m.logger.WarnContext(r.Context(), "rejected artifact name",
			slog.String("param", param),
			slog.String("path", r.URL.Path),
		)

		problem := ProblemFromStatus(
			http.StatusBadRequest,
			fmt.Sprintf("%s must be a plain file name ending in .json", param),
			infrastructure.GetTraceID(r.Context()),
		)
		problem.Render(w, r)
		return "", false
	}

	return value, true
}

// formatValidationError formats validation error messages
func (m *ValidationMiddleware) formatValidationError(err validator.FieldError) string {
	field := err.Field()
	tag := err.Tag()
	param := err.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Replace(param, " ", ", ", -1))
	case "artifact":
		return fmt.Sprintf("%s must be a plain file name ending in .json", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

// isValidArtifactName accepts plain JSON file names. Path separators and
// traversal are rejected so the name can be joined under the site
// directory safely.
func isValidArtifactName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || name == ".json" || len(name) > 255 {
		return false
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return false
	}
	return strings.HasSuffix(name, ".json")
}
