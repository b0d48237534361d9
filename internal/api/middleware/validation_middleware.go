package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ValidationMiddleware decodes and validates request bodies before the
// handler runs. Validated models land in the context under
// "validated_model".
type ValidationMiddleware struct {
	validate *validator.Validate
}

func NewValidationMiddleware() *ValidationMiddleware {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterValidation("not_empty", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &ValidationMiddleware{validate: v}
}

// ValidateRequest binds the JSON body into a fresh instance of model and
// rejects the request on decode or validation failure.
func (m *ValidationMiddleware) ValidateRequest(model interface{}) gin.HandlerFunc {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	return func(c *gin.Context) {
		target := reflect.New(modelType).Interface()

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
		}
		// Handlers may bind again, so the body has to be replayable.
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if err := json.Unmarshal(body, target); err != nil {
			log.Warn("Malformed request body",
				zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			c.Abort()
			return
		}

		if err := m.validate.Struct(target); err != nil {
			details := fieldErrors(err)
			log.Warn("Request validation failed",
				zap.String("path", c.Request.URL.Path), zap.Any("details", details))
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "validation failed",
				"details": details,
			})
			c.Abort()
			return
		}

		c.Set("validated_model", target)
		c.Next()
	}
}

func fieldErrors(err error) map[string]string {
	out := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		out[strings.ToLower(fe.Field())] = describeFailure(fe)
	}
	return out
}

func describeFailure(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "not_empty":
		return "this field cannot be blank"
	case "email":
		return "invalid email format"
	case "min":
		return "value is too short"
	case "max":
		return "value is too long"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "invalid value"
	}
}
