package validator

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// CustomValidator は拡張バリデーション機能を提供
type CustomValidator struct {
	validator    *validator.Validate
	slugPattern  *regexp.Regexp
	colorPattern *regexp.Regexp
	idPattern    *regexp.Regexp
}

// ValidationError はバリデーションエラーの詳細情報
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// ValidationErrors は複数のバリデーションエラー
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (ve ValidationErrors) Error() string {
	if len(ve.Errors) == 1 {
		return ve.Errors[0].Message
	}
	return fmt.Sprintf("validation failed: %d errors", len(ve.Errors))
}

// NewCustomValidator creates a new custom validator instance
func NewCustomValidator() *CustomValidator {
	v := validator.New()
	cv := &CustomValidator{
		validator:    v,
		slugPattern:  regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`),
		colorPattern: regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`),
		idPattern:    regexp.MustCompile(`^[A-Za-z0-9_\-]{1,64}$`),
	}

	// JSONのフィールド名でエラーを報告する
	v.RegisterTagNameFunc(jsonFieldName)

	// カスタムバリデーションルールを登録
	v.RegisterValidation("safe_text", cv.validateSafeText)
	v.RegisterValidation("slug", cv.validateSlug)
	v.RegisterValidation("color_hex", cv.validateColor)
	v.RegisterValidation("record_id", cv.validateRecordID)

	return cv
}

// Validate validates a struct and returns detailed error information
func (cv *CustomValidator) Validate(s interface{}) error {
	err := cv.validator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	validationErrors := make([]ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: cv.generateErrorMessage(fe),
		})
	}
	return ValidationErrors{Errors: validationErrors}
}

// ValidateID checks that a path identifier looks like a record id
func (cv *CustomValidator) ValidateID(id string) error {
	if !cv.idPattern.MatchString(id) {
		return fmt.Errorf("invalid id %q", id)
	}
	return nil
}

// カスタムバリデーション関数

func (cv *CustomValidator) validateSafeText(fl validator.FieldLevel) bool {
	// タブ、改行、復帰以外の制御文字を拒否
	for _, r := range fl.Field().String() {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

func (cv *CustomValidator) validateSlug(fl validator.FieldLevel) bool {
	return cv.slugPattern.MatchString(fl.Field().String())
}

func (cv *CustomValidator) validateColor(fl validator.FieldLevel) bool {
	return cv.colorPattern.MatchString(fl.Field().String())
}

func (cv *CustomValidator) validateRecordID(fl validator.FieldLevel) bool {
	return cv.idPattern.MatchString(fl.Field().String())
}

// generateErrorMessage generates user-friendly error messages
func (cv *CustomValidator) generateErrorMessage(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, err.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, err.Param())
	case "safe_text":
		return fmt.Sprintf("%s contains control characters", field)
	case "slug":
		return fmt.Sprintf("%s must be lowercase letters, digits and single hyphens", field)
	case "color_hex":
		return fmt.Sprintf("%s must be a #RRGGBB hex value", field)
	case "record_id":
		return fmt.Sprintf("%s is not a valid id", field)
	default:
		return fmt.Sprintf("%s is invalid (value: %v)", field, err.Value())
	}
}
