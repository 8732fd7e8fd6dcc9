package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/geocoder89/cinemate/internal/domain/movie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// normalizer is implemented by request types that clean their own input
// (trimming, dropping blank list entries) before validation.
type normalizer interface {
	Normalize()
}

var errTrailingData = errors.New("unexpected data after JSON body")

// BindJSON decodes the body into out, rejecting unknown fields, then
// normalizes and validates it. It writes the 4xx response itself and
// reports whether the handler should continue.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	if err := decodeStrict(ctx.Request.Body, out); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(ctx, http.StatusRequestEntityTooLarge, "payload_too_large",
				fmt.Sprintf("Request body must not exceed %d bytes", tooLarge.Limit), nil)
			return false
		}

		RespondBadRequest(ctx, "Invalid request body", parseBindError(err, out))
		return false
	}

	if n, ok := out.(normalizer); ok {
		n.Normalize()
	}

	if err := binding.Validator.ValidateStruct(out); err != nil {
		RespondBadRequest(ctx, "Invalid request body", parseBindError(err, out))
		return false
	}

	return true
}

func decodeStrict(body io.Reader, out interface{}) error {
	if body == nil {
		return io.EOF
	}

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(out); err != nil {
		return err
	}

	if dec.More() {
		return errTrailingData
	}

	return nil
}

func parseBindError(err error, out interface{}) interface{} {
	var (
		verrs     validator.ValidationErrors
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		dateErr   *movie.DateError
	)

	switch {
	case errors.As(err, &verrs):
		rootType := baseStructType(out)
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   jsonFieldName(rootType, fe.StructField()),
				Rule:    fe.Tag(),
				Param:   fe.Param(),
				Message: validationMessage(fe.Tag(), fe.Param()),
			})
		}
		return gin.H{"fields": fields}

	case errors.Is(err, io.EOF):
		return gin.H{"json": "empty_body"}

	case errors.Is(err, errTrailingData), errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &syntaxErr):
		return gin.H{"json": "invalid_json_syntax"}

	case errors.As(err, &typeErr):
		field := jsonFieldName(baseStructType(out), typeErr.Field)
		return jsonDetail("invalid_json_type", field, FieldError{
			Field:   field,
			Rule:    "type",
			Message: "must be of type " + typeErr.Type.String(),
		})

	case errors.As(err, &dateErr):
		return jsonDetail("invalid_json_type", "watchedDate", FieldError{
			Field:   "watchedDate",
			Rule:    "date",
			Param:   movie.DateLayout,
			Message: "must be a date formatted as YYYY-MM-DD",
		})
	}

	// encoding/json has no typed error for this: json: unknown field "x"
	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		field := strings.Trim(name, `"`)
		return jsonDetail("unknown_field", field, FieldError{
			Field:   field,
			Rule:    "unknown",
			Message: "is not an accepted field",
		})
	}

	return gin.H{"reason": "unreadable request body"}
}

func jsonDetail(kind, field string, fe FieldError) gin.H {
	return gin.H{"json": kind, "field": field, "fields": []FieldError{fe}}
}

func baseStructType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

// jsonFieldName maps a top-level struct field, optionally with a list index
// such as "Genres[1]", to its JSON name.
func jsonFieldName(rootType reflect.Type, name string) string {
	base, index, hasIndex := strings.Cut(strings.TrimSpace(name), "[")

	if rootType != nil {
		if sf, ok := rootType.FieldByName(base); ok {
			if tag, _, _ := strings.Cut(sf.Tag.Get("json"), ","); tag != "" && tag != "-" {
				base = tag
			}
		}
	}

	if hasIndex {
		return base + "[" + index
	}
	return base
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "len":
		return "must be exactly " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	case "url", "len=0|url":
		return "must be an absolute URL"
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
