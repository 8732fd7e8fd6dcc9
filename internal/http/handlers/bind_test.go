package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/cinemate/internal/domain/movie"
	"github.com/geocoder89/cinemate/internal/http/handlers"
	"github.com/geocoder89/cinemate/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type bindErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			JSON   string                `json:"json"`
			Field  string                `json:"field"`
			Fields []handlers.FieldError `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func postBind(t *testing.T, body string, out interface{}) (*httptest.ResponseRecorder, bindErrorResponse) {
	t.Helper()

	r := gin.New()
	r.POST("/movies", func(ctx *gin.Context) {
		if !handlers.BindJSON(ctx, out) {
			return
		}
		ctx.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/movies", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp bindErrorResponse
	if w.Code != http.StatusCreated {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
		}
	}

	return w, resp
}

func fieldsByName(resp bindErrorResponse) map[string]handlers.FieldError {
	found := map[string]handlers.FieldError{}
	for _, fieldErr := range resp.Error.Details.Fields {
		found[fieldErr.Field] = fieldErr
	}
	return found
}

func TestBindJSON_ValidationErrorsUseJSONFieldNames(t *testing.T) {
	var req movie.CreateRequest
	w, resp := postBind(t, `{"title":"Dune","rating":11,"genres":[],"director":"  "}`, &req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	if resp.Error.Code != "invalid_request" {
		t.Fatalf("unexpected code: %s", resp.Error.Code)
	}

	wantRules := map[string]string{
		"watchedDate": "required",
		"rating":      "max",
		"genres":      "min",
		"director":    "required",
		"actors":      "required",
	}

	found := fieldsByName(resp)

	for field, rule := range wantRules {
		fieldErr, ok := found[field]
		if !ok {
			t.Fatalf("missing field error for %q: %+v", field, resp.Error.Details.Fields)
		}
		if fieldErr.Rule != rule {
			t.Fatalf("field %q rule mismatch: got %q want %q", field, fieldErr.Rule, rule)
		}
		if fieldErr.Message == "" {
			t.Fatalf("field %q should include a non-empty message", field)
		}
	}
}

func TestBindJSON_ListEntryErrorsKeepIndex(t *testing.T) {
	var req movie.CreateRequest
	body := `{"title":"Dune","watchedDate":"2024-03-01","rating":9,"director":"Denis Villeneuve",` +
		`"actors":["Timothée Chalamet"],"genres":["Sci-Fi","` + strings.Repeat("x", 61) + `"]}`
	w, resp := postBind(t, body, &req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	fieldErr, ok := fieldsByName(resp)["genres[1]"]
	if !ok {
		t.Fatalf("expected an error for genres[1]: %+v", resp.Error.Details.Fields)
	}
	if fieldErr.Rule != "max" || fieldErr.Param != "60" {
		t.Fatalf("unexpected field error %+v", fieldErr)
	}
}

func TestBindJSON_TypeMismatchUsesJSONFieldNames(t *testing.T) {
	var req movie.CreateRequest
	w, resp := postBind(t, `{"title":"Dune","rating":"ten"}`, &req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	if resp.Error.Details.JSON != "invalid_json_type" {
		t.Fatalf("expected invalid_json_type, got %q", resp.Error.Details.JSON)
	}
	if resp.Error.Details.Field != "rating" {
		t.Fatalf("expected detail field to be rating, got %q", resp.Error.Details.Field)
	}
	if len(resp.Error.Details.Fields) == 0 || resp.Error.Details.Fields[0].Rule != "type" {
		t.Fatalf("expected a type rule in details.fields, got %+v", resp.Error.Details.Fields)
	}
}

func TestBindJSON_RejectsMalformedBodies(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantJSON  string
		wantField string
	}{
		{name: "unknown field", body: `{"title":"Dune","ownerId":"someone-else"}`, wantJSON: "unknown_field", wantField: "ownerId"},
		{name: "empty body", body: ``, wantJSON: "empty_body"},
		{name: "broken json", body: `{"title":`, wantJSON: "invalid_json_syntax"},
		{name: "trailing data", body: `{"title":"Dune"} {"x":1}`, wantJSON: "invalid_json_syntax"},
		{name: "bad date", body: `{"watchedDate":"01/03/2024"}`, wantJSON: "invalid_json_type", wantField: "watchedDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req movie.CreateRequest
			w, resp := postBind(t, tt.body, &req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
			}
			if resp.Error.Details.JSON != tt.wantJSON {
				t.Fatalf("expected details.json=%q, got %q", tt.wantJSON, resp.Error.Details.JSON)
			}
			if tt.wantField != "" {
				if _, ok := fieldsByName(resp)[tt.wantField]; !ok {
					t.Fatalf("expected field error for %q, got %+v", tt.wantField, resp.Error.Details.Fields)
				}
			}
		})
	}
}

func TestBindJSON_NormalizesBeforeValidation(t *testing.T) {
	var req movie.CreateRequest
	body := `{"title":"  Dune ","watchedDate":"2024-03-01","rating":9,
		"genres":["Sci-Fi"," ",""],"director":"Denis Villeneuve","actors":[" Timothée Chalamet "]}`

	w, _ := postBind(t, body, &req)
	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201, body=%s", w.Code, w.Body.String())
	}

	if req.Title != "Dune" {
		t.Fatalf("expected trimmed title, got %q", req.Title)
	}
	if len(req.Genres) != 1 || req.Genres[0] != "Sci-Fi" {
		t.Fatalf("expected blank genres dropped, got %#v", req.Genres)
	}
	if req.Actors[0] != "Timothée Chalamet" {
		t.Fatalf("expected trimmed actor, got %q", req.Actors[0])
	}
}

func TestBindJSON_UpdateRejectsBlankListAndBadURL(t *testing.T) {
	var req movie.UpdateRequest
	w, resp := postBind(t, `{"genres":["  "],"posterUrl":"not a url"}`, &req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}

	found := fieldsByName(resp)
	if _, ok := found["genres"]; !ok {
		t.Fatalf("expected genres error, got %+v", resp.Error.Details.Fields)
	}
	if _, ok := found["posterUrl"]; !ok {
		t.Fatalf("expected posterUrl error, got %+v", resp.Error.Details.Fields)
	}
}

func TestBindJSON_UpdateAllowsClearingPoster(t *testing.T) {
	var req movie.UpdateRequest
	w, _ := postBind(t, `{"posterUrl":""}`, &req)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201, body=%s", w.Code, w.Body.String())
	}
	if req.PosterURL == nil || *req.PosterURL != "" {
		t.Fatalf("expected explicit empty poster url, got %v", req.PosterURL)
	}
}

func TestBindJSON_TooLarge(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.MaxBodyBytes(16))
	r.POST("/movies", func(ctx *gin.Context) {
		var req movie.CreateRequest
		if !handlers.BindJSON(ctx, &req) {
			return
		}
		ctx.Status(http.StatusCreated)
	})

	body := `{"title":"` + string(bytes.Repeat([]byte("a"), 64)) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/movies", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("got status %d, want 413, body=%s", w.Code, w.Body.String())
	}
}
