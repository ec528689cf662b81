package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/umoc/basecamp/backend/internal/domain"
)

// tripRequest is the body of POST /trips and PUT /trips/{tripId}.
type tripRequest struct {
	Name        string    `json:"name" validate:"required,max=120"`
	Description string    `json:"description" validate:"max=5000"`
	Tag         string    `json:"tag" validate:"max=60"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Capacity    int       `json:"capacity" validate:"min=1,max=500"`
	LeaderID    uuid.UUID `json:"leader_id" validate:"required"`
}

func (req tripRequest) toDomain() domain.Trip {
	return domain.Trip{
		Name:        req.Name,
		Description: req.Description,
		Tag:         req.Tag,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
		LeaderID:    req.LeaderID,
	}
}

// commentRequest is the body of POST /trips/{tripId}/comments.
type commentRequest struct {
	Text     string     `json:"text" validate:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// profileRequest is the body of POST /profiles and PUT /profiles/me.
// openapi_types.Email rejects malformed addresses while decoding.
type profileRequest struct {
	FirstName    string              `json:"first_name" validate:"required,max=100"`
	LastName     string              `json:"last_name" validate:"required,max=100"`
	Email        openapi_types.Email `json:"email" validate:"required"`
	DateOfBirth  *openapi_types.Date `json:"date_of_birth"`
	Phone        string              `json:"phone" validate:"max=40"`
	ContactName  string              `json:"contact_name" validate:"max=200"`
	ContactPhone string              `json:"contact_phone" validate:"max=40"`
}

func (req profileRequest) toDomain() domain.UserProfile {
	p := domain.UserProfile{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        string(req.Email),
		Phone:        req.Phone,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
	}
	if req.DateOfBirth != nil {
		dob := req.DateOfBirth.Time
		p.DateOfBirth = &dob
	}
	return p
}

// adminLevelRequest is the body of PUT /admin/profiles/{profileId}/level.
type adminLevelRequest struct {
	AdminLevel string `json:"admin_level" validate:"required,oneof=admin leader user"`
}

// waiverRequest is the body of POST /profiles/me/waiver. The member signs
// by typing their full name.
type waiverRequest struct {
	Signature string `json:"signature" validate:"required"`
}

// newValidator reports field errors by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads a JSON body into dst and validates it. On failure it
// writes the error response and returns false.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", "request body is too large")
		case errors.Is(err, io.EOF):
			requestError(w, "request body is required")
		default:
			requestError(w, "malformed request body: "+err.Error())
		}
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", validationMessage(err))
		return false
	}
	return true
}

// validationMessage turns the first validator failure into a sentence.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", fe.Field(), jsonName(fe.Param()))
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

// jsonName converts a Go field name used in a cross-field tag to snake case.
func jsonName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
