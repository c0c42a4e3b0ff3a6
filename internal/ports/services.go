package ports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/hmicodes/catalog/internal/domain/entities"
)

// CatalogService interface for error catalog operations
type CatalogService interface {
	ListErrors(ctx context.Context) ([]entities.ErrorRecord, error)
	SearchErrors(ctx context.Context, filter ErrorFilter) (*SearchResult, error)
	AddError(ctx context.Context, req ErrorRecordRequest) (*entities.ErrorRecord, error)
	UpdateError(ctx context.Context, code string, req ErrorRecordRequest) (*entities.ErrorRecord, error)
	DeleteError(ctx context.Context, code string) error
}

// ErrorFilter narrows the public catalog. Empty fields match everything.
type ErrorFilter struct {
	Query    string
	Platform string
}

// SearchResult holds the matching records and every platform in the catalog
type SearchResult struct {
	Records   []entities.ErrorRecord
	Platforms []string
}

// AuthService interface for the admin session boundary
type AuthService interface {
	Login(ctx context.Context, password string) (*Session, error)
	ValidateSession(token string) (*Claims, error)
}

// ErrorRecordRequest is the payload for create and update. Fields are pointers
// so that an absent key can be told apart from an empty value.
type ErrorRecordRequest struct {
	Code       *string `json:"Code" validate:"required"`
	HMIMessage *string `json:"HMI Message" validate:"required"`
	Cause      *string `json:"Cause" validate:"required"`
	Action     *string `json:"Action" validate:"required"`
	Platforms  *string `json:"Platforms" validate:"required"`
}

// UnmarshalJSON matches keys exactly against the record field names.
// Keys differing only in case count as absent.
func (r *ErrorRecordRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = ErrorRecordRequest{}
	fields := r.fields()
	for i, name := range entities.FieldNames {
		value, ok := raw[name]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}

		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		*fields[i] = &s
	}

	return nil
}

// ErrorRecordRequestFromForm builds a request from submitted form values
func ErrorRecordRequestFromForm(values url.Values) ErrorRecordRequest {
	var r ErrorRecordRequest
	fields := r.fields()
	for i, name := range entities.FieldNames {
		if v, ok := values[name]; ok && len(v) > 0 {
			s := v[0]
			*fields[i] = &s
		}
	}
	return r
}

func (r *ErrorRecordRequest) fields() []**string {
	return []**string{&r.Code, &r.HMIMessage, &r.Cause, &r.Action, &r.Platforms}
}

// ToEntity converts a validated request into a record
func (r ErrorRecordRequest) ToEntity() entities.ErrorRecord {
	return entities.ErrorRecord{
		Code:       deref(r.Code),
		HMIMessage: deref(r.HMIMessage),
		Cause:      deref(r.Cause),
		Action:     deref(r.Action),
		Platforms:  deref(r.Platforms),
	}
}

// MissingFields lists the schema names of absent fields, in schema order
func (r ErrorRecordRequest) MissingFields() []string {
	var missing []string
	for i, v := range r.fields() {
		if *v == nil {
			missing = append(missing, entities.FieldNames[i])
		}
	}
	return missing
}

// Session is the result of a successful login
type Session struct {
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Claims represents the validated content of a session token
type Claims struct {
	Authenticated bool
	ExpiresAt     time.Time
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
