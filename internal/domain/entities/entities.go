package entities

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Common errors
var (
	ErrRecordNotFound     = errors.New("not found")
	ErrDuplicateCode      = errors.New("already exists")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid password provided")
	ErrMalformedData      = errors.New("malformed data file")
)

// Column names of the persisted data file, in order.
const (
	FieldCode       = "Code"
	FieldHMIMessage = "HMI Message"
	FieldCause      = "Cause"
	FieldAction     = "Action"
	FieldPlatforms  = "Platforms"
)

// FieldNames is the fixed record schema. The data file header must equal it exactly.
var FieldNames = []string{FieldCode, FieldHMIMessage, FieldCause, FieldAction, FieldPlatforms}

// ErrorRecord is one device error code entry in the catalog
type ErrorRecord struct {
	Code       string `json:"Code"`
	HMIMessage string `json:"HMI Message"`
	Cause      string `json:"Cause"`
	Action     string `json:"Action"`
	Platforms  string `json:"Platforms"`
}

// Row returns the record's values in schema order
func (r ErrorRecord) Row() []string {
	return []string{r.Code, r.HMIMessage, r.Cause, r.Action, r.Platforms}
}

// PlatformList splits Platforms on commas and drops blank entries
func (r ErrorRecord) PlatformList() []string {
	var platforms []string
	for _, p := range strings.Split(r.Platforms, ",") {
		if p = strings.TrimSpace(p); p != "" {
			platforms = append(platforms, p)
		}
	}
	return platforms
}

// Matches reports whether the record lists platform (when set) and contains
// query in any field, ignoring case (when set).
func (r ErrorRecord) Matches(query, platform string) bool {
	if platform != "" && !slices.Contains(r.PlatformList(), platform) {
		return false
	}
	if query == "" {
		return true
	}

	query = strings.ToLower(query)
	for _, v := range r.Row() {
		if strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}
	return false
}

// UniquePlatforms collects every platform named by records, in first-seen order
func UniquePlatforms(records []ErrorRecord) []string {
	seen := make(map[string]bool)
	platforms := []string{}
	for _, r := range records {
		for _, p := range r.PlatformList() {
			if !seen[p] {
				seen[p] = true
				platforms = append(platforms, p)
			}
		}
	}
	return platforms
}

// ErrorRecordFromRow builds a record from a row in schema order
func ErrorRecordFromRow(row []string) (ErrorRecord, error) {
	if len(row) != len(FieldNames) {
		return ErrorRecord{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedData, len(FieldNames), len(row))
	}
	return ErrorRecord{
		Code:       row[0],
		HMIMessage: row[1],
		Cause:      row[2],
		Action:     row[3],
		Platforms:  row[4],
	}, nil
}

// ValidationError reports required fields that were absent from a payload
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) == 0 {
		return "invalid or missing data"
	}
	return "invalid or missing data: missing " + strings.Join(e.Missing, ", ")
}

// StorageError wraps file system and decoding failures of the record store
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is or wraps a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStorageError reports whether err is or wraps a *StorageError
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
