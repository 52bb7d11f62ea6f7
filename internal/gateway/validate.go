package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sharehub/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// validateRequest rejects malformed payloads at the edge so the core only
// sees well-shaped requests. Business rules stay in the core; this layer
// checks syntax: required fields, email format, date ordering, paging bounds.
func validateRequest(r *http.Request, body []byte) error {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/users":
		return validateUserCreate(body)
	case r.Method == http.MethodPost && r.URL.Path == "/items":
		return validateItemCreate(body)
	case r.Method == http.MethodPost && r.URL.Path == "/bookings":
		return validateBookingCreate(body)
	case r.Method == http.MethodPost && r.URL.Path == "/requests":
		return validateRequestCreate(body)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/comment"):
		return validateComment(body)
	case r.Method == http.MethodGet:
		if err := validatePaging(r); err != nil {
			return err
		}
		return validateState(r)
	}
	return nil
}

func validateUserCreate(body []byte) error {
	var payload struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return errors.New("invalid JSON body")
	}
	if strings.TrimSpace(payload.Name) == "" {
		return errors.New("name is required")
	}
	if !emailPattern.MatchString(payload.Email) {
		return errors.New("valid email is required")
	}
	return nil
}

func validateItemCreate(body []byte) error {
	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Available   *bool  `json:"available"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return errors.New("invalid JSON body")
	}
	if strings.TrimSpace(payload.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(payload.Description) == "" {
		return errors.New("description is required")
	}
	if payload.Available == nil {
		return errors.New("available is required")
	}
	return nil
}

func validateBookingCreate(body []byte) error {
	var payload struct {
		ItemID int64      `json:"item_id"`
		Start  *time.Time `json:"start"`
		End    *time.Time `json:"end"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return errors.New("invalid JSON body")
	}
	if payload.ItemID <= 0 {
		return errors.New("item_id is required")
	}
	if payload.Start == nil || payload.End == nil {
		return errors.New("start and end are required")
	}
	if !payload.Start.Before(*payload.End) {
		return errors.New("start must be before end")
	}
	return nil
}

func validateRequestCreate(body []byte) error {
	var payload struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return errors.New("invalid JSON body")
	}
	if strings.TrimSpace(payload.Description) == "" {
		return errors.New("description is required")
	}
	return nil
}

func validateComment(body []byte) error {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return errors.New("invalid JSON body")
	}
	if strings.TrimSpace(payload.Text) == "" {
		return errors.New("text is required")
	}
	return nil
}

func validatePaging(r *http.Request) error {
	if raw := r.URL.Query().Get("from"); raw != "" {
		if v, err := strconv.Atoi(raw); err != nil || v < 0 {
			return errors.New("from must be a non-negative integer")
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		if v, err := strconv.Atoi(raw); err != nil || v < 0 {
			return errors.New("size must be a non-negative integer")
		}
	}
	return nil
}

func validateState(r *http.Request) error {
	state := r.URL.Query().Get("state")
	if state == "" {
		return nil
	}
	if !models.ValidFilter(state) {
		return errors.New("unknown state: " + state)
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
