package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/stanleypangg/dear-applicant/internal/services/application"
)

// applicationCommand is the intent-tagged body for
// POST /dashboard/applications. Salary and date fields travel as
// strings, matching the form encoding they come from; parsing happens
// here at the boundary.
type applicationCommand struct {
	Intent         string  `json:"intent"`
	ApplicationID  string  `json:"applicationId"`
	ColumnID       string  `json:"columnId"`
	ToColumnID     string  `json:"toColumnId"`
	NewPosition    *int    `json:"newPosition"`
	Company        *string `json:"company"`
	Role           *string `json:"role"`
	URL            *string `json:"url"`
	DateApplied    *string `json:"dateApplied"`
	SalaryMin      *string `json:"salaryMin"`
	SalaryMax      *string `json:"salaryMax"`
	SalaryCurrency *string `json:"salaryCurrency"`
	Notes          *string `json:"notes"`
}

func (s *Server) handleApplicationAction(w http.ResponseWriter, r *http.Request, userID string) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	var cmd applicationCommand
	if err := remarshal(raw, &cmd); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	switch cmd.Intent {
	case "create":
		s.handleApplicationCreate(w, r, userID, cmd)
	case "update":
		s.handleApplicationUpdate(w, r, userID, cmd, raw)
	case "delete":
		s.handleApplicationDelete(w, r, userID, cmd)
	case "move":
		s.handleApplicationMove(w, r, userID, cmd)
	default:
		writeBadRequest(w, "Unknown intent")
	}
}

func remarshal(raw map[string]json.RawMessage, dst any) error {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, dst)
}

func (s *Server) handleApplicationCreate(w http.ResponseWriter, r *http.Request, userID string, cmd applicationCommand) {
	if cmd.ColumnID == "" {
		writeBadRequest(w, "columnId is required")
		return
	}

	req := application.CreateRequest{ColumnID: cmd.ColumnID}
	if cmd.Company != nil {
		req.Company = *cmd.Company
	}
	if cmd.Role != nil {
		req.Role = *cmd.Role
	}
	if cmd.URL != nil {
		req.URL = *cmd.URL
	}
	if cmd.SalaryCurrency != nil {
		req.SalaryCurrency = *cmd.SalaryCurrency
	}
	if cmd.Notes != nil {
		req.Notes = *cmd.Notes
	}

	var parseErr string
	req.DateApplied, parseErr = parseOptionalDate(cmd.DateApplied)
	if parseErr != "" {
		writeBadRequest(w, parseErr)
		return
	}
	req.SalaryMin, parseErr = parseOptionalInt(cmd.SalaryMin, "salaryMin")
	if parseErr != "" {
		writeBadRequest(w, parseErr)
		return
	}
	req.SalaryMax, parseErr = parseOptionalInt(cmd.SalaryMax, "salaryMax")
	if parseErr != "" {
		writeBadRequest(w, parseErr)
		return
	}

	app, err := s.apps.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": app.ID})
}

func (s *Server) handleApplicationUpdate(w http.ResponseWriter, r *http.Request, userID string, cmd applicationCommand, raw map[string]json.RawMessage) {
	if cmd.ApplicationID == "" {
		writeBadRequest(w, "applicationId is required")
		return
	}

	// Presence in the body is what arms a patch field; a present field
	// with a blank or null value clears nullable columns.
	has := func(field string) bool {
		_, ok := raw[field]
		return ok
	}

	req := application.UpdateRequest{
		ApplicationID:  cmd.ApplicationID,
		Company:        cmd.Company,
		Role:           cmd.Role,
		SalaryCurrency: cmd.SalaryCurrency,
	}

	if has("url") {
		req.URLSet = true
		req.URL = cmd.URL
	}
	if has("notes") {
		req.NotesSet = true
		req.Notes = cmd.Notes
	}
	if has("dateApplied") {
		req.DateAppliedSet = true
		parsed, parseErr := parseOptionalDate(cmd.DateApplied)
		if parseErr != "" {
			writeBadRequest(w, parseErr)
			return
		}
		req.DateApplied = parsed
	}
	if has("salaryMin") {
		req.SalaryMinSet = true
		parsed, parseErr := parseOptionalInt(cmd.SalaryMin, "salaryMin")
		if parseErr != "" {
			writeBadRequest(w, parseErr)
			return
		}
		req.SalaryMin = parsed
	}
	if has("salaryMax") {
		req.SalaryMaxSet = true
		parsed, parseErr := parseOptionalInt(cmd.SalaryMax, "salaryMax")
		if parseErr != "" {
			writeBadRequest(w, parseErr)
			return
		}
		req.SalaryMax = parsed
	}

	if err := s.apps.Update(r.Context(), userID, req); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

func (s *Server) handleApplicationDelete(w http.ResponseWriter, r *http.Request, userID string, cmd applicationCommand) {
	if cmd.ApplicationID == "" {
		writeBadRequest(w, "applicationId is required")
		return
	}

	if err := s.apps.Delete(r.Context(), userID, cmd.ApplicationID); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

func (s *Server) handleApplicationMove(w http.ResponseWriter, r *http.Request, userID string, cmd applicationCommand) {
	if cmd.ApplicationID == "" {
		writeBadRequest(w, "applicationId is required")
		return
	}
	if cmd.ToColumnID == "" {
		writeBadRequest(w, "toColumnId is required")
		return
	}
	if cmd.NewPosition == nil || *cmd.NewPosition < 0 {
		writeBadRequest(w, "newPosition must be a non-negative integer")
		return
	}

	if err := s.apps.Move(r.Context(), userID, cmd.ApplicationID, cmd.ToColumnID, *cmd.NewPosition); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// parseOptionalDate accepts YYYY-MM-DD or RFC 3339; nil or blank means
// absent. The returned string is a client-facing error message.
func parseOptionalDate(value *string) (*time.Time, string) {
	if value == nil || *value == "" {
		return nil, ""
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, *value); err == nil {
			return &parsed, ""
		}
	}
	return nil, "Invalid dateApplied format"
}

// parseOptionalInt parses a decimal integer; nil or blank means
// absent.
func parseOptionalInt(value *string, field string) (*int, string) {
	if value == nil || *value == "" {
		return nil, ""
	}
	parsed, err := strconv.Atoi(*value)
	if err != nil {
		return nil, field + " must be a number"
	}
	return &parsed, ""
}
