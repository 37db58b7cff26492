package server

import (
	"encoding/json"
	"net/http"

	"github.com/stanleypangg/dear-applicant/internal/services/column"
)

// columnCommand is the intent-tagged body for POST /dashboard/columns.
type columnCommand struct {
	Intent              string  `json:"intent"`
	ColumnID            string  `json:"columnId"`
	Name                *string `json:"name"`
	Color               *string `json:"color"`
	DestinationColumnID *string `json:"destinationColumnId"`
	NewPosition         *int    `json:"newPosition"`
}

func (s *Server) handleColumnAction(w http.ResponseWriter, r *http.Request, userID string) {
	var cmd columnCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	switch cmd.Intent {
	case "create":
		s.handleColumnCreate(w, r, userID, cmd)
	case "update":
		s.handleColumnUpdate(w, r, userID, cmd)
	case "delete":
		s.handleColumnDelete(w, r, userID, cmd)
	case "reorder":
		s.handleColumnReorder(w, r, userID, cmd)
	default:
		writeBadRequest(w, "Unknown intent")
	}
}

func (s *Server) handleColumnCreate(w http.ResponseWriter, r *http.Request, userID string, cmd columnCommand) {
	req := column.CreateRequest{}
	if cmd.Name != nil {
		req.Name = *cmd.Name
	}
	if cmd.Color != nil {
		req.Color = *cmd.Color
	}

	col, err := s.columns.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": col.ID})
}

func (s *Server) handleColumnUpdate(w http.ResponseWriter, r *http.Request, userID string, cmd columnCommand) {
	if cmd.ColumnID == "" {
		writeBadRequest(w, "columnId is required")
		return
	}

	err := s.columns.Update(r.Context(), userID, column.UpdateRequest{
		ColumnID: cmd.ColumnID,
		Name:     cmd.Name,
		Color:    cmd.Color,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

func (s *Server) handleColumnDelete(w http.ResponseWriter, r *http.Request, userID string, cmd columnCommand) {
	if cmd.ColumnID == "" {
		writeBadRequest(w, "columnId is required")
		return
	}

	if err := s.columns.Delete(r.Context(), userID, cmd.ColumnID, cmd.DestinationColumnID); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

func (s *Server) handleColumnReorder(w http.ResponseWriter, r *http.Request, userID string, cmd columnCommand) {
	if cmd.ColumnID == "" {
		writeBadRequest(w, "columnId is required")
		return
	}
	if cmd.NewPosition == nil || *cmd.NewPosition < 0 {
		writeBadRequest(w, "newPosition must be a non-negative integer")
		return
	}

	if err := s.columns.Reorder(r.Context(), userID, cmd.ColumnID, *cmd.NewPosition); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}
