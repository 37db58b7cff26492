package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/stanleypangg/dear-applicant/internal/models"
	"github.com/stanleypangg/dear-applicant/internal/services/board"
)

type applicationDTO struct {
	ID             string  `json:"id"`
	ColumnID       string  `json:"columnId"`
	Company        string  `json:"company"`
	Role           string  `json:"role"`
	URL            *string `json:"url"`
	DateApplied    *string `json:"dateApplied"`
	SalaryMin      *int    `json:"salaryMin"`
	SalaryMax      *int    `json:"salaryMax"`
	SalaryCurrency string  `json:"salaryCurrency"`
	Notes          *string `json:"notes"`
	Position       int     `json:"position"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

type columnDTO struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Color        string           `json:"color"`
	ColorHex     string           `json:"colorHex"`
	Position     int              `json:"position"`
	Applications []applicationDTO `json:"applications"`
}

type transitionDTO struct {
	ID             string  `json:"id"`
	FromColumnID   *string `json:"fromColumnId"`
	ToColumnID     string  `json:"toColumnId"`
	TransitionedAt string  `json:"transitionedAt"`
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request, userID string) {
	columns, err := s.board.Load(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]columnDTO, 0, len(columns))
	for _, col := range columns {
		out = append(out, toColumnDTO(col))
	}
	writeJSON(w, http.StatusOK, map[string]any{"columns": out})
}

func (s *Server) handleTransitions(w http.ResponseWriter, r *http.Request, userID string) {
	applicationID := r.PathValue("id")
	transitions, err := s.history.ListForApplication(r.Context(), userID, applicationID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]transitionDTO, 0, len(transitions))
	for _, t := range transitions {
		out = append(out, transitionDTO{
			ID:             t.ID,
			FromColumnID:   t.FromColumnID,
			ToColumnID:     t.ToColumnID,
			TransitionedAt: t.TransitionedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"transitions": out})
}

func toColumnDTO(col *board.Column) columnDTO {
	apps := make([]applicationDTO, 0, len(col.Applications))
	for _, app := range col.Applications {
		apps = append(apps, toApplicationDTO(app))
	}
	return columnDTO{
		ID:           col.ID,
		Name:         col.Name,
		Color:        col.Color,
		ColorHex:     colorHex(col.Color),
		Position:     col.Position,
		Applications: apps,
	}
}

// colorHex resolves a named palette color to its display hex. Raw hex
// values pass through; unknown names fall back to gray rather than
// failing validation.
func colorHex(color string) string {
	if strings.HasPrefix(color, "#") {
		return color
	}
	if hex, ok := models.ColumnColors[color]; ok {
		return hex
	}
	return models.FallbackColor
}

func toApplicationDTO(app *models.Application) applicationDTO {
	var dateApplied *string
	if app.DateApplied != nil {
		formatted := app.DateApplied.Format("2006-01-02")
		dateApplied = &formatted
	}
	return applicationDTO{
		ID:             app.ID,
		ColumnID:       app.ColumnID,
		Company:        app.Company,
		Role:           app.Role,
		URL:            app.URL,
		DateApplied:    dateApplied,
		SalaryMin:      app.SalaryMin,
		SalaryMax:      app.SalaryMax,
		SalaryCurrency: app.SalaryCurrency,
		Notes:          app.Notes,
		Position:       app.Position,
		CreatedAt:      app.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      app.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
