package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stanleypangg/dear-applicant/internal/database"
	"github.com/stanleypangg/dear-applicant/internal/models"
)

const jobsPageSize = 25

type listingDTO struct {
	ID          string   `json:"id"`
	Company     string   `json:"company"`
	Title       string   `json:"title"`
	Locations   []string `json:"locations"`
	URL         string   `json:"url"`
	Category    *string  `json:"category"`
	Sponsorship *string  `json:"sponsorship"`
	Active      bool     `json:"active"`
	DatePosted  *string  `json:"datePosted"`
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request, userID string) {
	q := r.URL.Query()

	// a missing, malformed, or out-of-range page clamps to the first
	// page rather than failing the request
	page := 1
	if parsed, err := strconv.Atoi(q.Get("page")); err == nil && parsed > 1 {
		page = parsed
	}

	filter := database.ListingFilter{
		Query:           strings.TrimSpace(q.Get("q")),
		Category:        q.Get("category"),
		Sponsorship:     q.Get("sponsorship"),
		Location:        strings.TrimSpace(q.Get("location")),
		IncludeInactive: q.Get("active") == "all",
		Page:            page,
		PageSize:        jobsPageSize,
	}

	listings, total, err := s.listings.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	categories, err := s.listings.DistinctCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	sponsorships, err := s.listings.DistinctSponsorships(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	lastSynced, err := s.listings.LastSyncedAt(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]listingDTO, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingDTO(l))
	}

	totalPages := (total + jobsPageSize - 1) / jobsPageSize
	var lastSyncedAt *string
	if lastSynced != nil {
		formatted := lastSynced.UTC().Format(time.RFC3339)
		lastSyncedAt = &formatted
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":         out,
		"total":        total,
		"page":         page,
		"totalPages":   totalPages,
		"categories":   categories,
		"sponsorships": sponsorships,
		"lastSyncedAt": lastSyncedAt,
	})
}

func toListingDTO(l *models.JobListing) listingDTO {
	// Locations is stored as a JSON array string straight from the
	// feed; a row that fails to decode renders with no locations rather
	// than failing the whole page.
	var locations []string
	if err := json.Unmarshal([]byte(l.Locations), &locations); err != nil {
		locations = nil
	}

	var datePosted *string
	if l.DatePosted != nil {
		formatted := l.DatePosted.UTC().Format("2006-01-02")
		datePosted = &formatted
	}

	return listingDTO{
		ID:          l.ID,
		Company:     l.Company,
		Title:       l.Title,
		Locations:   locations,
		URL:         l.URL,
		Category:    l.Category,
		Sponsorship: l.Sponsorship,
		Active:      l.Active,
		DatePosted:  datePosted,
	}
}
