package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ascendo/trainboard/internal/middleware"
	"github.com/ascendo/trainboard/internal/models"
	"github.com/ascendo/trainboard/internal/services"
	pkghttp "github.com/ascendo/trainboard/pkg/http"
)

// ProblemServiceInterface defines the interface for problem business logic
type ProblemServiceInterface interface {
	List(filter services.ProblemFilter) services.ProblemList
	Get(id uint32) (models.ProblemDetail, error)
	Create(username string, input services.CreateProblemInput) (models.ProblemDetail, error)
	Update(username string, id uint32, input services.UpdateProblemInput) (models.ProblemDetail, error)
	Delete(username string, id uint32) error
	Grades(id uint32) (services.ProblemGrades, error)
	SubmitGrade(username string, id uint32, grade, stars uint8) (models.Grade, bool, error)
}

// ProblemHandler handles boulder-problem HTTP requests
type ProblemHandler struct {
	service ProblemServiceInterface
}

// NewProblemHandler creates a new ProblemHandler
func NewProblemHandler(service ProblemServiceInterface) *ProblemHandler {
	return &ProblemHandler{service: service}
}

// CreateProblemRequest represents the request body for creating a problem
type CreateProblemRequest struct {
	Name         *string       `json:"name" validate:"omitempty,max=100"`
	Description  *string       `json:"description" validate:"omitempty,max=1000"`
	Grade        uint8         `json:"grade"`
	SectorID     uint16        `json:"sector_id"`
	HoldSequence []models.Hold `json:"hold_sequence" validate:"required"`
}

// UpdateProblemRequest represents the request body for a partial update
type UpdateProblemRequest struct {
	Name         *string       `json:"name" validate:"omitempty,max=100"`
	Description  *string       `json:"description" validate:"omitempty,max=1000"`
	Grade        *uint8        `json:"grade"`
	HoldSequence []models.Hold `json:"hold_sequence"`
}

// SubmitGradeRequest represents the request body for grading a problem
type SubmitGradeRequest struct {
	Grade uint8 `json:"grade"`
	Stars uint8 `json:"stars" validate:"required,gte=1,lte=5"`
}

// List returns problems matching the query filters, paginated.
func (h *ProblemHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProblemFilter(r)
	if err != nil {
		pkghttp.WriteBadRequest(w, "BAD_REQUEST", err.Error())
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, h.service.List(filter))
}

// Get returns one problem with its hold sequence and grade averages.
func (h *ProblemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProblemID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, detail)
}

// Create stores a new problem authored by the caller.
func (h *ProblemHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "NOT_AUTHENTICATED", "authentication required")
		return
	}

	var req CreateProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "BAD_REQUEST", "invalid request body")
		return
	}

	if verr := ValidateRequest(req); verr != nil {
		code := "BAD_REQUEST"
		if verr.Field == "HoldSequence" {
			code = "INVALID_HOLD_SEQUENCE"
		}
		pkghttp.WriteBadRequest(w, code, verr.Error())
		return
	}

	detail, err := h.service.Create(username, services.CreateProblemInput{
		Name:         req.Name,
		Description:  req.Description,
		Grade:        req.Grade,
		SectorID:     req.SectorID,
		HoldSequence: req.HoldSequence,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, detail)
}

// Update applies a partial update to a problem.
func (h *ProblemHandler) Update(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "NOT_AUTHENTICATED", "authentication required")
		return
	}

	id, ok := parseProblemID(w, r)
	if !ok {
		return
	}

	var req UpdateProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "BAD_REQUEST", "invalid request body")
		return
	}

	if verr := ValidateRequest(req); verr != nil {
		pkghttp.WriteBadRequest(w, "BAD_REQUEST", verr.Error())
		return
	}

	detail, err := h.service.Update(username, id, services.UpdateProblemInput{
		Name:         req.Name,
		Description:  req.Description,
		Grade:        req.Grade,
		HoldSequence: req.HoldSequence,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, detail)
}

// Delete removes a problem.
func (h *ProblemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "NOT_AUTHENTICATED", "authentication required")
		return
	}

	id, ok := parseProblemID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(username, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Grades returns a problem's community grades and their averages.
func (h *ProblemHandler) Grades(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProblemID(w, r)
	if !ok {
		return
	}

	grades, err := h.service.Grades(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, grades)
}

// SubmitGrade records the caller's grading of a problem. 201 on a first
// submission, 200 when an earlier one is replaced.
func (h *ProblemHandler) SubmitGrade(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "NOT_AUTHENTICATED", "authentication required")
		return
	}

	id, ok := parseProblemID(w, r)
	if !ok {
		return
	}

	var req SubmitGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "BAD_REQUEST", "invalid request body")
		return
	}

	if verr := ValidateRequest(req); verr != nil {
		code := "BAD_REQUEST"
		if verr.Field == "Stars" {
			code = "INVALID_STARS"
		}
		pkghttp.WriteBadRequest(w, code, verr.Error())
		return
	}

	entry, created, err := h.service.SubmitGrade(username, id, req.Grade, req.Stars)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	pkghttp.WriteJSON(w, status, entry)
}

func parseProblemID(w http.ResponseWriter, r *http.Request) (uint32, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		pkghttp.WriteBadRequest(w, "BAD_REQUEST", "invalid problem id")
		return 0, false
	}
	return uint32(id), true
}

func parseProblemFilter(r *http.Request) (services.ProblemFilter, error) {
	q := r.URL.Query()
	var filter services.ProblemFilter

	if raw := q.Get("sector_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 16)
		if err != nil {
			return filter, errInvalidQueryParam("sector_id")
		}
		sector := uint16(v)
		filter.SectorID = &sector
	}
	if raw := q.Get("min_grade"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			return filter, errInvalidQueryParam("min_grade")
		}
		grade := uint8(v)
		filter.MinGrade = &grade
	}
	if raw := q.Get("max_grade"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			return filter, errInvalidQueryParam("max_grade")
		}
		grade := uint8(v)
		filter.MaxGrade = &grade
	}
	filter.Name = q.Get("name")

	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return filter, errInvalidQueryParam("page")
		}
		filter.Page = v
	}
	if raw := q.Get("per_page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return filter, errInvalidQueryParam("per_page")
		}
		filter.PerPage = v
	}

	return filter, nil
}

type queryParamError string

func errInvalidQueryParam(name string) error { return queryParamError(name) }

func (e queryParamError) Error() string { return "invalid query parameter: " + string(e) }
