package services

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ascendo/trainboard/internal/models"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// ProblemRepository is the slice of the problem store the service depends on.
type ProblemRepository interface {
	Snapshot() []models.Problem
	Get(id uint32) (models.Problem, bool)
	AllocateID() uint32
	Insert(p models.Problem)
	Mutate(id uint32, fn func(*models.Problem) error) (models.Problem, error)
	Delete(id uint32) bool
}

// SectorCatalog answers whether a sector id exists.
type SectorCatalog interface {
	Exists(id uint16) bool
}

// ProblemService implements the boulder-problem operations: listing with
// filters and pagination, CRUD with author/admin permissions, and community
// grading.
type ProblemService struct {
	problems ProblemRepository
	sectors  SectorCatalog
	dirty    DirtyMarker
	settings models.Settings
	logger   *slog.Logger
	now      func() time.Time
}

// NewProblemService creates a new ProblemService.
func NewProblemService(
	problems ProblemRepository,
	sectors SectorCatalog,
	dirty DirtyMarker,
	settings models.Settings,
	logger *slog.Logger,
) *ProblemService {
	return &ProblemService{
		problems: problems,
		sectors:  sectors,
		dirty:    dirty,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

// ProblemFilter narrows and pages the problem listing. Nil fields mean
// "no constraint"; Name matches case-insensitively on substrings.
type ProblemFilter struct {
	SectorID *uint16
	MinGrade *uint8
	MaxGrade *uint8
	Name     string
	Page     int
	PerPage  int
}

// ProblemList is the paged listing response.
type ProblemList struct {
	Problems []models.ProblemSummary `json:"problems"`
	Total    int                     `json:"total"`
	Page     int                     `json:"page"`
	PerPage  int                     `json:"per_page"`
}

// ProblemGrades is the per-problem community grading response.
type ProblemGrades struct {
	ProblemID    uint32         `json:"problem_id"`
	Grades       []models.Grade `json:"grades"`
	AverageGrade *float64       `json:"average_grade"`
	AverageStars *float64       `json:"average_stars"`
}

// CreateProblemInput holds the fields accepted when creating a problem.
type CreateProblemInput struct {
	Name         *string
	Description  *string
	Grade        uint8
	SectorID     uint16
	HoldSequence []models.Hold
}

// UpdateProblemInput holds the optional fields of a problem update. Nil
// fields are left untouched.
type UpdateProblemInput struct {
	Name         *string
	Description  *string
	Grade        *uint8
	HoldSequence []models.Hold
}

// List returns a filtered, paginated view of the problem collection.
func (s *ProblemService) List(filter ProblemFilter) ProblemList {
	all := s.problems.Snapshot()

	nameQuery := strings.ToLower(filter.Name)
	filtered := make([]models.Problem, 0, len(all))
	for i := range all {
		p := &all[i]
		if filter.SectorID != nil && p.SectorID != *filter.SectorID {
			continue
		}
		if filter.MinGrade != nil && p.Grade < *filter.MinGrade {
			continue
		}
		if filter.MaxGrade != nil && p.Grade > *filter.MaxGrade {
			continue
		}
		if nameQuery != "" && !strings.Contains(strings.ToLower(p.Name), nameQuery) {
			continue
		}
		filtered = append(filtered, *p)
	}

	page := max(filter.Page, 1)
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	perPage = min(perPage, maxPerPage)

	start := min((page-1)*perPage, len(filtered))
	end := min(start+perPage, len(filtered))

	summaries := make([]models.ProblemSummary, 0, end-start)
	for i := start; i < end; i++ {
		summaries = append(summaries, filtered[i].ToSummary())
	}

	return ProblemList{
		Problems: summaries,
		Total:    len(filtered),
		Page:     page,
		PerPage:  perPage,
	}
}

// Get returns the detail view of one problem.
func (s *ProblemService) Get(id uint32) (models.ProblemDetail, error) {
	p, ok := s.problems.Get(id)
	if !ok {
		return models.ProblemDetail{}, models.ErrNotFound
	}
	return p.ToDetail(), nil
}

// Create stores a new problem authored by username. The sector must exist
// and the hold sequence must be non-empty. An omitted name defaults to
// "Problem <id>".
func (s *ProblemService) Create(username string, input CreateProblemInput) (models.ProblemDetail, error) {
	if !s.sectors.Exists(input.SectorID) {
		return models.ProblemDetail{}, models.ErrInvalidSector
	}
	if len(input.HoldSequence) == 0 {
		return models.ProblemDetail{}, models.ErrEmptyHoldSequence
	}

	id := s.problems.AllocateID()
	name := fmt.Sprintf("Problem %d", id)
	if input.Name != nil && *input.Name != "" {
		name = *input.Name
	}

	problem := models.Problem{
		BaseProblem: models.BaseProblem{
			ID:          id,
			Name:        name,
			Description: input.Description,
			Author:      username,
			Grade:       input.Grade,
			SectorID:    input.SectorID,
			UpdatedAt:   s.timestamp(),
		},
		HoldSequence: input.HoldSequence,
		Grades:       []models.Grade{},
	}

	s.problems.Insert(problem)
	s.dirty.MarkDirty()
	s.logger.Info("problem created",
		slog.Uint64("problem_id", uint64(id)),
		slog.String("author", username))

	return problem.ToDetail(), nil
}

// Update applies a partial update. Only the author or an admin may edit;
// replacing the hold sequence invalidates the community grades, which are
// reset along with it.
func (s *ProblemService) Update(username string, id uint32, input UpdateProblemInput) (models.ProblemDetail, error) {
	updated, err := s.problems.Mutate(id, func(p *models.Problem) error {
		if p.Author != username && !s.settings.IsAdmin(username) {
			return models.ErrForbidden
		}
		if input.HoldSequence != nil && len(input.HoldSequence) == 0 {
			return models.ErrEmptyHoldSequence
		}

		if input.Name != nil {
			p.Name = *input.Name
		}
		if input.Description != nil {
			p.Description = input.Description
		}
		if input.Grade != nil {
			p.Grade = *input.Grade
		}
		if input.HoldSequence != nil {
			p.HoldSequence = input.HoldSequence
			p.Grades = p.Grades[:0]
		}
		p.UpdatedAt = s.timestamp()
		return nil
	})
	if err != nil {
		return models.ProblemDetail{}, err
	}

	s.dirty.MarkDirty()
	return updated.ToDetail(), nil
}

// Delete removes a problem. Only the author or an admin may delete.
func (s *ProblemService) Delete(username string, id uint32) error {
	p, ok := s.problems.Get(id)
	if !ok {
		return models.ErrNotFound
	}
	if p.Author != username && !s.settings.IsAdmin(username) {
		return models.ErrForbidden
	}

	if s.problems.Delete(id) {
		s.dirty.MarkDirty()
		s.logger.Info("problem deleted",
			slog.Uint64("problem_id", uint64(id)),
			slog.String("by", username))
	}
	return nil
}

// Grades returns the community grades for one problem.
func (s *ProblemService) Grades(id uint32) (ProblemGrades, error) {
	p, ok := s.problems.Get(id)
	if !ok {
		return ProblemGrades{}, models.ErrNotFound
	}
	ag, as := p.Averages()
	return ProblemGrades{
		ProblemID:    id,
		Grades:       p.Grades,
		AverageGrade: ag,
		AverageStars: as,
	}, nil
}

// SubmitGrade records username's grading of a problem, replacing any earlier
// submission by the same user. The returned bool is true when this was the
// user's first grade for the problem.
func (s *ProblemService) SubmitGrade(username string, id uint32, grade, stars uint8) (models.Grade, bool, error) {
	created := false
	entry := models.Grade{
		Username:  username,
		Grade:     grade,
		Stars:     stars,
		CreatedAt: s.timestamp(),
	}

	_, err := s.problems.Mutate(id, func(p *models.Problem) error {
		for i := range p.Grades {
			if p.Grades[i].Username == username {
				p.Grades[i] = entry
				return nil
			}
		}
		p.Grades = append(p.Grades, entry)
		created = true
		return nil
	})
	if err != nil {
		return models.Grade{}, false, err
	}

	s.dirty.MarkDirty()
	return entry, created, nil
}

// timestamp renders the current time as unix seconds, the format the data
// files have always used.
func (s *ProblemService) timestamp() string {
	return strconv.FormatInt(s.now().Unix(), 10)
}
