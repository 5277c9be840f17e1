package services_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/ascendo/trainboard/internal/models"
	"github.com/ascendo/trainboard/internal/services"
	"github.com/ascendo/trainboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSectors struct {
	ids map[uint16]bool
}

func (f fakeSectors) Exists(id uint16) bool { return f.ids[id] }

func newProblemService(dirty *dirtyRecorder) *services.ProblemService {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return services.NewProblemService(
		store.NewProblemStore(nil),
		fakeSectors{ids: map[uint16]bool{1: true, 2: true}},
		dirty,
		models.DefaultSettings(),
		logger,
	)
}

func holds(n int) []models.Hold {
	hs := make([]models.Hold, n)
	for i := range hs {
		hs[i] = models.Hold{Position: uint16(i), Type: models.HoldNormal}
	}
	if n > 0 {
		hs[0].Type = models.HoldStart
		hs[n-1].Type = models.HoldEnd
	}
	return hs
}

func createProblem(t *testing.T, svc *services.ProblemService, author string, grade uint8, sector uint16) models.ProblemDetail {
	t.Helper()
	detail, err := svc.Create(author, services.CreateProblemInput{
		Grade:        grade,
		SectorID:     sector,
		HoldSequence: holds(3),
	})
	require.NoError(t, err)
	return detail
}

func TestProblemCreateDefaultsNameFromID(t *testing.T) {
	dirty := &dirtyRecorder{}
	svc := newProblemService(dirty)

	first := createProblem(t, svc, "alice", 5, 1)
	second := createProblem(t, svc, "alice", 5, 1)

	assert.Equal(t, "Problem 1", first.Name)
	assert.Equal(t, "Problem 2", second.Name)
	assert.Equal(t, 2, dirty.marks)
}

func TestProblemCreateValidation(t *testing.T) {
	svc := newProblemService(&dirtyRecorder{})

	_, err := svc.Create("alice", services.CreateProblemInput{SectorID: 99, HoldSequence: holds(3)})
	assert.ErrorIs(t, err, models.ErrInvalidSector)

	_, err = svc.Create("alice", services.CreateProblemInput{SectorID: 1})
	assert.ErrorIs(t, err, models.ErrEmptyHoldSequence)
}

func TestProblemListFilters(t *testing.T) {
	svc := newProblemService(&dirtyRecorder{})

	createProblem(t, svc, "alice", 3, 1)
	createProblem(t, svc, "bob", 6, 1)
	createProblem(t, svc, "bob", 6, 2)

	sector := uint16(1)
	list := svc.List(services.ProblemFilter{SectorID: &sector})
	assert.Equal(t, 2, list.Total)

	minGrade := uint8(5)
	list = svc.List(services.ProblemFilter{MinGrade: &minGrade})
	assert.Equal(t, 2, list.Total)

	maxGrade := uint8(4)
	list = svc.List(services.ProblemFilter{MaxGrade: &maxGrade})
	assert.Equal(t, 1, list.Total)
}

func TestProblemListNameFilterIsCaseInsensitive(t *testing.T) {
	svc := newProblemService(&dirtyRecorder{})

	name := "Crimpy Traverse"
	_, err := svc.Create("alice", services.CreateProblemInput{
		Name: &name, SectorID: 1, HoldSequence: holds(2),
	})
	require.NoError(t, err)
	createProblem(t, svc, "alice", 4, 1)

	list := svc.List(services.ProblemFilter{Name: "crimpy"})
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Crimpy Traverse", list.Problems[0].Name)
}

func TestProblemListPagination(t *testing.T) {
	svc := newProblemService(&dirtyRecorder{})
	for i := 0; i < 5; i++ {
		createProblem(t, svc, "alice", 4, 1)
	}

	list := svc.List(services.ProblemFilter{Page: 2, PerPage: 2})
	assert.Equal(t, 5, list.Total)
	assert.Equal(t, 2, list.Page)
	assert.Len(t, list.Problems, 2)
	assert.Equal(t, uint32(3), list.Problems[0].ID)

	// Past the end yields an empty page, not an error.
	list = svc.List(services.ProblemFilter{Page: 9, PerPage: 2})
	assert.Empty(t, list.Problems)
	assert.Equal(t, 5, list.Total)
}

func TestProblemUpdatePermissions(t *testing.T) {
	svc := newProblemService(&dirtyRecorder{})
	p := createProblem(t, svc, "alice", 4, 1)

	name := "renamed"
	_, err := svc.Update("mallory", p.ID, services.UpdateProblemInput{Name: &name})
	assert.ErrorIs(t, err, models.ErrForbidden)

	// The configured admin may edit anyone's problem.
	updated, err := svc.Update("admin", p.ID, services.UpdateProblemInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
}

func TestProblemUpdateHoldChangeResetsGrades(t *testing.T) {
	svc := newProblemService(&dirtyRecorder{})
	p := createProblem(t, svc, "alice", 4, 1)

	_, _, err := svc.SubmitGrade("bob", p.ID, 5, 3)
	require.NoError(t, err)

	// A metadata-only edit keeps the grades.
	grade := uint8(6)
	updated, err := svc.Update("alice", p.ID, services.UpdateProblemInput{Grade: &grade})
	require.NoError(t, err)
	grades, err := svc.Grades(p.ID)
	require.NoError(t, err)
	assert.Len(t, grades.Grades, 1)
	assert.Equal(t, uint8(6), updated.Grade)

	// Replacing the hold sequence changes the climb, so the grades go.
	_, err = svc.Update("alice", p.ID, services.UpdateProblemInput{HoldSequence: holds(4)})
	require.NoError(t, err)
	grades, err = svc.Grades(p.ID)
	require.NoError(t, err)
	assert.Empty(t, grades.Grades)
}

func TestProblemUpdateRejectsEmptyHoldSequence(t *testing.T) {
	svc := newProblemService(&dirtyRecorder{})
	p := createProblem(t, svc, "alice", 4, 1)

	_, err := svc.Update("alice", p.ID, services.UpdateProblemInput{HoldSequence: []models.Hold{}})
	assert.ErrorIs(t, err, models.ErrEmptyHoldSequence)
}

func TestProblemDelete(t *testing.T) {
	svc := newProblemService(&dirtyRecorder{})
	p := createProblem(t, svc, "alice", 4, 1)

	assert.ErrorIs(t, svc.Delete("mallory", p.ID), models.ErrForbidden)
	require.NoError(t, svc.Delete("alice", p.ID))
	assert.ErrorIs(t, svc.Delete("alice", p.ID), models.ErrNotFound)

	_, err := svc.Get(p.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProblemSubmitGradeUpserts(t *testing.T) {
	dirty := &dirtyRecorder{}
	svc := newProblemService(dirty)
	p := createProblem(t, svc, "alice", 4, 1)

	_, created, err := svc.SubmitGrade("bob", p.ID, 5, 3)
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = svc.SubmitGrade("bob", p.ID, 7, 2)
	require.NoError(t, err)
	assert.False(t, created)

	_, created, err = svc.SubmitGrade("carol", p.ID, 3, 1)
	require.NoError(t, err)
	assert.True(t, created)

	grades, err := svc.Grades(p.ID)
	require.NoError(t, err)
	require.Len(t, grades.Grades, 2)
	require.NotNil(t, grades.AverageGrade)
	assert.InDelta(t, 5.0, *grades.AverageGrade, 0.001)
	require.NotNil(t, grades.AverageStars)
	assert.InDelta(t, 1.5, *grades.AverageStars, 0.001)
}

func TestProblemSubmitGradeUnknownProblem(t *testing.T) {
	svc := newProblemService(&dirtyRecorder{})

	_, _, err := svc.SubmitGrade("bob", 42, 5, 3)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
