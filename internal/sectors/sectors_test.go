package sectors_test

import (
	"encoding/json"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ascendo/trainboard/internal/models"
	"github.com/ascendo/trainboard/internal/sectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeSector(t *testing.T, dir, folder string, metadata models.SectorMetadata, imgWidth, imgHeight int) {
	t.Helper()
	sectorDir := filepath.Join(dir, folder)
	require.NoError(t, os.MkdirAll(sectorDir, 0o755))

	data, err := json.Marshal(metadata)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(sectorDir, "metadata.json"), data, 0o644))

	f, err := os.Create(filepath.Join(sectorDir, "wall.png"))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, imgWidth, imgHeight))))
}

func TestLoadMissingDirectoryYieldsEmptyCatalog(t *testing.T) {
	catalog, err := sectors.Load(filepath.Join(t.TempDir(), "nope"), testLogger())
	require.NoError(t, err)

	assert.Empty(t, catalog.List())
	assert.False(t, catalog.Exists(1))
}

func TestLoadReadsMetadataAndImageDimensions(t *testing.T) {
	dir := t.TempDir()
	id := uint16(4)
	writeSector(t, dir, "overhang", models.SectorMetadata{
		ID:            &id,
		ImageFilename: "wall.png",
		Holds:         [][4]uint16{{10, 20, 30, 40}},
	}, 320, 240)

	catalog, err := sectors.Load(dir, testLogger())
	require.NoError(t, err)

	assert.Equal(t, []models.SectorSummary{{ID: 4, Name: "overhang"}}, catalog.List())

	detail, ok := catalog.Detail(4)
	require.True(t, ok)
	assert.Equal(t, uint32(320), detail.ImageWidth)
	assert.Equal(t, uint32(240), detail.ImageHeight)
	assert.Len(t, detail.Holds, 1)
}

func TestLoadAutoDetectsImageFile(t *testing.T) {
	dir := t.TempDir()
	writeSector(t, dir, "slab", models.SectorMetadata{Holds: [][4]uint16{}}, 16, 16)

	catalog, err := sectors.Load(dir, testLogger())
	require.NoError(t, err)

	path, contentType, ok := catalog.ImagePath(1)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "slab", "wall.png"), path)
	assert.Equal(t, "image/png", contentType)
}

func TestLoadAssignsMissingIDsAndWritesBack(t *testing.T) {
	dir := t.TempDir()
	existing := uint16(7)
	writeSector(t, dir, "arch", models.SectorMetadata{ID: &existing, ImageFilename: "wall.png"}, 8, 8)
	writeSector(t, dir, "roof", models.SectorMetadata{ImageFilename: "wall.png"}, 8, 8)

	catalog, err := sectors.Load(dir, testLogger())
	require.NoError(t, err)

	// The sector without an id gets max+1.
	assert.True(t, catalog.Exists(7))
	assert.True(t, catalog.Exists(8))

	// And the assignment is persisted for the next restart.
	data, err := os.ReadFile(filepath.Join(dir, "roof", "metadata.json"))
	require.NoError(t, err)
	var written models.SectorMetadata
	require.NoError(t, json.Unmarshal(data, &written))
	require.NotNil(t, written.ID)
	assert.Equal(t, uint16(8), *written.ID)
}

func TestLoadSkipsDirectoriesWithoutMetadata(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "not-a-sector"), 0o755))
	id := uint16(1)
	writeSector(t, dir, "cave", models.SectorMetadata{ID: &id, ImageFilename: "wall.png"}, 8, 8)

	catalog, err := sectors.Load(dir, testLogger())
	require.NoError(t, err)

	assert.Len(t, catalog.List(), 1)
}

func TestLoadUsesDisplayNameWhenSet(t *testing.T) {
	dir := t.TempDir()
	id := uint16(2)
	writeSector(t, dir, "sector-02", models.SectorMetadata{
		ID:            &id,
		ImageFilename: "wall.png",
		DisplayName:   "The Prow",
	}, 8, 8)

	catalog, err := sectors.Load(dir, testLogger())
	require.NoError(t, err)

	assert.Equal(t, []models.SectorSummary{{ID: 2, Name: "The Prow"}}, catalog.List())
}
