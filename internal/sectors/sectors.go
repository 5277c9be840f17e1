// Package sectors loads the wall-sector catalog from a directory tree.
// Each subdirectory holds a metadata.json plus one image of the sector wall.
// The catalog is read-only after startup; editing sectors means editing the
// directory and restarting.
package sectors

import (
	"bufio"
	"encoding/json"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/ascendo/trainboard/internal/models"
)

const metadataFile = "metadata.json"

// Catalog is the loaded sector collection, indexed by numeric id.
type Catalog struct {
	dir       string
	summaries []models.SectorSummary
	byID      map[uint16]*models.SectorMetadata
}

// Load scans dir for sector subdirectories. Directories without a readable
// metadata.json, a detectable image, or decodable image dimensions are
// skipped with a log line. Sectors missing an id are assigned max(id)+1 and
// the metadata file is rewritten so ids stay stable across restarts.
func Load(dir string, logger *slog.Logger) (*Catalog, error) {
	catalog := &Catalog{dir: dir, byID: make(map[uint16]*models.SectorMetadata)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return catalog, nil
		}
		return nil, err
	}

	type loaded struct {
		folder   string
		metadata *models.SectorMetadata
	}
	var sectorData []loaded
	var maxID uint16

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := entry.Name()
		sectorDir := filepath.Join(dir, folder)

		data, err := os.ReadFile(filepath.Join(sectorDir, metadataFile))
		if err != nil {
			continue
		}

		var metadata models.SectorMetadata
		if err := json.Unmarshal(data, &metadata); err != nil {
			logger.Warn("malformed sector metadata", slog.String("sector", folder), slog.Any("error", err))
			continue
		}

		if metadata.ImageFilename == "" {
			filename, ok := findImageFile(sectorDir)
			if !ok {
				logger.Warn("no image file in sector directory", slog.String("sector", folder))
				continue
			}
			metadata.ImageFilename = filename
		}

		width, height, err := readImageDimensions(filepath.Join(sectorDir, metadata.ImageFilename))
		if err != nil {
			logger.Warn("failed to read sector image dimensions",
				slog.String("sector", folder), slog.Any("error", err))
			continue
		}
		metadata.ImageWidth = width
		metadata.ImageHeight = height
		metadata.FolderName = folder

		if metadata.ID != nil && *metadata.ID > maxID {
			maxID = *metadata.ID
		}
		sectorData = append(sectorData, loaded{folder: folder, metadata: &metadata})
	}

	sort.Slice(sectorData, func(i, j int) bool { return sectorData[i].folder < sectorData[j].folder })

	for _, s := range sectorData {
		if s.metadata.ID == nil {
			maxID++
			id := maxID
			s.metadata.ID = &id
			writeMetadata(filepath.Join(dir, s.folder, metadataFile), s.metadata, logger)
		}

		id := *s.metadata.ID
		catalog.summaries = append(catalog.summaries, models.SectorSummary{ID: id, Name: s.metadata.Name()})
		catalog.byID[id] = s.metadata
	}

	return catalog, nil
}

// List returns the sector summaries, ordered by folder name.
func (c *Catalog) List() []models.SectorSummary {
	out := make([]models.SectorSummary, len(c.summaries))
	copy(out, c.summaries)
	return out
}

// Exists reports whether a sector with the given id is in the catalog.
func (c *Catalog) Exists(id uint16) bool {
	_, ok := c.byID[id]
	return ok
}

// Detail returns the full API representation of a sector.
func (c *Catalog) Detail(id uint16) (models.SectorDetail, bool) {
	m, ok := c.byID[id]
	if !ok {
		return models.SectorDetail{}, false
	}
	return models.SectorDetail{
		ID:          id,
		Name:        m.Name(),
		Holds:       m.Holds,
		ImageWidth:  m.ImageWidth,
		ImageHeight: m.ImageHeight,
	}, true
}

// ImagePath returns the on-disk path of the sector image and its content
// type for serving.
func (c *Catalog) ImagePath(id uint16) (path, contentType string, ok bool) {
	m, found := c.byID[id]
	if !found {
		return "", "", false
	}
	path = filepath.Join(c.dir, m.FolderName, m.ImageFilename)
	return path, contentTypeFor(m.ImageFilename), true
}

func findImageFile(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		name := entry.Name()
		lower := strings.ToLower(name)
		if strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg") || strings.HasSuffix(lower, ".png") {
			return name, true
		}
	}
	return "", false
}

func readImageDimensions(path string) (width, height uint32, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(bufio.NewReader(f))
	if err != nil {
		return 0, 0, err
	}
	return uint32(cfg.Width), uint32(cfg.Height), nil
}

func writeMetadata(path string, m *models.SectorMetadata, logger *slog.Logger) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Warn("failed to write back sector metadata", slog.String("path", path), slog.Any("error", err))
	}
}

func contentTypeFor(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
