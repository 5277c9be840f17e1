package models

// SectorMetadata mirrors a sector directory's metadata.json. The fields not
// tagged for JSON are filled in at load time from the directory contents.
type SectorMetadata struct {
	ImageFilename string      `json:"image_filename,omitempty"`
	Holds         [][4]uint16 `json:"holds"`
	ID            *uint16     `json:"id,omitempty"`
	DisplayName   string      `json:"display_name,omitempty"`

	ImageWidth  uint32 `json:"-"`
	ImageHeight uint32 `json:"-"`
	FolderName  string `json:"-"`
}

// Name returns the sector's display name, falling back to the folder name.
func (m *SectorMetadata) Name() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.FolderName
}

// SectorSummary is the list-view representation of a sector.
type SectorSummary struct {
	ID   uint16 `json:"id"`
	Name string `json:"name"`
}

// SectorDetail is the full API representation of a sector.
type SectorDetail struct {
	ID          uint16      `json:"id"`
	Name        string      `json:"name"`
	Holds       [][4]uint16 `json:"holds"`
	ImageWidth  uint32      `json:"image_width"`
	ImageHeight uint32      `json:"image_height"`
}
