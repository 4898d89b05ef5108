package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"marsphotos/pkg/nasa"
)

// Suffix is appended to a photo's file name to form its sidecar name
const Suffix = ".json"

// PhotoMetadata is the sidecar written next to a downloaded photo
type PhotoMetadata struct {
	// Core identifiers
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	ImgSrc   string `json:"img_src"`

	// Mission context
	Sol       int    `json:"sol"`
	EarthDate string `json:"earth_date"`
	Rover     string `json:"rover"`
	Camera    Camera `json:"camera"`

	FileSize     int64     `json:"file_size,omitempty"`
	DownloadedAt time.Time `json:"downloaded_at"`
	RunID        string    `json:"run_id,omitempty"`
}

// Camera names the instrument that took the photo
type Camera struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// Writer stores a named blob atomically. storage.Manager satisfies it.
type Writer interface {
	WriteFile(name string, data []byte) error
}

// FromPhoto converts an API photo record into sidecar metadata
func FromPhoto(photo nasa.Photo, fileName string, fileSize int64, runID string) *PhotoMetadata {
	return &PhotoMetadata{
		ID:        photo.ID,
		FileName:  fileName,
		ImgSrc:    photo.ImgSrc,
		Sol:       photo.Sol,
		EarthDate: photo.EarthDate,
		Rover:     photo.Rover.Name,
		Camera: Camera{
			Name:     photo.Camera.Name,
			FullName: photo.Camera.FullName,
		},
		FileSize:     fileSize,
		DownloadedAt: time.Now().UTC(),
		RunID:        runID,
	}
}

// SidecarName returns the sidecar file name for a photo file name
func SidecarName(photoName string) string {
	return photoName + Suffix
}

// Save writes the metadata as indented JSON next to its photo
func (m *PhotoMetadata) Save(w Writer) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := w.WriteFile(SidecarName(m.FileName), data); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}

// Load reads the sidecar of the photo at photoPath
func Load(photoPath string) (*PhotoMetadata, error) {
	data, err := os.ReadFile(photoPath + Suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var meta PhotoMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return &meta, nil
}

// MetadataExists checks if metadata file exists for a photo
func MetadataExists(photoPath string) bool {
	_, err := os.Stat(photoPath + Suffix)
	return err == nil
}

// CleanOrphanedMetadata removes sidecars in directory whose photo is gone.
// Only names of the form <name>.<ext>.json are considered sidecars.
func CleanOrphanedMetadata(directory string) (int, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, Suffix) {
			continue
		}
		photoName := strings.TrimSuffix(name, Suffix)
		if filepath.Ext(photoName) == "" {
			continue
		}

		if _, err := os.Stat(filepath.Join(directory, photoName)); os.IsNotExist(err) {
			if err := os.Remove(filepath.Join(directory, name)); err != nil {
				return removed, fmt.Errorf("failed to remove orphaned metadata %s: %w", name, err)
			}
			removed++
		}
	}
	return removed, nil
}
