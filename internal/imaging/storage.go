package imaging

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage manages product image folders under a single output root.
//
// Folder uniqueness relies on filesystem existence probing and assumes a
// single process per output root; concurrent runs against the same root
// would race on the probe and are unsupported.
type Storage struct {
	root string
}

// NewStorage creates a Storage rooted at root, creating the directory if
// it doesn't exist.
func NewStorage(root string) (*Storage, error) {
	if root == "" {
		return nil, fmt.Errorf("output root cannot be empty")
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output root: %w", err)
	}

	return &Storage{root: root}, nil
}

// Root returns the output root directory.
func (s *Storage) Root() string {
	return s.root
}

// UniqueDir returns an unused folder path for slug under the root.
// If {root}/{slug} already exists it probes {root}/{slug}-2, {slug}-3, …
// until an unused path is found. The directory is not created.
func (s *Storage) UniqueDir(slug string) string {
	candidate := filepath.Join(s.root, slug)
	for attempt := 2; pathExists(candidate); attempt++ {
		candidate = filepath.Join(s.root, fmt.Sprintf("%s-%d", slug, attempt))
	}
	return candidate
}

// SaveImage writes encoded image data to {dir}/{index}.webp, creating the
// directory if needed. Index is the 1-based position of the source URL.
func (s *Storage) SaveImage(dir string, index int, data []byte) (string, error) {
	if index < 1 {
		return "", fmt.Errorf("image index must be >= 1, got %d", index)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image data cannot be empty")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create product folder: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%d.webp", index))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return path, nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
