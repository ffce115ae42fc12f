package experiment

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jdginn/go-raytracer/log"
)

const (
	RendersDir    = "renders"
	LatestSymlink = "latest"
)

var logger = log.New("experiment")

// RunDir is the output directory of one render.
type RunDir struct {
	Path      string // absolute
	ID        string
	Timestamp time.Time
}

// CreateRunDirectory creates a fresh run directory under root (RendersDir
// when empty) and points root/latest at it.
func CreateRunDirectory(root string) (*RunDir, error) {
	if root == "" {
		root = RendersDir
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating renders directory: %w", err)
	}

	now := time.Now().UTC()
	id := GenerateRunID(now)
	absPath, err := filepath.Abs(filepath.Join(root, id))
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}
	if err := os.Mkdir(absPath, 0755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}

	latestPath := filepath.Join(root, LatestSymlink)
	_ = os.Remove(latestPath)
	if err := os.Symlink(id, latestPath); err != nil {
		logger.Warningf("failed to create latest symlink: %v", err)
	}

	return &RunDir{
		Path:      absPath,
		ID:        id,
		Timestamp: now,
	}, nil
}

// GetFilePath returns the absolute path for a file in the run directory
func (r *RunDir) GetFilePath(filename string) string {
	return filepath.Join(r.Path, filename)
}

// CopyFile copies srcPath into the run directory under its base name.
// Used for the config and the scene file so a run can be reproduced.
func (r *RunDir) CopyFile(srcPath string) error {
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", srcPath, err)
	}

	destPath := r.GetFilePath(filepath.Base(srcPath))
	if err := os.WriteFile(destPath, content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", destPath, err)
	}

	return nil
}
