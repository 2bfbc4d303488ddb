package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

const classifierFileName = "classifier.json"

// classifierFile is the on-disk form of the host state.
type classifierFile struct {
	Name string `json:"name"`
}

// ClassifierFileRepository implements ports.ClassifierRepository using a JSON file.
type ClassifierFileRepository struct {
	dir string
}

// NewClassifierFileRepository creates a repository storing its file in dir.
func NewClassifierFileRepository(dir string) *ClassifierFileRepository {
	return &ClassifierFileRepository{dir: dir}
}

// Load retrieves the saved name.
// Returns "" and nil error if no state file exists.
func (r *ClassifierFileRepository) Load(ctx context.Context) (string, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	var f classifierFile
	if err := json.Unmarshal(data, &f); err != nil {
		return "", err
	}
	return f.Name, nil
}

// Save persists the name atomically (write to temp file, then rename).
func (r *ClassifierFileRepository) Save(ctx context.Context, name string) error {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(classifierFile{Name: name}, "", "  ")
	if err != nil {
		return err
	}

	// Each save gets its own temp file so concurrent saves never rename
	// each other's file away.
	f, err := os.CreateTemp(r.dir, "classifier-*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, r.Path()); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Path returns the full path to the state file.
func (r *ClassifierFileRepository) Path() string {
	return filepath.Join(r.dir, classifierFileName)
}
