package services

import (
	"os"
	"path/filepath"
	"sync"

	g "github.com/chryscloud/nexus-monitor/globals"
	"github.com/chryscloud/nexus-monitor/models"
)

// FileConfigStore keeps the dashboard configuration in a single JSON file. Writes go to a
// temporary file in the same directory which is then renamed over the target, so readers see
// either the previous or the new document.
type FileConfigStore struct {
	path string
	mux  sync.RWMutex
}

func NewFileConfigStore(path string) *FileConfigStore {
	return &FileConfigStore{path: path}
}

func (fs *FileConfigStore) Path() string {
	return fs.path
}

// Load returns the stored document, or an empty JSON array when nothing was saved yet
func (fs *FileConfigStore) Load() ([]byte, error) {
	fs.mux.RLock()
	defer fs.mux.RUnlock()

	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return []byte(models.EmptyConfigDocument), nil
	}
	if err != nil {
		g.Log.Error("failed to read configuration file", fs.path, err)
		return nil, err
	}
	return data, nil
}

func (fs *FileConfigStore) Save(doc []byte) error {
	fs.mux.Lock()
	defer fs.mux.Unlock()

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		g.Log.Error("failed to create configuration directory", dir, err)
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fs.path)+".*.tmp")
	if err != nil {
		g.Log.Error("failed to create temporary configuration file", err)
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		g.Log.Error("failed to write configuration", err)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		g.Log.Error("failed to replace configuration file", fs.path, err)
		return err
	}
	return nil
}
