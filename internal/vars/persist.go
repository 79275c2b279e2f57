package vars

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pgwarp/internal/config"
	"pgwarp/internal/logging"
)

// variablesFileName is the on-disk store under the PgWarp config directory.
const variablesFileName = "saved_variables.json"

// schemaVersion of the variables file format.
const schemaVersion = 1

// variableRecord mirrors Variable for the wire format. Timestamps are
// omitted when zero so files from versions without them round-trip.
type variableRecord struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// knownVariableKeys are the per-variable fields this version understands.
// Anything else is dropped on rewrite, with a warning.
var knownVariableKeys = map[string]bool{
	"name":       true,
	"value":      true,
	"created_at": true,
	"updated_at": true,
}

// FileStore reads and writes saved_variables.json. It assumes a single
// writer (one application instance); readers in other processes observe
// either the old or the new file, never a partial one.
type FileStore struct {
	path string

	// extra holds unknown top-level keys from the loaded file so they
	// survive a rewrite by an older PgWarp reading a newer file.
	extra map[string]json.RawMessage
}

// DefaultPath resolves the platform location of the variables file:
// ${XDG_CONFIG_HOME:-$HOME/.config}/pgwarp/saved_variables.json on
// Unix-like hosts, %APPDATA%\PgWarp\saved_variables.json on Windows.
func DefaultPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, variablesFileName), nil
}

// NewFileStore creates a FileStore for the given path. An empty path picks
// the platform default.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return &FileStore{path: path, extra: make(map[string]json.RawMessage)}, nil
}

// Path returns the file this store reads and writes.
func (fs *FileStore) Path() string {
	return fs.path
}

// Load reads the variables file. A missing file yields an empty snapshot
// with no error. An unparseable file is quarantined (renamed with a
// corrupt- prefix) and also yields an empty snapshot, with one warning.
func (fs *FileStore) Load() ([]Variable, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read variables file: %w", err)
	}

	doc := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &doc); err != nil {
		fs.quarantine(err)
		return nil, nil
	}

	var rawVars []json.RawMessage
	if raw, ok := doc["variables"]; ok {
		if err := json.Unmarshal(raw, &rawVars); err != nil {
			fs.quarantine(err)
			return nil, nil
		}
	}

	snapshot := make([]Variable, 0, len(rawVars))
	for _, raw := range rawVars {
		var rec variableRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			fs.quarantine(err)
			return nil, nil
		}
		fs.warnUnknownKeys(raw, rec.Name)
		snapshot = append(snapshot, Variable{
			Name:      rec.Name,
			Value:     rec.Value,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		})
	}

	// Keep unknown top-level keys for the next Save.
	fs.extra = make(map[string]json.RawMessage)
	for key, raw := range doc {
		if key != "variables" && key != "schema_version" {
			fs.extra[key] = raw
		}
	}

	return snapshot, nil
}

// Save writes the snapshot atomically: temp file in the same directory,
// fsync, rename over the target. On failure the previous file is intact.
func (fs *FileStore) Save(snapshot []Variable) error {
	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	doc := make(map[string]interface{}, 2+len(fs.extra))
	records := make([]variableRecord, 0, len(snapshot))
	for _, v := range snapshot {
		records = append(records, variableRecord(v))
	}
	doc["variables"] = records
	doc["schema_version"] = schemaVersion
	for key, raw := range fs.extra {
		doc[key] = raw
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode variables: %w", err)
	}

	tmpPath := fs.path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, fs.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace variables file: %w", err)
	}
	return nil
}

// quarantine renames an unparseable variables file out of the way so the
// next save starts clean without destroying evidence.
func (fs *FileStore) quarantine(cause error) {
	quarantined := filepath.Join(
		filepath.Dir(fs.path),
		fmt.Sprintf("saved_variables.corrupt-%d.json", time.Now().Unix()),
	)
	if err := os.Rename(fs.path, quarantined); err != nil {
		logging.Get(logging.CategoryPersist).Warn(
			"%v (%v); quarantine rename also failed: %v", ErrPersistenceCorrupt, cause, err)
		return
	}
	logging.Get(logging.CategoryPersist).Warn(
		"%v (%v); moved to %s", ErrPersistenceCorrupt, cause, quarantined)
}

func (fs *FileStore) warnUnknownKeys(raw json.RawMessage, name string) {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return
	}
	for key := range fields {
		if !knownVariableKeys[key] {
			logging.Get(logging.CategoryPersist).Warn(
				"variable %q: dropping unknown field %q", name, key)
		}
	}
}
