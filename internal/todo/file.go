package todo

import (
	"os"
	"path/filepath"

	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

// File permission for task documents. The document lives inside the
// project working tree and is committed by the checkpoint step.
const filePerm = 0o644

// LoadFile reads and parses the task document at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is derived from the project record
	if err != nil {
		if os.IsNotExist(err) {
			return nil, stagehanderrors.Wrapf(stagehanderrors.ErrNotFound, "task document %s", path)
		}
		return nil, stagehanderrors.Wrapf(err, "failed to read task document %s", path)
	}
	return Parse(string(data))
}

// SaveFile atomically writes the serialized document to path.
// The write goes to a temp file in the same directory followed by a
// rename, so a crash mid-write never leaves a torn document.
func SaveFile(path string, doc *Document) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".todo-*.tmp")
	if err != nil {
		return stagehanderrors.Wrap(err, "failed to create temp task document")
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.WriteString(Serialize(doc)); err != nil {
		cleanup()
		return stagehanderrors.Wrap(err, "failed to write task document")
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return stagehanderrors.Wrap(err, "failed to close task document")
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		_ = os.Remove(tmpName)
		return stagehanderrors.Wrap(err, "failed to chmod task document")
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return stagehanderrors.Wrap(err, "failed to replace task document")
	}
	return nil
}
