package osr

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ReadFile decodes the replay stored at path.
func ReadFile(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// validateWritten checks the temporary file before it replaces the target.
var validateWritten = ValidateFileQuiet

// WriteFile encodes rep to path. The replay is written to a temporary file in
// the same directory, decoded again by the validator and renamed into place,
// so path is either left untouched or holds a complete, readable replay.
func WriteFile(path string, rep *Replay) (err error) {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create replay: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err = Encode(f, rep); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("sync replay: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close replay: %w", err)
	}
	if err = validateWritten(tmp); err != nil {
		return fmt.Errorf("validate replay: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename replay: %w", err)
	}
	return nil
}
