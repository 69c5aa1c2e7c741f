package bootstrap

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// PathFromRoot resolves path against the project root. Absolute paths are returned unchanged.
func (b *Bootstrapper) PathFromRoot(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(b.root, path)
}

// StampPath returns the absolute path of the action's stamp file
func (b *Bootstrapper) StampPath(action Action) string {
	return filepath.Join(b.stampDir, action.StampName())
}

// IsStale reports whether the action has to run. That's the case if its stamp is missing or
// older than its input. It fails with a MissingInputError if the input doesn't exist.
func (b *Bootstrapper) IsStale(action Action) (bool, error) {
	status, err := b.inspect(action)
	if err != nil {
		return false, err
	}

	return status.Stale, nil
}

func (b *Bootstrapper) inspect(action Action) (ActionStatus, error) {
	status := ActionStatus{
		Action:    action,
		InputPath: b.PathFromRoot(action.Input),
		StampPath: b.StampPath(action),
	}

	inputInfo, err := os.Stat(status.InputPath)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			return status, &MissingInputError{
				Action: action.Name,
				Path:   status.InputPath,
				Err:    err,
			}
		}
		return status, eris.Wrapf(err, "failed to check input %s", status.InputPath)
	}

	stampInfo, err := os.Stat(status.StampPath)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			status.Stale = true
			return status, nil
		}
		return status, eris.Wrapf(err, "failed to check stamp %s", status.StampPath)
	}

	status.StampTime = stampInfo.ModTime()
	status.Stale = status.StampTime.Before(inputInfo.ModTime())
	return status, nil
}

func (b *Bootstrapper) writeStamp(action Action) error {
	err := os.MkdirAll(b.stampDir, 0o755)
	if err != nil {
		return eris.Wrapf(err, "failed to create stamp directory %s", b.stampDir)
	}

	path := b.StampPath(action)
	err = os.WriteFile(path, []byte(StampMarker), 0o644)
	if err != nil {
		return eris.Wrapf(err, "failed to write stamp %s", path)
	}

	return nil
}
