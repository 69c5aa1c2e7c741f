package pkg

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// ManifestNames are the action manifests picked up from the project root when none is configured,
// in order of preference
var ManifestNames = []string{"bootstrap.star", "bootstrap.yml", "bootstrap.yaml"}

// RootMarkers are the files and directories that identify a project root
var RootMarkers = append([]string{".git", "bootstrap.toml"}, ManifestNames...)

// GetProjectRoot walks upwards from start until it finds a directory containing one of RootMarkers
func GetProjectRoot(start string) (string, error) {
	mypath, err := filepath.Abs(start)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to resolve %s", start)
	}

	for {
		for _, marker := range RootMarkers {
			_, err := os.Stat(filepath.Join(mypath, marker))
			if err == nil {
				return mypath, nil
			}

			if !eris.Is(err, os.ErrNotExist) {
				return "", eris.Wrap(err, "Error ocurred while searching for project root")
			}
		}

		nextPath := filepath.Dir(mypath)
		if mypath == nextPath {
			break
		}
		mypath = nextPath
	}

	return "", eris.Errorf("Project root not found (looked for %v above %s)", RootMarkers, start)
}

// FindManifest returns the path of the first of ManifestNames that exists in root or an empty
// string if there is none
func FindManifest(root string) (string, error) {
	for _, name := range ManifestNames {
		path := filepath.Join(root, name)
		info, err := os.Stat(path)
		if err == nil {
			if info.IsDir() {
				continue
			}
			return path, nil
		}

		if !eris.Is(err, os.ErrNotExist) {
			return "", eris.Wrapf(err, "Failed to check %s", path)
		}
	}

	return "", nil
}
