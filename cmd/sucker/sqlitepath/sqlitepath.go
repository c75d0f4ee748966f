// Package sqlitepath locates the sucker export database.
package sqlitepath

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/papercomputeco/sucker/pkg/dotdir"
)

// DBName is the file name of the export database inside .sucker/.
const DBName = "sucker.db"

// ResolveSQLitePath finds an existing database to read from.
func ResolveSQLitePath(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if envPath := strings.TrimSpace(os.Getenv("SUCKER_SQLITE")); envPath != "" {
		return envPath, nil
	}
	if envPath := strings.TrimSpace(os.Getenv("SUCKER_DB")); envPath != "" {
		return envPath, nil
	}

	for _, candidate := range sqliteCandidates() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", errors.New("could not find sucker SQLite database; run sucker export or pass --sqlite")
}

// WritePath picks the database to export into. An explicit config dir
// always holds the database; otherwise an existing database is reused
// before falling back to sucker.db inside the resolved .sucker/ dir.
func WritePath(override, configDir string) (string, error) {
	if override != "" || configDir == "" {
		if path, err := ResolveSQLitePath(override); err == nil {
			return path, nil
		}
	}
	return dotdir.NewManager().File(configDir, DBName)
}

func sqliteCandidates() []string {
	candidates := []string{
		DBName,
		filepath.Join(".sucker", DBName),
	}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".sucker", DBName))
	}

	if xdgHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdgHome != "" {
		candidates = append(candidates, filepath.Join(xdgHome, "sucker", DBName))
	}

	return candidates
}
