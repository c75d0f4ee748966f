package eventlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Load errors. They are always wrapped in a *LoadError.
var (
	ErrInvalidJSON      = errors.New("invalid JSON document")
	ErrMissingSession   = errors.New(`missing top-level key "session"`)
	ErrMissingSnapshots = errors.New(`missing top-level key "snapshots"`)
	ErrSnapshotsNotList = errors.New(`top-level key "snapshots" is not an array`)
)

// LoadError reports a session document that cannot be used at all.
type LoadError struct {
	Path string
	Key  string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return "loading session: " + e.Err.Error()
	}
	return fmt.Sprintf("loading session %s: %s", e.Path, e.Err.Error())
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadFile reads and parses one session file.
func LoadFile(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	log, err := Parse(f)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}

	log.Source = path
	return log, nil
}

// Parse decodes a session document. Only a broken document or a missing
// top-level key is an error; individual snapshots never are.
func Parse(r io.Reader) (*Log, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Err: err}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("%w: %w", ErrInvalidJSON, err)}
	}
	if doc == nil {
		return nil, &LoadError{Err: fmt.Errorf("%w: document is not an object", ErrInvalidJSON)}
	}

	sessionRaw, ok := doc["session"]
	if !ok {
		return nil, &LoadError{Key: "session", Err: ErrMissingSession}
	}

	snapshotsRaw, ok := doc["snapshots"]
	if !ok {
		return nil, &LoadError{Key: "snapshots", Err: ErrMissingSnapshots}
	}

	var snapshots []json.RawMessage
	if err := json.Unmarshal(snapshotsRaw, &snapshots); err != nil {
		return nil, &LoadError{Key: "snapshots", Err: ErrSnapshotsNotList}
	}

	events := make([]Event, 0, len(snapshots))
	for _, raw := range snapshots {
		events = append(events, decodeEvent(raw))
	}

	return &Log{
		Session: decodeSession(sessionRaw),
		events:  events,
	}, nil
}

// DefaultPattern matches the files the simulator writes per session.
const DefaultPattern = "session-*.json"

// ScanSessionDir lists DefaultPattern files directly inside dir, sorted by
// name so that timestamped files come out in recording order.
func ScanSessionDir(dir string) ([]string, error) {
	return ScanDir(dir, DefaultPattern)
}

// ScanDir lists regular files directly inside dir whose name matches the
// filepath.Match pattern, sorted by name.
func ScanDir(dir, pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(pattern, name); !ok {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}

	sort.Strings(files)
	return files, nil
}

// ResolvePaths expands directories into their session files and keeps
// plain file arguments in order.
func ResolvePaths(args []string) ([]string, error) {
	return ResolvePathsMatching(args, DefaultPattern)
}

// ResolvePathsMatching is ResolvePaths with a custom directory pattern.
func ResolvePathsMatching(args []string, pattern string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, &LoadError{Path: arg, Err: err}
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		files, err := ScanDir(arg, pattern)
		if err != nil {
			return nil, &LoadError{Path: arg, Err: err}
		}
		paths = append(paths, files...)
	}
	return paths, nil
}
