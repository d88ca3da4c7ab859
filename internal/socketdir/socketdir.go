// Package socketdir locates and names the Unix-domain sockets zmux servers
// listen on, and serializes the startup race between two processes that
// might try to claim the same server instance name concurrently.
package socketdir

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"zmux/internal/config"
)

// maxSocketPathLen is the conservative limit for Unix domain socket paths.
// macOS has sizeof(sockaddr_un.sun_path) = 104; 100 leaves room for the
// socket filename itself.
const maxSocketPathLen = 100

// Entry represents one parsed socket file in the socket directory.
type Entry struct {
	Name string // server instance name, e.g. "default", "work"
	Path string // full path to the .sock file
}

// Format returns the socket filename for a given server instance name.
func Format(name string) string {
	return "zmux." + name + ".sock"
}

// Parse extracts the instance name from a socket filename like
// "zmux.default.sock". Returns false if the filename doesn't match.
func Parse(filename string) (Entry, bool) {
	if !strings.HasPrefix(filename, "zmux.") || !strings.HasSuffix(filename, ".sock") {
		return Entry{}, false
	}
	name := strings.TrimSuffix(strings.TrimPrefix(filename, "zmux."), ".sock")
	if name == "" {
		return Entry{}, false
	}
	return Entry{Name: name}, true
}

var (
	socketDir     string
	socketDirOnce sync.Once
)

// Dir returns the socket directory, derived from the resolved zmux root.
// If the resulting path would be too long for Unix domain sockets, a
// symlink from a short path under os.TempDir() is created and returned
// instead.
func Dir() string {
	socketDirOnce.Do(func() {
		socketDir = ResolveSocketDir(config.Dir())
	})
	return socketDir
}

// ResetDirCache resets the cached Dir() result. For testing only.
func ResetDirCache() {
	socketDirOnce = sync.Once{}
	socketDir = ""
}

// ResolveSocketDir returns the socket directory for a given zmux root dir,
// falling back to a short symlink under os.TempDir() when the real path
// would exceed the Unix socket path limit.
func ResolveSocketDir(zmuxDir string) string {
	realDir := filepath.Join(zmuxDir, "sockets")

	testPath := filepath.Join(realDir, Format("a-reasonably-long-instance-name"))
	if len(testPath) <= maxSocketPathLen {
		return realDir
	}

	hash := sha256.Sum256([]byte(realDir))
	shortDir := filepath.Join(os.TempDir(), fmt.Sprintf("zmux-%x", hash[:8]))

	if target, err := os.Readlink(shortDir); err == nil && target == realDir {
		return shortDir
	}

	os.MkdirAll(realDir, 0o755)
	os.Remove(shortDir)
	if err := os.Symlink(realDir, shortDir); err != nil {
		return realDir
	}
	return shortDir
}

// Path returns the full socket path for a given server instance name.
func Path(name string) string {
	return filepath.Join(Dir(), Format(name))
}

// Find globs for a socket matching name in the default socket directory.
func Find(name string) (string, error) {
	return FindIn(Dir(), name)
}

// FindIn globs for a socket matching name in the given directory.
func FindIn(dir, name string) (string, error) {
	pattern := filepath.Join(dir, Format(name))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no socket found for %q", name)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous name %q: %d sockets match", name, len(matches))
	}
}

// List returns all parsed socket entries from the default directory.
func List() ([]Entry, error) {
	return ListIn(Dir())
}

// ListIn returns all parsed socket entries from the given directory.
func ListIn(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []Entry
	for _, de := range dirEntries {
		entry, ok := Parse(de.Name())
		if !ok {
			continue
		}
		entry.Path = filepath.Join(dir, de.Name())
		entries = append(entries, entry)
	}
	return entries, nil
}

// StartupLock serializes the race between two processes both trying to
// become the server for the same instance name.
type StartupLock struct {
	fl *flock.Flock
}

// Acquire takes an exclusive, non-blocking lock for the given server
// instance name. Callers must call Release once they have either bound the
// socket or given up.
func Acquire(name string) (*StartupLock, error) {
	if err := os.MkdirAll(Dir(), 0o700); err != nil {
		return nil, fmt.Errorf("create socket dir: %w", err)
	}
	lockPath := filepath.Join(Dir(), "."+name+".startup.lock")
	fl := flock.New(lockPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", lockPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("another process is starting server %q", name)
	}
	return &StartupLock{fl: fl}, nil
}

// Release drops the startup lock.
func (l *StartupLock) Release() error {
	return l.fl.Unlock()
}
