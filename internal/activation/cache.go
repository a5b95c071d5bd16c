// Package activation implements the activation cache: an in-memory map
// backed by a debounced, atomically-persisted flat file, so the shell hook
// can skip manifest re-parsing on every prompt.
package activation

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"launchpad/internal/logging"
)

// Entry is one project's cached activation state.
type Entry struct {
	ProjectDir string
	DepFile    string
	DepMtime   time.Time
	EnvDir     string
}

// Cache is the activation cache. It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	path     string
	entries  map[string]Entry
	loaded   bool
	debounce time.Duration
	timer    *time.Timer
}

// New creates a Cache backed by path, lazily loaded on first access.
func New(path string) *Cache {
	return &Cache{path: path, debounce: 10 * time.Millisecond}
}

func (c *Cache) ensureLoaded() {
	if c.loaded {
		return
	}
	c.entries = load(c.path)
	c.loaded = true
}

// Get returns the cached entry for projectDir, if any.
func (c *Cache) Get(projectDir string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded()
	e, ok := c.entries[projectDir]
	return e, ok
}

// Set records projectDir's activation state and schedules a debounced
// persist.
func (c *Cache) Set(projectDir, depFile, envDir string) {
	c.mu.Lock()
	c.ensureLoaded()

	mtime := mtimeOf(depFile)
	c.entries[projectDir] = Entry{ProjectDir: projectDir, DepFile: depFile, DepMtime: mtime, EnvDir: envDir}
	c.schedulePersist()
	c.mu.Unlock()
}

// schedulePersist debounces persistence to c.debounce after the last Set,
// coalescing bursts of writes into one flush. Caller must hold c.mu.
func (c *Cache) schedulePersist() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if err := persist(c.path, c.entries); err != nil {
			logging.Warn("activation", "could not persist cache: %v", err)
		}
	})
}

// Validate drops entries whose envDir no longer exists or whose manifest
// mtime has changed, then persists once.
func (c *Cache) Validate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded()

	for dir, e := range c.entries {
		if _, err := os.Stat(e.EnvDir); err != nil {
			delete(c.entries, dir)
			continue
		}
		if mtimeOf(e.DepFile).Unix() != e.DepMtime.Unix() {
			delete(c.entries, dir)
		}
	}

	if err := persist(c.path, c.entries); err != nil {
		logging.Warn("activation", "could not persist cache after validate: %v", err)
	}
}

// Clear empties the cache and removes the backing file.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]Entry{}
	c.loaded = true
	os.Remove(c.path)
}

func mtimeOf(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// load reads the persisted cache, skipping corrupt lines silently.
func load(path string) map[string]Entry {
	entries := map[string]Entry{}
	f, err := os.Open(path)
	if err != nil {
		return entries
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "|")
		if len(fields) != 4 {
			continue
		}
		seconds, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			continue
		}
		entries[fields[0]] = Entry{
			ProjectDir: fields[0],
			DepFile:    fields[1],
			DepMtime:   time.Unix(seconds, 0),
			EnvDir:     fields[3],
		}
	}
	return entries
}

// persist writes entries to path via temp-file-plus-rename, one line per
// entry: {projectDir}|{depFile}|{depMtimeSeconds}|{envDir}.
func persist(path string, entries map[string]Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, e := range entries {
		fmt.Fprintf(w, "%s|%s|%d|%s\n", e.ProjectDir, e.DepFile, e.DepMtime.Unix(), e.EnvDir)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	f.Close()
	return os.Rename(tmp, path)
}
