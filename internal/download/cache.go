package download

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"launchpad/internal/logging"
)

// Metadata describes one cached archive.
type Metadata struct {
	Domain       string    `json:"domain"`
	Version      string    `json:"version"`
	Format       string    `json:"format"`
	DownloadedAt time.Time `json:"downloadedAt"`
	LastAccessed time.Time `json:"lastAccessed"`
	Size         int64     `json:"size"`
	Checksum     string    `json:"checksum,omitempty"`
}

func key(domain, version string) string { return fmt.Sprintf("%s-%s", domain, version) }

// Cache is the binary cache, persisted as a single JSON metadata document
// alongside the cached archive files.
type Cache struct {
	mu          sync.Mutex
	dir         string // {cache}/binaries/packages
	metaPath    string
	MaxAgeDays  int
	MaxSizeGB   float64
}

// NewCache opens the cache rooted at binariesDir with metadata at metaPath.
func NewCache(binariesDir, metaPath string) *Cache {
	return &Cache{dir: binariesDir, metaPath: metaPath, MaxAgeDays: 30, MaxSizeGB: 5}
}

func (c *Cache) packagePath(domain, version, format string) string {
	return filepath.Join(c.dir, key(domain, version), "package."+format)
}

func (c *Cache) load() map[string]Metadata {
	data, err := os.ReadFile(c.metaPath)
	if err != nil {
		return map[string]Metadata{}
	}
	var m map[string]Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]Metadata{}
	}
	return m
}

func (c *Cache) save(m map[string]Metadata) error {
	if err := os.MkdirAll(filepath.Dir(c.metaPath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := c.metaPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.metaPath)
}

// Get returns the cached archive path for {domain, version, format}, or
// ok=false on a miss. A size mismatch against recorded metadata purges both
// the file and the metadata entry in the same operation (self-healing).
func (c *Cache) Get(domain, version, format string) (path string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.packagePath(domain, version, format)
	stat, err := os.Stat(p)
	if err != nil {
		return "", false
	}

	m := c.load()
	k := key(domain, version)
	entry, hasMeta := m[k]

	if !hasMeta {
		// Legacy entry without metadata: accept if larger than 100 bytes.
		if stat.Size() > 100 {
			return p, true
		}
		return "", false
	}

	if entry.Size != stat.Size() {
		os.Remove(p)
		delete(m, k)
		_ = c.save(m)
		logging.Warn("download", "purged corrupt cache entry %s (size mismatch)", k)
		return "", false
	}

	entry.LastAccessed = time.Now()
	m[k] = entry
	_ = c.save(m)
	return p, true
}

// Save writes src's content to the cache at {domain, version, format} and
// records metadata. The recorded Size is len(src), which Get later checks
// against the file's length on disk (the cache round-trip invariant).
func (c *Cache) Save(domain, version, format string, src []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.packagePath(domain, version, format)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(p, src, 0o644); err != nil {
		return "", err
	}

	now := time.Now()
	m := c.load()
	m[key(domain, version)] = Metadata{
		Domain: domain, Version: version, Format: format,
		DownloadedAt: now, LastAccessed: now, Size: int64(len(src)),
	}
	if err := c.save(m); err != nil {
		return "", err
	}
	return p, nil
}

// Evict purges entries older than MaxAgeDays, then entries by ascending
// LastAccessed while the on-disk total exceeds MaxSizeGB.
func (c *Cache) Evict() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.load()
	cutoff := time.Now().AddDate(0, 0, -c.MaxAgeDays)

	for k, entry := range m {
		if entry.LastAccessed.Before(cutoff) {
			c.removeEntry(m, k, entry)
		}
	}

	maxBytes := int64(c.MaxSizeGB * 1024 * 1024 * 1024)
	total := c.totalSize(m)
	if total <= maxBytes {
		return c.save(m)
	}

	type ranked struct {
		key   string
		entry Metadata
	}
	var ordered []ranked
	for k, e := range m {
		ordered = append(ordered, ranked{k, e})
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].entry.LastAccessed.Before(ordered[j].entry.LastAccessed)
	})

	for _, r := range ordered {
		if total <= maxBytes {
			break
		}
		total -= r.entry.Size
		c.removeEntry(m, r.key, r.entry)
	}

	return c.save(m)
}

func (c *Cache) removeEntry(m map[string]Metadata, k string, entry Metadata) {
	os.Remove(c.packagePath(entry.Domain, entry.Version, entry.Format))
	delete(m, k)
}

func (c *Cache) totalSize(m map[string]Metadata) int64 {
	var total int64
	for _, e := range m {
		total += e.Size
	}
	return total
}
