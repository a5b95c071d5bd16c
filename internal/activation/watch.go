package activation

import (
	"github.com/fsnotify/fsnotify"

	"launchpad/internal/logging"
)

// Watch invalidates cache entries as soon as their manifest file changes,
// instead of waiting for the next Get/Validate cycle. It runs until
// stopCh is closed; callers typically run it in its own goroutine.
func (c *Cache) Watch(stopCh <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	c.mu.Lock()
	c.ensureLoaded()
	for _, e := range c.entries {
		if e.DepFile != "" {
			watcher.Add(e.DepFile)
		}
	}
	c.mu.Unlock()

	for {
		select {
		case <-stopCh:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				c.invalidateByDepFile(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("activation", "watch error: %v", err)
		}
	}
}

func (c *Cache) invalidateByDepFile(depFile string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for dir, e := range c.entries {
		if e.DepFile == depFile {
			delete(c.entries, dir)
		}
	}
	c.schedulePersist()
}
