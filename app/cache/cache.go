// Package cache implements the durable seen-URL set that guarantees
// at-most-once emission of each article URL across runs.
package cache

import (
	"bufio"
	"fmt"
	"os"
	"sync"
)

// Cache is a persisted set of URL strings. Entries are appended to the
// backing file synchronously before Add returns and are never removed
// during a run.
type Cache struct {
	path string

	mu   sync.Mutex
	seen map[string]struct{}
	file *os.File
}

func New(path string) *Cache {
	return &Cache{
		path: path,
		seen: make(map[string]struct{}),
	}
}

// Load populates the set from the backing file, one URL per line,
// skipping empty lines (the file ends with a trailing newline). The file
// is created when absent and kept open for appends.
func (c *Cache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	file, err := os.OpenFile(c.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if url := scanner.Text(); url != "" {
			c.seen[url] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		file.Close()
		return fmt.Errorf("failed to read cache file: %w", err)
	}

	c.file = file
	return nil
}

// Close releases the backing file.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}

// Contains reports whether the URL has been seen.
func (c *Cache) Contains(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.seen[url]
	return ok
}

// Add marks the URL as seen, persisting it before returning.
func (c *Cache) Add(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.add(url)
}

// CheckAndAdd marks the URL as seen and reports whether it already was.
// Check and insert happen under a single critical section so that two
// workers racing on the same URL never both treat it as unseen.
func (c *Cache) CheckAndAdd(url string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[url]; ok {
		return true, nil
	}
	return false, c.add(url)
}

func (c *Cache) add(url string) error {
	if c.file != nil {
		if _, err := c.file.WriteString(url + "\n"); err != nil {
			return fmt.Errorf("failed to append to cache file: %w", err)
		}
	}
	c.seen[url] = struct{}{}
	return nil
}

// Len reports the number of seen URLs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.seen)
}

// Clear removes the backing file, discarding all persisted URLs. Used
// before Load when a run is started with a cleared cache; Load recreates
// the file empty.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache file: %w", err)
	}
	return nil
}
