package cache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestCache_LoadSkipsEmptyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.txt")
	content := "https://a.example.com/1\nhttps://a.example.com/2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(path)
	if err := c.Load(); err != nil {
		t.Fatalf("Unexpected load error: %v", err)
	}
	defer c.Close()

	if c.Len() != 2 {
		t.Errorf("Expected 2 URLs, got %d", c.Len())
	}
	if !c.Contains("https://a.example.com/1") {
		t.Error("Expected URL 1 to be present")
	}
	if c.Contains("") {
		t.Error("Trailing empty line must not be stored")
	}
}

func TestCache_LoadCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.txt")

	c := New(path)
	if err := c.Load(); err != nil {
		t.Fatalf("Unexpected load error: %v", err)
	}
	defer c.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected cache file to exist: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Expected empty cache, got %d entries", c.Len())
	}
}

func TestCache_AddPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.txt")

	c := New(path)
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	if err := c.Add("https://a.example.com/story"); err != nil {
		t.Fatalf("Unexpected add error: %v", err)
	}
	c.Close()

	// A fresh cache built from the same file sees the URL.
	reloaded := New(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	defer reloaded.Close()

	if !reloaded.Contains("https://a.example.com/story") {
		t.Error("Expected added URL to survive a reload")
	}
}

func TestCache_CheckAndAdd(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache.txt"))
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	dup, err := c.CheckAndAdd("https://a.example.com/story")
	if err != nil {
		t.Fatal(err)
	}
	if dup {
		t.Error("First CheckAndAdd must report unseen")
	}

	dup, err = c.CheckAndAdd("https://a.example.com/story")
	if err != nil {
		t.Fatal(err)
	}
	if !dup {
		t.Error("Second CheckAndAdd must report seen")
	}
}

func TestCache_CheckAndAdd_Concurrent(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache.txt"))
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	const workers = 16
	var wg sync.WaitGroup
	unseen := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dup, err := c.CheckAndAdd("https://a.example.com/raced")
			if err != nil {
				t.Error(err)
				return
			}
			if !dup {
				unseen <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(unseen)

	if got := len(unseen); got != 1 {
		t.Errorf("Expected exactly one winner, got %d", got)
	}
}
