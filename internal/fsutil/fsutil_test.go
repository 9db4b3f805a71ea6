package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsFrameFile(t *testing.T) {
	cases := map[string]bool{
		"frame_0001.png":  true,
		"shot.JPG":        true,
		"scan.tiff":       true,
		"notes.txt":       false,
		"archive.tar.gz":  false,
		"frame.png.part":  false,
		"panorama.webp":   true,
		"screenshot.jpeg": true,
	}
	for name, want := range cases {
		if got := IsFrameFile(name); got != want {
			t.Fatalf("%s: got %v want %v", name, got, want)
		}
	}
}

func TestListFramesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.png", "c.txt", "nested"} {
		if name == "nested" {
			if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	frames, err := ListFrames(dir)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %v", frames)
	}
	if filepath.Base(frames[0]) != "a.png" || filepath.Base(frames[1]) != "b.png" {
		t.Fatalf("frames not sorted: %v", frames)
	}
}
