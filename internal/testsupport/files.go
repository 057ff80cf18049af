// Package testsupport provides shared fixtures for package tests: zip volume
// archives, tiny encoded images, and series folder layouts.
package testsupport

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// ZipEntry is one named member of a test archive.
type ZipEntry struct {
	Name string
	Data []byte
}

// WriteZip creates a zip archive at path with the given entries, in order.
func WriteZip(t testing.TB, path string, entries ...ZipEntry) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, entry := range entries {
		member, err := writer.Create(entry.Name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", entry.Name, err)
		}
		if _, err := member.Write(entry.Data); err != nil {
			t.Fatalf("write zip entry %s: %v", entry.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// JPEG returns an encoded solid-color JPEG of the given dimensions.
func JPEG(t testing.TB, width, height int) []byte {
	t.Helper()
	return encode(t, width, height, func(buf *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(buf, img, &jpeg.Options{Quality: 90})
	})
}

// PNG returns an encoded solid-color PNG of the given dimensions.
func PNG(t testing.TB, width, height int) []byte {
	t.Helper()
	return encode(t, width, height, func(buf *bytes.Buffer, img image.Image) error {
		return png.Encode(buf, img)
	})
}

func encode(t testing.TB, width, height int, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill := color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

// WriteVolume creates a .cbz volume archive containing page images in the
// series directory and returns its path.
func WriteVolume(t testing.TB, seriesDir, name string, pages ...string) string {
	t.Helper()

	entries := make([]ZipEntry, 0, len(pages))
	for _, page := range pages {
		entries = append(entries, ZipEntry{Name: page, Data: JPEG(t, 8, 12)})
	}
	path := filepath.Join(seriesDir, name)
	WriteZip(t, path, entries...)
	return path
}
