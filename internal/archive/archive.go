package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"tanko/internal/services"
	"tanko/internal/textutil"
)

// Reader is the opaque archive capability: list entries, read one entry.
type Reader interface {
	ListEntries(path string) ([]string, error)
	ReadEntry(path, name string) ([]byte, error)
}

// Extractable reports whether the archive at path uses a container format
// the Reader can open. Rar and 7z volumes (.cbr/.cb7) are counted during
// batching but their contents are off limits for cover extraction.
func Extractable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cbz", ".zip":
		return true
	default:
		return false
	}
}

// IsJunk reports whether an entry or file name is a hidden or OS metadata
// artifact that must never count as content.
func IsJunk(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "._")
}

func junkPath(entry string) bool {
	for _, part := range strings.Split(filepath.ToSlash(entry), "/") {
		if part == "__MACOSX" || IsJunk(part) {
			return true
		}
	}
	return false
}

// Inspector finds cover images inside volume archives.
type Inspector struct {
	reader  Reader
	isImage func(ext string) bool
}

// NewInspector builds an Inspector over the given capability. isImage decides
// whether a lowercase extension (with dot) is a supported raster format.
func NewInspector(reader Reader, isImage func(ext string) bool) *Inspector {
	return &Inspector{reader: reader, isImage: isImage}
}

// FirstImage returns the bytes and entry name of the natural-order first
// image in the archive. Unsupported containers, corrupt archives, and
// archives without images all report services.ErrArchiveRead so the cover
// chain can fall through.
func (i *Inspector) FirstImage(path string) ([]byte, string, error) {
	if !Extractable(path) {
		return nil, "", services.Wrap(services.ErrArchiveRead, "archive", "open",
			fmt.Sprintf("%s container is not extractable", strings.ToLower(filepath.Ext(path))), nil)
	}

	entries, err := i.reader.ListEntries(path)
	if err != nil {
		return nil, "", services.Wrap(services.ErrArchiveRead, "archive", "list entries", filepath.Base(path), err)
	}

	images := entries[:0:0]
	for _, entry := range entries {
		if i.isImage(strings.ToLower(filepath.Ext(entry))) {
			images = append(images, entry)
		}
	}
	if len(images) == 0 {
		return nil, "", services.Wrap(services.ErrArchiveRead, "archive", "locate image",
			fmt.Sprintf("no image entries in %s", filepath.Base(path)), nil)
	}
	textutil.SortNatural(images)

	data, err := i.reader.ReadEntry(path, images[0])
	if err != nil {
		return nil, "", services.Wrap(services.ErrArchiveRead, "archive", "read entry", images[0], err)
	}
	return data, images[0], nil
}

// ZipReader reads zip-based containers (.cbz, .zip).
type ZipReader struct{}

var _ Reader = ZipReader{}

// ListEntries returns the archive's file entries with junk filtered out.
// Directory entries are skipped.
func (ZipReader) ListEntries(path string) ([]string, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", filepath.Base(path), err)
	}
	defer rc.Close()

	entries := make([]string, 0, len(rc.File))
	for _, file := range rc.File {
		if file.FileInfo().IsDir() || junkPath(file.Name) {
			continue
		}
		entries = append(entries, file.Name)
	}
	return entries, nil
}

// ReadEntry returns the full contents of one entry.
func (ZipReader) ReadEntry(path, name string) ([]byte, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", filepath.Base(path), err)
	}
	defer rc.Close()

	for _, file := range rc.File {
		if file.Name != name {
			continue
		}
		reader, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry %s: %w", name, err)
		}
		defer reader.Close()
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("entry %s not found in %s", name, filepath.Base(path))
}
