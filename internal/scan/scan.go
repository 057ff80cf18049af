// Package scan takes the one-shot filesystem snapshot a plan is built from.
//
// A snapshot lists the series folder's volume archives in natural order,
// separates loose image files (local cover candidates), and derives the
// display title used for remote lookups. Planning never re-reads the disk;
// re-planning requires a fresh snapshot.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tanko/internal/archive"
	"tanko/internal/config"
	"tanko/internal/naming"
	"tanko/internal/services"
	"tanko/internal/textutil"
)

// Volume is one discovered volume archive.
type Volume struct {
	Path      string // absolute path
	Name      string // base filename
	Canonical naming.Canonical
	Parsed    bool // false when no volume marker was found
}

// Snapshot is an immutable view of the series folder at scan time.
type Snapshot struct {
	SeriesDir  string
	SeriesName string   // folder base name, used verbatim in batch folder names
	Volumes    []Volume // natural order by filename
	Images     []string // loose image files, natural order
}

// Scan reads the series directory once. A missing or non-directory path is
// an input error; an empty directory is legal and yields an empty snapshot.
func Scan(dir string, cfg *config.Config) (*Snapshot, error) {
	abs, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return nil, fmt.Errorf("resolve series path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrInput, "scan", "stat", fmt.Sprintf("series path %s does not exist", abs), nil)
		}
		return nil, services.Wrap(services.ErrInput, "scan", "stat", abs, err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrInput, "scan", "stat", fmt.Sprintf("series path %s is not a directory", abs), nil)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "scan", "read directory", abs, err)
	}

	snapshot := &Snapshot{
		SeriesDir:  abs,
		SeriesName: filepath.Base(abs),
	}

	for _, entry := range entries {
		if entry.IsDir() || archive.IsJunk(entry.Name()) {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		switch {
		case cfg.VolumeExtension(ext):
			canonical, parsed := naming.Normalize(name)
			snapshot.Volumes = append(snapshot.Volumes, Volume{
				Path:      filepath.Join(abs, name),
				Name:      name,
				Canonical: canonical,
				Parsed:    parsed,
			})
		case cfg.ImageExtension(ext):
			snapshot.Images = append(snapshot.Images, name)
		}
	}

	sort.SliceStable(snapshot.Volumes, func(i, j int) bool {
		return textutil.NaturalLess(snapshot.Volumes[i].Name, snapshot.Volumes[j].Name)
	})
	textutil.SortNatural(snapshot.Images)

	return snapshot, nil
}

// DisplayTitle derives the series title sent to remote providers. Separator
// characters collapse to spaces; an all-lowercase folder name is title-cased
// so search queries look like published titles.
func (s *Snapshot) DisplayTitle() string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range s.SeriesName {
		switch {
		case r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		default:
			cleaned.WriteRune(r)
			prevSpace = unicode.IsSpace(r)
		}
	}
	title := textutil.CollapseSpaces(cleaned.String())
	if title == "" {
		return s.SeriesName
	}
	if title == strings.ToLower(title) {
		title = cases.Title(language.Und).String(title)
	}
	return title
}
