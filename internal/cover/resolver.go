package cover

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tanko/internal/archive"
	"tanko/internal/config"
	"tanko/internal/logging"
	"tanko/internal/scan"
)

// RemoteFetcher is the remote half of the resolution chain.
type RemoteFetcher interface {
	Fetch(ctx context.Context, title string) Source
}

// Resolver walks the cover preference chain for a scanned series folder.
type Resolver struct {
	cfg       *config.Config
	inspector *archive.Inspector
	fetcher   RemoteFetcher
	logger    *slog.Logger
}

// NewResolver builds a resolver. fetcher may be nil to disable remote lookups.
func NewResolver(cfg *config.Config, inspector *archive.Inspector, fetcher RemoteFetcher, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		cfg:       cfg,
		inspector: inspector,
		fetcher:   fetcher,
		logger:    logging.NewComponentLogger(logger, "cover"),
	}
}

// Resolve returns the best available cover source for the snapshot. Every
// rung of the chain degrades to the next on failure; an exhausted chain
// returns the absent source rather than an error.
func (r *Resolver) Resolve(ctx context.Context, snapshot *scan.Snapshot) Source {
	if source := r.fromArchive(snapshot); source.Available() {
		return source
	}
	if source := r.fromLocal(snapshot); source.Available() {
		return source
	}
	if r.fetcher != nil {
		if source := r.fetcher.Fetch(ctx, snapshot.DisplayTitle()); source.Available() {
			return source
		}
	}
	return None()
}

// fromArchive extracts the first page image of the lowest-numbered volume.
// Only that one volume is tried: an unsupported container or an image-less
// archive sends resolution to the local rung, never to a later volume.
func (r *Resolver) fromArchive(snapshot *scan.Snapshot) Source {
	volumes := orderForExtraction(snapshot.Volumes)
	if len(volumes) == 0 {
		return None()
	}
	first := volumes[0]
	if !archive.Extractable(first.Path) {
		r.logger.Debug("first volume is not extractable",
			logging.String("volume", first.Name))
		return None()
	}
	data, entry, err := r.inspector.FirstImage(first.Path)
	if err != nil {
		r.logger.Warn("archive cover extraction failed",
			logging.String("volume", first.Name),
			logging.Error(err))
		return None()
	}
	return Source{
		Kind:   KindArchive,
		Origin: first.Name + ":" + entry,
		Data:   data,
	}
}

// fromLocal checks the configured candidate filenames first, then falls back
// to the first loose image in the folder.
func (r *Resolver) fromLocal(snapshot *scan.Snapshot) Source {
	byLower := make(map[string]string, len(snapshot.Images))
	for _, name := range snapshot.Images {
		byLower[strings.ToLower(name)] = name
	}

	var pick string
	for _, candidate := range r.cfg.Covers.LocalCandidates {
		if name, ok := byLower[strings.ToLower(candidate)]; ok {
			pick = name
			break
		}
	}
	if pick == "" && len(snapshot.Images) > 0 {
		pick = snapshot.Images[0]
	}
	if pick == "" {
		return None()
	}

	path := filepath.Join(snapshot.SeriesDir, pick)
	data, err := os.ReadFile(path)
	if err != nil {
		r.logger.Warn("local cover unreadable",
			logging.String("path", path),
			logging.Error(err))
		return None()
	}
	return Source{Kind: KindLocal, Origin: pick, Data: data}
}

// orderForExtraction prefers the lowest parsed volume number, ties broken by
// filename; unparsed volumes keep their natural position at the end.
func orderForExtraction(volumes []scan.Volume) []scan.Volume {
	parsed := make([]scan.Volume, 0, len(volumes))
	unparsed := make([]scan.Volume, 0)
	for _, volume := range volumes {
		if volume.Parsed {
			parsed = append(parsed, volume)
		} else {
			unparsed = append(unparsed, volume)
		}
	}
	sort.SliceStable(parsed, func(i, j int) bool {
		if parsed[i].Canonical.Volume != parsed[j].Canonical.Volume {
			return parsed[i].Canonical.Volume < parsed[j].Canonical.Volume
		}
		return parsed[i].Name < parsed[j].Name
	})
	return append(parsed, unparsed...)
}
