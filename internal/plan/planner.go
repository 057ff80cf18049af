package plan

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"tanko/internal/cover"
	"tanko/internal/scan"
	"tanko/internal/services"
)

// Build partitions the snapshot's parseable volumes into batches of at most
// batchSize and computes every move and cover action. Batch folders are
// created alongside the series folder, named "<series> <index>".
//
// Unparseable volumes become warnings, never silent drops. Two files
// normalizing to the same canonical name within a batch get a deterministic
// numeric disambiguator chosen by filename order.
func Build(snapshot *scan.Snapshot, source cover.Source, batchSize int) (*Plan, error) {
	if batchSize < 1 {
		return nil, services.Wrap(services.ErrInput, "plan", "validate", fmt.Sprintf("batch size %d is not positive", batchSize), nil)
	}
	if len(snapshot.Volumes) == 0 {
		return nil, services.Wrap(services.ErrInput, "plan", "validate", fmt.Sprintf("no volume archives found in %s", snapshot.SeriesDir), nil)
	}

	p := &Plan{
		ID:         uuid.NewString(),
		SeriesDir:  snapshot.SeriesDir,
		SeriesName: snapshot.SeriesName,
		BatchSize:  batchSize,
		Source:     source,
	}

	volumes := make([]scan.Volume, 0, len(snapshot.Volumes))
	for _, volume := range snapshot.Volumes {
		if !volume.Parsed {
			p.Warnings = append(p.Warnings, Warning{
				Kind:    WarnUnparsed,
				Message: fmt.Sprintf("%s has no volume marker and is excluded from batching", volume.Name),
			})
			continue
		}
		volumes = append(volumes, volume)
	}

	sort.SliceStable(volumes, func(i, j int) bool {
		if volumes[i].Canonical.Volume != volumes[j].Canonical.Volume {
			return volumes[i].Canonical.Volume < volumes[j].Canonical.Volume
		}
		return volumes[i].Name < volumes[j].Name
	})

	destParent := filepath.Dir(snapshot.SeriesDir)
	for start := 0; start < len(volumes); start += batchSize {
		end := min(start+batchSize, len(volumes))
		chunk := volumes[start:end]

		index := len(p.Batches) + 1
		name := fmt.Sprintf("%s %d", snapshot.SeriesName, index)
		batch := Batch{
			Index:       index,
			Name:        name,
			Dir:         filepath.Join(destParent, name),
			FirstVolume: chunk[0].Canonical.Volume,
			LastVolume:  chunk[len(chunk)-1].Canonical.Volume,
		}

		reserved := make(map[string]struct{}, len(chunk))
		for _, volume := range chunk {
			destName := uniqueName(volume.Canonical.String(), reserved)
			if destName != volume.Canonical.String() {
				p.Warnings = append(p.Warnings, Warning{
					Kind:    WarnCollision,
					Message: fmt.Sprintf("%s collides with another volume; renamed to %s", volume.Name, destName),
				})
			}
			batch.Moves = append(batch.Moves, Move{
				Source:   volume.Path,
				Dest:     filepath.Join(batch.Dir, destName),
				DestName: destName,
				Renamed:  destName != volume.Name,
			})
		}

		p.Batches = append(p.Batches, batch)
	}

	if source.Available() {
		for _, batch := range p.Batches {
			p.Covers = append(p.Covers, CoverAction{
				BatchIndex: batch.Index,
				Dir:        batch.Dir,
				Number:     batch.Index,
			})
		}
	} else {
		p.Warnings = append(p.Warnings, Warning{
			Kind:    WarnNoCover,
			Message: "no cover source resolved; cover files will not be written",
		})
	}

	return p, nil
}

// uniqueName reserves canonical and returns it, or appends the smallest
// numeric disambiguator (_2, _3, ...) before the extension when already taken.
func uniqueName(canonical string, reserved map[string]struct{}) string {
	if _, taken := reserved[canonical]; !taken {
		reserved[canonical] = struct{}{}
		return canonical
	}
	ext := filepath.Ext(canonical)
	stem := strings.TrimSuffix(canonical, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if _, taken := reserved[candidate]; !taken {
			reserved[candidate] = struct{}{}
			return candidate
		}
	}
}
