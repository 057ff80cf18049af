package plan

import "tanko/internal/cover"

// WarningKind labels the degradations recorded on a plan.
type WarningKind string

const (
	// WarnUnparsed marks a volume archive whose filename has no volume marker.
	WarnUnparsed WarningKind = "unparsed_filename"
	// WarnNoCover marks an exhausted cover resolution chain.
	WarnNoCover WarningKind = "no_cover_source"
	// WarnCollision marks two files normalizing to the same canonical name.
	WarnCollision WarningKind = "name_collision"
)

// Warning is a non-fatal condition surfaced for user review before confirmation.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

// Move relocates one volume archive to its canonical name inside a batch folder.
type Move struct {
	Source   string `json:"source"`
	Dest     string `json:"dest"`
	DestName string `json:"dest_name"`
	Renamed  bool   `json:"renamed"` // destination basename differs from source basename
}

// Batch is a contiguous group of volumes assigned to one output folder.
type Batch struct {
	Index       int    `json:"index"` // 1-based
	Name        string `json:"name"`  // "<series> <index>"
	Dir         string `json:"dir"`   // absolute target folder
	Moves       []Move `json:"moves"` // ascending by volume number
	FirstVolume int    `json:"first_volume"`
	LastVolume  int    `json:"last_volume"`
}

// CoverAction writes the numbered cover files for one batch folder. At apply
// time any pre-existing cover.jpg is archived to the smallest unused
// cover_old_<N>.jpg (N >= 2) first, then cover_old.jpg receives the series
// base image and cover.jpg the rendered overlay.
type CoverAction struct {
	BatchIndex int    `json:"batch_index"`
	Dir        string `json:"dir"`
	Number     int    `json:"number"` // numeral rendered on the cover
}

// Plan is the complete, immutable description of one invocation's actions.
type Plan struct {
	ID         string        `json:"id"`
	SeriesDir  string        `json:"series_dir"`
	SeriesName string        `json:"series_name"`
	BatchSize  int           `json:"batch_size"`
	Batches    []Batch       `json:"batches"`
	Covers     []CoverAction `json:"covers"`
	Warnings   []Warning     `json:"warnings"`
	Source     cover.Source  `json:"cover_source"`
}

// VolumeCount returns the number of volumes the plan will move.
func (p *Plan) VolumeCount() int {
	total := 0
	for _, batch := range p.Batches {
		total += len(batch.Moves)
	}
	return total
}
