package apply

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"tanko/internal/cover"
	"tanko/internal/fileutil"
	"tanko/internal/logging"
	"tanko/internal/plan"
	"tanko/internal/render"
	"tanko/internal/services"
)

// Summary reports what an apply run changed on disk.
type Summary struct {
	BatchDirs     int
	MovedVolumes  int
	CoversWritten int
	ArchivedOld   int
	SeriesCover   bool // cover.jpg was materialized in the series folder
	DryRun        bool
}

// Executor applies a plan to the filesystem.
type Executor struct {
	renderer *render.Renderer
	logger   *slog.Logger
	dryRun   bool
}

// New builds an executor. renderer may be nil only when the plan carries no
// cover actions.
func New(renderer *render.Renderer, logger *slog.Logger, dryRun bool) *Executor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Executor{
		renderer: renderer,
		logger:   logging.NewComponentLogger(logger, "apply"),
		dryRun:   dryRun,
	}
}

// Execute performs the plan's moves and cover writes in order: batch folders
// first, then volume moves, then per-folder cover generation. Volume data is
// only ever moved, never deleted; a foreign file at any destination aborts
// the run before it is touched.
func (e *Executor) Execute(ctx context.Context, p *plan.Plan) (Summary, error) {
	summary := Summary{DryRun: e.dryRun}
	if p == nil {
		return summary, services.Wrap(services.ErrInput, "apply", "execute", "plan must not be nil", nil)
	}
	if len(p.Covers) > 0 && e.renderer == nil && !e.dryRun {
		return summary, services.Wrap(services.ErrInput, "apply", "execute", "plan has cover actions but no renderer", nil)
	}

	if err := e.checkConflicts(p); err != nil {
		return summary, err
	}
	if e.dryRun {
		e.logger.Info("dry run, no changes made",
			logging.String(logging.FieldPlanID, p.ID),
			logging.Int("volumes", p.VolumeCount()),
			logging.Int("batches", len(p.Batches)))
		return summary, nil
	}

	lock := flock.New(filepath.Join(p.SeriesDir, ".tanko.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return summary, services.Wrap(services.ErrConflict, "apply", "lock", "acquire series lock", err)
	}
	if !ok {
		return summary, services.Wrap(services.ErrConflict, "apply", "lock", "another run is organizing this series", nil)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	for _, batch := range p.Batches {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := os.MkdirAll(batch.Dir, 0o755); err != nil {
			return summary, services.Wrap(services.ErrInput, "apply", "create batch dir", batch.Dir, err)
		}
		summary.BatchDirs++

		for _, move := range batch.Moves {
			if err := e.moveVolume(move); err != nil {
				return summary, err
			}
			summary.MovedVolumes++
		}
		e.logger.Info("batch populated",
			logging.String(logging.FieldPlanID, p.ID),
			logging.String("batch", batch.Name),
			logging.Int("volumes", len(batch.Moves)))
	}

	for _, action := range p.Covers {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		archived, err := e.writeCovers(action, p.Source.Data)
		if err != nil {
			return summary, err
		}
		if archived {
			summary.ArchivedOld++
		}
		summary.CoversWritten++
	}

	if len(p.Covers) > 0 {
		wrote, err := e.writeSeriesCover(p)
		if err != nil {
			return summary, err
		}
		summary.SeriesCover = wrote
	}

	e.logger.Info("plan applied",
		logging.String(logging.FieldPlanID, p.ID),
		logging.Int("volumes", summary.MovedVolumes),
		logging.Int("batches", summary.BatchDirs),
		logging.Int("covers", summary.CoversWritten))
	return summary, nil
}

// checkConflicts verifies every destination is free before anything moves.
// Batch folders the plan itself creates are exempt; files inside them are not.
func (e *Executor) checkConflicts(p *plan.Plan) error {
	for _, batch := range p.Batches {
		if info, err := os.Stat(batch.Dir); err == nil && !info.IsDir() {
			return services.Wrap(services.ErrConflict, "apply", "check",
				fmt.Sprintf("batch target %s exists and is not a directory", batch.Dir), nil)
		}
		for _, move := range batch.Moves {
			if fileutil.Exists(move.Dest) {
				return services.Wrap(services.ErrConflict, "apply", "check",
					fmt.Sprintf("destination %s already exists", move.Dest), nil)
			}
		}
	}
	return nil
}

func (e *Executor) moveVolume(move plan.Move) error {
	if !fileutil.Exists(move.Source) {
		return services.Wrap(services.ErrConflict, "apply", "move",
			fmt.Sprintf("source %s disappeared since planning", move.Source), nil)
	}
	if fileutil.Exists(move.Dest) {
		return services.Wrap(services.ErrConflict, "apply", "move",
			fmt.Sprintf("destination %s already exists", move.Dest), nil)
	}
	if err := fileutil.MoveFile(move.Source, move.Dest); err != nil {
		return services.Wrap(services.ErrConflict, "apply", "move", move.Source, err)
	}
	return nil
}

// writeCovers materializes one batch folder's cover files. Any pre-existing
// cover.jpg is archived before cover.jpg is rewritten, so reruns never lose
// an earlier cover.
func (e *Executor) writeCovers(action plan.CoverAction, base []byte) (archived bool, err error) {
	coverPath := filepath.Join(action.Dir, "cover.jpg")
	oldPath := filepath.Join(action.Dir, "cover_old.jpg")

	if fileutil.Exists(coverPath) {
		target := nextCoverOldPath(action.Dir)
		if err := os.Rename(coverPath, target); err != nil {
			return false, services.Wrap(services.ErrConflict, "apply", "archive cover", coverPath, err)
		}
		archived = true
	}

	// cover_old.jpg holds the clean base image. An existing one is reused
	// so reruns keep rendering from the original, not from an overlay.
	if !fileutil.Exists(oldPath) {
		encoded, err := e.renderer.ReencodeJPEG(base)
		if err != nil {
			return archived, services.Wrap(services.ErrCoverUnavailable, "apply", "encode cover_old", oldPath, err)
		}
		if err := os.WriteFile(oldPath, encoded, 0o644); err != nil {
			return archived, services.Wrap(services.ErrInput, "apply", "write cover_old", oldPath, err)
		}
	}
	baseData, err := os.ReadFile(oldPath)
	if err != nil {
		return archived, services.Wrap(services.ErrInput, "apply", "read cover_old", oldPath, err)
	}

	rendered, err := e.renderer.NumberedCover(baseData, action.Number)
	if err != nil {
		return archived, services.Wrap(services.ErrCoverUnavailable, "apply", "render cover", oldPath, err)
	}
	if err := os.WriteFile(coverPath, rendered, 0o644); err != nil {
		return archived, services.Wrap(services.ErrInput, "apply", "write cover", coverPath, err)
	}
	return archived, nil
}

// writeSeriesCover materializes the resolved cover as cover.jpg in the
// series folder, so later runs resolve it locally instead of re-querying
// providers. A cover that already came from that file, or an existing
// cover.jpg, is left alone.
func (e *Executor) writeSeriesCover(p *plan.Plan) (bool, error) {
	if p.Source.Kind == cover.KindLocal && p.Source.Origin == "cover.jpg" {
		return false, nil
	}
	target := filepath.Join(p.SeriesDir, "cover.jpg")
	if fileutil.Exists(target) {
		return false, nil
	}
	encoded, err := e.renderer.ReencodeJPEG(p.Source.Data)
	if err != nil {
		return false, services.Wrap(services.ErrCoverUnavailable, "apply", "encode series cover", target, err)
	}
	if err := os.WriteFile(target, encoded, 0o644); err != nil {
		return false, services.Wrap(services.ErrInput, "apply", "write series cover", target, err)
	}
	return true, nil
}

// nextCoverOldPath returns cover_old.jpg if free, otherwise the smallest
// unused cover_old_<N>.jpg with N starting at 2.
func nextCoverOldPath(dir string) string {
	primary := filepath.Join(dir, "cover_old.jpg")
	if !fileutil.Exists(primary) {
		return primary
	}
	for n := 2; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("cover_old_%d.jpg", n))
		if !fileutil.Exists(candidate) {
			return candidate
		}
	}
}
