// Package apply executes a built plan against the filesystem.
//
// Execution order is fixed: batch folders are created, volumes move in plan
// order, then each batch folder gets its cover files and the resolved cover
// is materialized as cover.jpg in the series folder. Cover writes archive
// any existing cover.jpg to cover_old_<N>.jpg before overwriting, and
// cover_old.jpg always preserves the clean base image, so no run ever
// destroys user data. A file lock on the series folder keeps concurrent
// runs out.
package apply
