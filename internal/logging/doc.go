// Package logging constructs the slog loggers used across tanko.
//
// It provides console and JSON handlers, typed attribute helpers so call
// sites never import log/slog directly, and component loggers that tag every
// record with the originating subsystem. The console handler prints a
// compact "timestamp LEVEL component: message key=value" line suited to an
// interactive CLI; the JSON handler emits stable lowercase keys for log
// collection.
package logging
