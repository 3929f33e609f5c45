// Package collab declares the read-only collaborator interfaces the
// core consumes (spec.md §6). None of them are implemented here:
// parsing the source VCS, persisting intermediate artifacts, and
// emitting into the target VCS are all explicit non-goals (spec.md
// §1), left to callers that wire a concrete implementation in.
package collab

import "github.com/timofonic-git/cvs2git/cvsgraph"

// LogEntry is what MetadataStore hands back for one metadata id:
// author and log message, spec.md §6's "metadata_db[id] -> (author,
// log_message)".
type LogEntry struct {
	Author string
	Log    string
}

// MetadataStore resolves a revision's metadata id to its author and
// log message.
type MetadataStore interface {
	Get(metaID string) (LogEntry, bool)
}

// CVSFile is the per-file identity record spec.md §6's
// "cvs_file_db.get(id) -> {id, filename, basename, project}"
// describes.
type CVSFile struct {
	ID       string
	Filename string
	Basename string
	Project  string
}

// CVSFileStore resolves a file id to its identity record.
type CVSFileStore interface {
	Get(fileID string) (CVSFile, bool)
}

// PersistenceManager maps item ids to the target-VCS revision numbers
// they were eventually assigned, and answers the two queries the
// opening/closing recorder's finalization pass needs (spec.md §4.8,
// §6).
type PersistenceManager interface {
	SvnRevnum(itemID cvsgraph.NodeID) (uint32, bool)
	LastFilled(symbolName string) (uint32, bool)
	FirstFillAfter(symbolName string, after uint32) (uint32, bool)
}

// RevisionExcluder is notified by rewrite.FilterExcludedSymbols
// (spec.md §4.5) once it has decided whether a file's graph changed.
type RevisionExcluder interface {
	ProcessFile(items *cvsgraph.FileItems)
	SkipFile(file CVSFile)
}
