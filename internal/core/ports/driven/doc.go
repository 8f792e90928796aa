// Package driven lists what the neardup core needs from the outside world.
//
// DedupService cannot run without a Hasher and a CandidateIndex, and the
// settings service needs a ConfigStore. The rest are optional:
//
//   - DocumentSource feeds batches from files, manifests or SQLite; callers
//     may hand documents to the service directly instead.
//   - ReportStore keeps reports after a batch. Without one, reports are
//     only returned to the caller.
//   - NormaliserRegistry turns formatted files into plain text before they
//     are loaded.
//
// Interfaces here may reference domain types and nothing else from
// internal/.
package driven
