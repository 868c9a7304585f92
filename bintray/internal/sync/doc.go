// Package sync contains the reconciliation-and-publish engine.
//
// A run goes through four phases, each in its own sub-package:
//   - scanner: discover local files and filter remote listings with glob patterns
//   - planner: compare the local set with the remote snapshot and plan uploads and deletions
//   - executor: perform uploads, then deletions, sequentially
//   - publish: publish the version and make files visible in the download list
//
// The sync sub-package orchestrates the phases.
package sync
