// Package domain provides the canonical type definitions for the Bintray entities the
// resources operate on.
//
// The remote store is a four-level hierarchy: a repository holds packages, a package
// holds versions and a version holds content files. Each level has a matching entity
// here, carrying the JSON tags used by the Bintray REST API.
//
// # Design Principles
//
//   - Standard library only
//   - Pure data structures (no business logic, no I/O)
//   - Type-safe enumerations for repository types and package maturity
//   - Flat structure with no sub-packages
//
// # Coordinates
//
// Entities are addressed by coordinates rather than by URL. A Coordinates value names
// the subject (owner), repository, package and version; the REST client turns it into
// request paths:
//
//	coords := domain.Coordinates{
//	    Subject:    "rabbitmq",
//	    Repository: "generic-unix",
//	    Package:    "rabbitmq-server",
//	    Version:    "3.7.0",
//	}
//
// Timestamps are kept as the ISO-8601 strings returned by the API because they are
// echoed back to the pipeline unchanged.
package domain
