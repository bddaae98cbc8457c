// Package pagecontent provides a reusable library for managing the typed,
// bilingual page and section content of a site: a schema registry of content
// shapes, a sanitizing validator, an ordered sibling-set manager, and a CRUD
// service that keeps order invariants while talking to a pluggable store.
//
// It exposes a single Service interface that orchestrates entity creation,
// updates, deletion, and reordering. Implementations of stores (memory,
// Postgres) are provided under subpackages, along with an HTTP API and
// server configuration helpers.
//
// Ordering
//
// Every entity holds a zero-based order among the siblings sharing its
// parent. The service guarantees that after any successful operation the
// orders of a sibling set are a gapless permutation of 0..n-1: creation
// appends, deletion compacts, and explicit reorders are applied as one
// atomic batch computed as a minimal diff against the current order.
//
// Content
//
// Content payloads are JSON objects whose shape is declared per section type
// in the Registry. Localized fields always carry both "en" and "ar" keys;
// fields the schema does not declare are stripped (and reported) before
// persistence, never silently stored.
package pagecontent
