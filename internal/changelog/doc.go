// Package changelog turns commit history into a dated release-notes section.
//
// This package implements:
//   - Bullet normalization of raw commit subjects
//   - Section building: dedup, pre-rewrite cap, optional rewrite, display cap
//   - Markdown rendering of a single section
//   - Extraction of one version's section from an existing CHANGELOG.md
//   - Idempotent insertion of a rendered section into CHANGELOG.md
//
// Nothing in this package touches the filesystem or the network directly; the
// history reader and the rewrite stage are injected as interfaces.
package changelog
