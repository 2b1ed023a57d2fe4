// Package tasks orchestrates library collection and bulk exports with
// real-time progress reporting.
//
// # Collection
//
// [Collector.Collect] performs one full library sync:
//   - Fetches profile, playlists with items, saved tracks, top items per
//     time range, and followed artists from the provider
//   - Stores everything as one snapshot through the vault's sync engine
//   - Optionally enriches stored tracks with audio features (batched) and
//     audio analysis (capped per run)
//
// A fetch or sync failure aborts the run; enrichment failures are logged
// per batch and skipped, so the stored snapshot survives a flaky features
// endpoint.
//
// # Bulk export
//
// [Exporter.BulkExport] writes stored playlists to disk in JSON, CSV,
// Markdown, or plain text using a bounded worker pool, then writes a
// manifest summarizing the run.
//
// # Progress reporting
//
// All operations emit [ProgressUpdate] values over a non-blocking channel.
// Updates use select with default so a slow consumer never stalls the
// operation.
package tasks
