// Package pipeline runs crawl jobs through a sequence of steps.
//
// A Job carries one seed URL from crawling to persistence. Each stage is a
// Step that receives the job and fills in its part: CrawlStep runs the
// spider, SaveStep records the result in the history database.
//
// Design decision: We keep crawling and persistence as separate steps so
// the CLI can drop persistence (--no-save) without touching crawl code,
// and so a batch of seeds reuses the same per-seed flow.
//
// BatchProcessor runs several jobs concurrently with errgroup. A failing
// seed is recorded on its job and never aborts the rest of the batch.
package pipeline
