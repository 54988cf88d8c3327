// Package crawler implements the crawl engine: fetching pages, extracting
// their content, and driving a bounded breadth-first traversal of one site.
//
// # Architecture
//
// The package is built around the Spider type, which owns no state between
// crawls. Each call to Spider.Crawl validates the seed URL, resolves limits
// from the user's instructions, and walks the site level by level.
//
// # Components
//
//   - Spider: the orchestrator (frontier, visited set, page budget, results)
//   - Frontier: FIFO queue of (url, depth) entries awaiting a visit
//   - HTTPFetcher: GET with timeout, body cap, decompression and charset decoding
//   - Parser: title, description, anchors, optional images and headings
//   - TextExtractor: boilerplate removal producing the readable page text
//
// # Concurrency
//
// Fetches within one depth level run in parallel up to the configured
// concurrency. A single dispatcher goroutine performs the visited check and
// spends the page budget before each fetch starts, and results are folded
// back in dispatch order, so the output is the same for any concurrency.
//
// # Failure handling
//
// Only an invalid seed URL fails a crawl. Fetch, parse and extraction
// problems are logged and degrade into a smaller result.
//
// # Usage
//
//	spider := crawler.NewSpider(crawler.WithMaxDepth(2), crawler.WithConcurrency(4))
//	result, err := spider.Crawl(ctx, "https://example.com", "depth: 3, headings")
package crawler
