// Package model defines the data structures produced by a crawl.
//
// This package contains the following main types:
//   - CrawlRequest: the resolved limits and toggles of one crawl
//   - PageRecord: data extracted from one successfully fetched page
//   - LinkRecord: one same-host link discovered while crawling
//   - Result: the aggregate handed to persistence, export and presentation
//
// Design decision: We keep the models in their own package so that the
// crawler, database and report packages can share them without import
// cycles. Every type is serialized with encoding/json; the JSON field names
// are the interchange format stored in crawl history and written by the
// JSON exporter, so they must stay stable.
package model
