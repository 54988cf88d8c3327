// Package config provides the configuration of a sitecrawl run: crawl
// limits, output format, history storage, the optional .sitecrawl YAML
// file with per-site settings, and environment loading.
package config
