package config

// SiteConfig holds per-site crawl settings.
type SiteConfig struct {
	// Headers are custom HTTP headers sent with every request to the site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Depth overrides the default crawl depth when set. An explicit 0
	// crawls the seed page only.
	Depth *int `yaml:"depth,omitempty"`

	// Pages overrides the default page budget. Zero keeps the default.
	Pages int `yaml:"pages,omitempty"`

	// Instructions is used when no instruction string is given on the
	// command line.
	Instructions string `yaml:"instructions,omitempty"`
}

// File represents the structure of the .sitecrawl configuration file.
type File struct {
	// Sites maps hosts (e.g. "example.com" or "localhost:8080") to their
	// configuration.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults applies to every site unless overridden per site.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for host, merging the
// site-specific entry over the defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	if cf == nil {
		return SiteConfig{}
	}

	result := cf.Defaults
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Depth != nil {
			result.Depth = siteConfig.Depth
		}
		if siteConfig.Pages != 0 {
			result.Pages = siteConfig.Pages
		}
		if siteConfig.Instructions != "" {
			result.Instructions = siteConfig.Instructions
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
	}

	return result
}
