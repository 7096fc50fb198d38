package model

// CustomHTMLBlock is one custom-content region captured by the crawler on a
// source page. Location carries the CSS class string of the wrapping
// container, which is how Wild Apricot widgets are identified.
type CustomHTMLBlock struct {
	HTMLSnippet    string   `json:"htmlSnippet"`
	Location       string   `json:"location"`
	ContainsScript bool     `json:"containsScript"`
	ContainsIframe bool     `json:"containsIframe"`
	ContainsForm   bool     `json:"containsForm"`
	ExternalURLs   []string `json:"externalUrls,omitempty"`
}

// PageEmbed is an iframe embed discovered at page level, outside of the
// custom-content regions.
type PageEmbed struct {
	Src    string `json:"src"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
}

// PageImage is an image discovered at page level.
type PageImage struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// PageContent is the crawler's record for a single page. This is the input
// contract of the conversion pipeline; the crawler itself lives outside this
// module.
type PageContent struct {
	URL          string            `json:"url"`
	Title        string            `json:"title"`
	CustomBlocks []CustomHTMLBlock `json:"customBlocks,omitempty"`
	Embeds       []PageEmbed       `json:"embeds,omitempty"`
	Images       []PageImage       `json:"images,omitempty"`
}

// CrawlReport groups every crawled page of one source site.
type CrawlReport struct {
	SiteURL string        `json:"siteUrl"`
	Pages   []PageContent `json:"pages"`
}
