// Package pagescan turns one crawled raw HTML document into the
// PageContent input contract of the conversion pipeline. The crawler that
// fetches pages lives outside this module; pagescan is the adapter used
// when all you have is saved page HTML.
package pagescan

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"wamigrate/internal/model"
)

// Scan extracts the custom-content regions, page-level embeds, and images
// from a raw HTML document. pageURL is used to classify external links; an
// unparseable pageURL disables the same-host check but does not fail the
// scan.
func Scan(rawHTML, pageURL string) (model.PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return model.PageContent{}, err
	}

	page := model.PageContent{
		URL:   pageURL,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	var baseHost string
	if u, err := url.Parse(pageURL); err == nil {
		baseHost = strings.ToLower(u.Hostname())
	}

	doc.Find(`div[class*="WaGadget"]`).Each(func(_ int, s *goquery.Selection) {
		// Only top-level gadgets become units; nested gadget markup stays
		// inside its parent's snippet.
		if s.ParentsFiltered(`div[class*="WaGadget"]`).Length() > 0 {
			return
		}

		classes, _ := s.Attr("class")
		inner, err := s.Html()
		if err != nil {
			return
		}

		blk := model.CustomHTMLBlock{
			HTMLSnippet:    inner,
			Location:       classes,
			ContainsScript: s.Find("script").Length() > 0 || hasInlineHandler(s),
			ContainsIframe: s.Find("iframe").Length() > 0,
			ContainsForm:   s.Find("form").Length() > 0,
			ExternalURLs:   externalLinks(s, baseHost),
		}
		page.CustomBlocks = append(page.CustomBlocks, blk)
	})

	doc.Find("iframe").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			return
		}
		width, _ := s.Attr("width")
		height, _ := s.Attr("height")
		page.Embeds = append(page.Embeds, model.PageEmbed{Src: src, Width: width, Height: height})
	})

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			return
		}
		alt, _ := s.Attr("alt")
		page.Images = append(page.Images, model.PageImage{Src: src, Alt: alt})
	})

	return page, nil
}

// PageSource is one saved page handed to ScanReport.
type PageSource struct {
	URL  string
	HTML string
}

// ScanReport runs Scan over saved pages in order and assembles a crawl
// report for the site.
func ScanReport(siteURL string, pages []PageSource) (model.CrawlReport, error) {
	report := model.CrawlReport{SiteURL: siteURL}
	for _, src := range pages {
		page, err := Scan(src.HTML, src.URL)
		if err != nil {
			return model.CrawlReport{}, err
		}
		report.Pages = append(report.Pages, page)
	}
	return report, nil
}

func hasInlineHandler(s *goquery.Selection) bool {
	found := false
	s.Find("*").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		for _, attr := range el.Nodes[0].Attr {
			if strings.HasPrefix(strings.ToLower(attr.Key), "on") && len(attr.Val) > 0 {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

func externalLinks(s *goquery.Selection, baseHost string) []string {
	var out []string
	seen := map[string]bool{}
	s.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		u, err := url.Parse(href)
		if err != nil || u.Hostname() == "" {
			return
		}
		host := strings.ToLower(u.Hostname())
		if baseHost != "" && host == baseHost {
			return
		}
		if seen[href] {
			return
		}
		seen[href] = true
		out = append(out, href)
	})
	return out
}
