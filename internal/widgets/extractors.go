package widgets

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Properties is the discriminated payload attached to a detected widget.
// Each widget kind has its own concrete variant; kinds without structured
// properties carry nil.
type Properties interface {
	isWidgetProperties()
}

// EventItem is one flattened event entry from an events widget.
type EventItem struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Date  string `json:"date,omitempty"`
}

// EventsProps holds properties of an events widget.
type EventsProps struct {
	View       string      `json:"view,omitempty"` // list or calendar
	Timezone   string      `json:"timezone,omitempty"`
	EventCount int         `json:"eventCount"`
	Events     []EventItem `json:"events,omitempty"`
}

// StoreItem is one product entry from a store catalog widget.
type StoreItem struct {
	Name     string `json:"name,omitempty"`
	Price    string `json:"price,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	URL      string `json:"url,omitempty"`
}

// StoreProps holds properties of a store catalog widget.
type StoreProps struct {
	Items []StoreItem `json:"items,omitempty"`
}

// SlideshowProps holds properties of a slideshow widget.
type SlideshowProps struct {
	IntervalMs int      `json:"intervalMs,omitempty"`
	Images     []string `json:"images,omitempty"`
}

// MenuItem is one entry of a custom menu widget.
type MenuItem struct {
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
}

// MenuProps holds properties of a custom menu widget.
type MenuProps struct {
	Items []MenuItem `json:"items,omitempty"`
}

// PhotoAlbumProps holds properties of a photo album widget.
type PhotoAlbumProps struct {
	Images []string `json:"images,omitempty"`
}

// SocialLink is one profile link of a social profile widget.
type SocialLink struct {
	Network string `json:"network"`
	URL     string `json:"url"`
}

// SocialProfileProps holds properties of a social profile widget.
type SocialProfileProps struct {
	Links []SocialLink `json:"links,omitempty"`
}

func (EventsProps) isWidgetProperties()        {}
func (StoreProps) isWidgetProperties()         {}
func (SlideshowProps) isWidgetProperties()     {}
func (MenuProps) isWidgetProperties()          {}
func (PhotoAlbumProps) isWidgetProperties()    {}
func (SocialProfileProps) isWidgetProperties() {}

// extractProperties dispatches to the kind-specific extractor. Every
// extractor is best-effort: absent sub-markup yields zero values, never an
// error.
func extractProperties(kind Kind, html string) Properties {
	switch kind {
	case KindEvents:
		return extractEventsProps(html)
	case KindStoreCatalog:
		return extractStoreProps(html)
	case KindSlideshow:
		return extractSlideshowProps(html)
	case KindCustomMenu:
		return extractMenuProps(html)
	case KindPhotoAlbum:
		return extractPhotoAlbumProps(html)
	case KindSocialProfile:
		return extractSocialProps(html)
	default:
		return nil
	}
}

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	spaceRe      = regexp.MustCompile(`\s+`)
	calendarRe   = regexp.MustCompile(`(?i)calendar(View|Container|Mode)?`)
	listViewRe   = regexp.MustCompile(`(?i)(event)?list(View|Container)?`)
	timezoneRe   = regexp.MustCompile(`(?i)time\s*zone\s*:?\s*(?:</[^>]+>\s*<[^>]+>\s*)?([A-Za-z][\w/ +\-:]{2,60})`)
	eventLinkRe  = regexp.MustCompile(`(?is)<a[^>]*href="([^"]*event[^"]*)"[^>]*>(.*?)</a>`)
	eventDateRe  = regexp.MustCompile(`(?i)\b(\d{1,2}\s+)?(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2}(,?\s+\d{4})?`)
	storeItemRe  = regexp.MustCompile(`(?is)<li[^>]*class="[^"]*(product|storeItem|catalogItem)[^"]*"[^>]*>(.*?)</li>`)
	storeNameRe  = regexp.MustCompile(`(?is)class="[^"]*(name|title)[^"]*"[^>]*>([^<]+)<`)
	storePriceRe = regexp.MustCompile(`(?is)class="[^"]*price[^"]*"[^>]*>([^<]+)<`)
	imgSrcRe     = regexp.MustCompile(`(?i)<img[^>]*\ssrc="([^"]+)"`)
	hrefRe       = regexp.MustCompile(`(?i)<a[^>]*\shref="([^"]+)"`)
	dataSrcRe    = regexp.MustCompile(`(?i)data-src="([^"]+)"`)
	bgImageRe    = regexp.MustCompile(`(?i)background-image:\s*url\(['"]?([^'")]+)['"]?\)`)
	intervalRe   = regexp.MustCompile(`(?i)(?:data-interval="|interval['"]?\s*[:=]\s*)(\d{2,7})`)
	menuItemRe   = regexp.MustCompile(`(?is)<li[^>]*>\s*<a[^>]*href="([^"]*)"[^>]*>(.*?)</a>`)
	socialHostRe = regexp.MustCompile(`(?i)(facebook|twitter|x\.com|instagram|linkedin|youtube|flickr|meetup)`)
)

func flattenText(fragment string) string {
	text := tagRe.ReplaceAllString(fragment, " ")
	text = strings.NewReplacer("&amp;", "&", "&nbsp;", " ", "&quot;", `"`, "&#39;", "'", "&lt;", "<", "&gt;", ">").Replace(text)
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

func extractEventsProps(html string) EventsProps {
	props := EventsProps{View: "list"}
	if calendarRe.MatchString(html) && !listViewRe.MatchString(html) {
		props.View = "calendar"
	}

	if m := timezoneRe.FindStringSubmatch(html); m != nil {
		props.Timezone = strings.TrimSpace(m[1])
	}

	for _, m := range eventLinkRe.FindAllStringSubmatch(html, -1) {
		title := flattenText(m[2])
		if title == "" {
			continue
		}
		item := EventItem{Title: title, URL: m[1]}
		if d := eventDateRe.FindString(m[2]); d != "" {
			item.Date = strings.TrimSpace(d)
		}
		props.Events = append(props.Events, item)
	}
	props.EventCount = len(props.Events)
	return props
}

func extractStoreProps(html string) StoreProps {
	var props StoreProps
	for _, m := range storeItemRe.FindAllStringSubmatch(html, -1) {
		body := m[2]
		var item StoreItem
		if n := storeNameRe.FindStringSubmatch(body); n != nil {
			item.Name = flattenText(n[2])
		}
		if p := storePriceRe.FindStringSubmatch(body); p != nil {
			item.Price = flattenText(p[1])
		}
		if i := imgSrcRe.FindStringSubmatch(body); i != nil {
			item.ImageURL = i[1]
		}
		if h := hrefRe.FindStringSubmatch(body); h != nil {
			item.URL = h[1]
		}
		if item != (StoreItem{}) {
			props.Items = append(props.Items, item)
		}
	}
	return props
}

func extractSlideshowProps(html string) SlideshowProps {
	var props SlideshowProps
	if m := intervalRe.FindStringSubmatch(html); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			props.IntervalMs = n
		}
	}

	seen := map[string]bool{}
	for _, re := range []*regexp.Regexp{dataSrcRe, imgSrcRe, bgImageRe} {
		for _, m := range re.FindAllStringSubmatch(html, -1) {
			src := strings.TrimSpace(m[1])
			if src == "" || seen[src] {
				continue
			}
			seen[src] = true
			props.Images = append(props.Images, src)
		}
	}
	return props
}

func extractMenuProps(html string) MenuProps {
	var props MenuProps
	for _, m := range menuItemRe.FindAllStringSubmatch(html, -1) {
		label := flattenText(m[2])
		if label == "" {
			continue
		}
		props.Items = append(props.Items, MenuItem{Label: label, URL: m[1]})
	}
	return props
}

func extractPhotoAlbumProps(html string) PhotoAlbumProps {
	var props PhotoAlbumProps
	seen := map[string]bool{}
	for _, m := range imgSrcRe.FindAllStringSubmatch(html, -1) {
		src := m[1]
		if seen[src] {
			continue
		}
		seen[src] = true
		props.Images = append(props.Images, src)
	}
	return props
}

func extractSocialProps(html string) SocialProfileProps {
	var props SocialProfileProps
	seen := map[string]bool{}
	for _, m := range hrefRe.FindAllStringSubmatch(html, -1) {
		link := m[1]
		host := link
		if u, err := url.Parse(link); err == nil && u.Hostname() != "" {
			host = u.Hostname()
		}
		nm := socialHostRe.FindString(host)
		if nm == "" || seen[link] {
			continue
		}
		seen[link] = true
		network := strings.ToLower(nm)
		if network == "x.com" {
			network = "twitter"
		}
		props.Links = append(props.Links, SocialLink{Network: network, URL: link})
	}
	return props
}
