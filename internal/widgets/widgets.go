package widgets

import "regexp"

// Kind is one of the recognized Wild Apricot widget kinds.
type Kind string

const (
	KindEvents        Kind = "events"
	KindStoreCatalog  Kind = "store-catalog"
	KindSearch        Kind = "search"
	KindSocialProfile Kind = "social-profile"
	KindCustomMenu    Kind = "custom-menu"
	KindSlideshow     Kind = "slideshow"
	KindPhotoAlbum    Kind = "photo-album"
	KindContent       Kind = "content"
	KindLoginForm     Kind = "login-form"
	KindDonationForm  Kind = "donation-form"
	KindMembershipApp Kind = "membership-app"
	KindForum         Kind = "forum"
	KindBlog          Kind = "blog"
	KindUnknown       Kind = "unknown"
)

// Action is the migration decision for a widget kind.
type Action string

const (
	// ActionSkip drops the widget silently: its functionality (login,
	// search, navigation) is reconstructed natively, not content-migrated.
	ActionSkip Action = "skip"
	// ActionPlaceholder emits a placeholder block pointing at the native
	// feature that will replace the widget.
	ActionPlaceholder Action = "placeholder"
	// ActionConvert routes the widget's markup through the generic
	// HTML-to-blocks converter.
	ActionConvert Action = "convert"
)

// Config is one detected widget instance with its extracted properties.
type Config struct {
	Kind         Kind       `json:"type"`
	StyleVariant string     `json:"styleVariant,omitempty"`
	Properties   Properties `json:"properties,omitempty"`
	RawClasses   string     `json:"rawClasses"`
	Location     string     `json:"location"`
}

// signature maps a Wild Apricot gadget class-name convention to a widget
// kind. The table is ordered and the first match wins; the more specific
// gadget names sit above the generic content gadget.
type signature struct {
	re   *regexp.Regexp
	kind Kind
}

var signatureTable = []signature{
	{regexp.MustCompile(`(?i)WaGadgetEvents|WaGadgetUpcomingEvents|WaGadgetEventsCalendar`), KindEvents},
	{regexp.MustCompile(`(?i)WaGadgetOnlineStore|WaGadgetProductCatalog`), KindStoreCatalog},
	{regexp.MustCompile(`(?i)WaGadgetSiteSearch|WaGadgetSearch`), KindSearch},
	{regexp.MustCompile(`(?i)WaGadgetSocialProfile|WaGadgetSocialNetwork`), KindSocialProfile},
	{regexp.MustCompile(`(?i)WaGadgetCustomMenu|WaGadgetMenu(Horizontal|Vertical)`), KindCustomMenu},
	{regexp.MustCompile(`(?i)WaGadgetSlideshow`), KindSlideshow},
	{regexp.MustCompile(`(?i)WaGadgetPhotoAlbum|WaGadgetAlbumList`), KindPhotoAlbum},
	{regexp.MustCompile(`(?i)WaGadgetLoginForm|WaGadgetLoginButton|WaGadgetAuthorize`), KindLoginForm},
	{regexp.MustCompile(`(?i)WaGadgetDonation`), KindDonationForm},
	{regexp.MustCompile(`(?i)WaGadgetMembershipApplication`), KindMembershipApp},
	{regexp.MustCompile(`(?i)WaGadgetForum`), KindForum},
	{regexp.MustCompile(`(?i)WaGadgetBlog`), KindBlog},
	{regexp.MustCompile(`(?i)WaGadgetContent|WaGadgetCustomHtml|WaGadgetHtml`), KindContent},
}

var styleVariantRe = regexp.MustCompile(`(?i)gadgetStyle([A-Za-z0-9-]+)`)

// actionTable is the fixed migration decision per widget kind.
var actionTable = map[Kind]Action{
	KindEvents:        ActionPlaceholder,
	KindStoreCatalog:  ActionPlaceholder,
	KindSearch:        ActionSkip,
	KindSocialProfile: ActionPlaceholder,
	KindCustomMenu:    ActionSkip,
	KindSlideshow:     ActionPlaceholder,
	KindPhotoAlbum:    ActionPlaceholder,
	KindContent:       ActionConvert,
	KindLoginForm:     ActionSkip,
	KindDonationForm:  ActionPlaceholder,
	KindMembershipApp: ActionPlaceholder,
	KindForum:         ActionPlaceholder,
	KindBlog:          ActionPlaceholder,
}

// murmurantTypes maps each widget kind to the native feature that replaces
// it. Used for placeholder blocks and widget-mapping records.
var murmurantTypes = map[Kind]string{
	KindEvents:        "event-list",
	KindStoreCatalog:  "product-grid",
	KindSocialProfile: "social-links",
	KindSlideshow:     "slideshow",
	KindPhotoAlbum:    "gallery",
	KindDonationForm:  "donation",
	KindMembershipApp: "membership-form",
	KindForum:         "forum",
	KindBlog:          "blog",
	KindContent:       "html",
}

// ActionFor returns the migration decision for a kind. Unlisted kinds fall
// back to generic conversion so no content is lost.
func ActionFor(k Kind) Action {
	if a, ok := actionTable[k]; ok {
		return a
	}
	return ActionConvert
}

// MurmurantType returns the native replacement feature name for a kind, or
// "html" when none is defined.
func MurmurantType(k Kind) string {
	if t, ok := murmurantTypes[k]; ok {
		return t
	}
	return "html"
}

// Extract matches the wrapping container's class string against the widget
// signature table and, on a hit, runs the kind-specific property extractor
// over the snippet. Most custom-HTML blocks are plain authored content, so
// a nil return is the common case.
func Extract(html, location string) *Config {
	for _, sig := range signatureTable {
		if !sig.re.MatchString(location) {
			continue
		}

		cfg := &Config{
			Kind:       sig.kind,
			RawClasses: location,
			Location:   location,
		}
		if m := styleVariantRe.FindStringSubmatch(location); m != nil {
			cfg.StyleVariant = m[1]
		}
		cfg.Properties = extractProperties(sig.kind, html)
		return cfg
	}
	return nil
}
