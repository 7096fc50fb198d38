package scripts

import "regexp"

// patternGroup ties one purpose to the regexes that identify it and the
// fixed replacement suggestion handed to reviewers.
type patternGroup struct {
	purpose     Purpose
	patterns    []*regexp.Regexp
	description string
	replacement *Replacement
}

// patternTable is evaluated in declaration order and the first group with
// any matching pattern wins, so ordering is load-bearing: named plugin
// categories (carousel, lightbox, ...) come before the generic animation
// catch-all, otherwise a slider plugin's fade calls would be misfiled as
// eye-candy. The table is built once at init and never mutated.
var patternTable = []patternGroup{
	{
		purpose: PurposeCarousel,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\.slick\s*\(`),
			regexp.MustCompile(`(?i)owlCarousel`),
			regexp.MustCompile(`(?i)\.carousel\s*\(`),
			regexp.MustCompile(`(?i)new\s+Swiper|\.swiper\b`),
			regexp.MustCompile(`(?i)bxSlider`),
			regexp.MustCompile(`(?i)\.cycle\s*\(`),
			regexp.MustCompile(`(?i)flexslider`),
		},
		description: "image carousel / slider plugin",
		replacement: &Replacement{
			Type:         ReplaceWithBlock,
			BlockType:    "placeholder",
			Action:       "replace",
			Instructions: "use the native slideshow feature instead of the jQuery slider plugin",
		},
	},
	{
		purpose: PurposeLightbox,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)lightbox`),
			regexp.MustCompile(`(?i)fancybox`),
			regexp.MustCompile(`(?i)magnificPopup`),
			regexp.MustCompile(`(?i)colorbox`),
			regexp.MustCompile(`(?i)prettyPhoto`),
		},
		description: "image lightbox plugin",
		replacement: &Replacement{
			Type:         ReplaceBuiltIn,
			Action:       "remove",
			Instructions: "gallery images open in a native lightbox; the plugin is redundant",
		},
	},
	{
		purpose: PurposeAccordion,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\.accordion\s*\(`),
			regexp.MustCompile(`(?i)slideToggle`),
			regexp.MustCompile(`(?i)collapsible`),
		},
		description: "accordion / expand-collapse behavior",
		replacement: &Replacement{
			Type:         ReplaceWithBlock,
			BlockType:    "accordion",
			Action:       "replace",
			Instructions: "recreate the sections with an accordion block",
		},
	},
	{
		purpose: PurposeTabs,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\.tabs\s*\(`),
			regexp.MustCompile(`(?i)nav-tabs`),
			regexp.MustCompile(`(?i)tab-content`),
		},
		description: "tabbed content behavior",
		replacement: &Replacement{
			Type:         ReplaceWithBlock,
			BlockType:    "tabs",
			Action:       "replace",
			Instructions: "recreate the panels with a tabs block",
		},
	},
	{
		purpose: PurposeAnalytics,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)google-analytics\.com`),
			regexp.MustCompile(`(?i)googletagmanager\.com`),
			regexp.MustCompile(`\bgtag\s*\(`),
			regexp.MustCompile(`\bga\s*\(\s*['"]`),
			regexp.MustCompile(`\b_gaq\b`),
			regexp.MustCompile(`\bfbq\s*\(`),
			regexp.MustCompile(`(?i)matomo|piwik`),
		},
		description: "analytics / tracking snippet",
		replacement: &Replacement{
			Type:         ReplaceRemove,
			Action:       "remove",
			Instructions: "analytics are configured site-wide on the new platform, not per page",
		},
	},
	{
		purpose: PurposeCountdown,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)countdown`),
			regexp.MustCompile(`(?i)timeuntil|timeremaining`),
		},
		description: "countdown timer",
		replacement: &Replacement{
			Type:         ReplaceManual,
			Action:       "review",
			Instructions: "no native countdown block exists; decide whether the timer is still needed",
		},
	},
	{
		purpose: PurposeFormValidation,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\.validate\s*\(`),
			regexp.MustCompile(`(?i)\.valid\s*\(\s*\)`),
			regexp.MustCompile(`(?i)checkValidity`),
			regexp.MustCompile(`(?i)required.{0,20}field`),
		},
		description: "form validation script",
		replacement: &Replacement{
			Type:         ReplaceBuiltIn,
			Action:       "remove",
			Instructions: "native forms validate their own fields",
		},
	},
	{
		purpose: PurposeSmoothScroll,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)smooth-?scroll`),
			regexp.MustCompile(`(?i)animate\s*\(\s*\{\s*scrollTop`),
			regexp.MustCompile(`(?i)scrollIntoView`),
		},
		description: "smooth scrolling behavior",
		replacement: &Replacement{
			Type:         ReplaceBuiltIn,
			Action:       "remove",
			Instructions: "anchor links scroll smoothly by default",
		},
	},
	{
		purpose: PurposeStickyHeader,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)sticky`),
			regexp.MustCompile(`(?i)\.affix\s*\(`),
			regexp.MustCompile(`(?i)scroll.{0,40}(header|navbar)`),
		},
		description: "sticky header behavior",
		replacement: &Replacement{
			Type:         ReplaceBuiltIn,
			Action:       "remove",
			Instructions: "the site header is sticky via theme settings",
		},
	},
	{
		purpose: PurposeLazyLoad,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)lazy-?load`),
			regexp.MustCompile(`(?i)IntersectionObserver`),
			regexp.MustCompile(`(?i)\.unveil\s*\(`),
		},
		description: "image lazy loading",
		replacement: &Replacement{
			Type:         ReplaceRemove,
			Action:       "remove",
			Instructions: "images lazy-load natively",
		},
	},
	{
		purpose: PurposeSocialShare,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)addthis`),
			regexp.MustCompile(`(?i)sharethis`),
			regexp.MustCompile(`(?i)twitter\.com/(intent|share)`),
			regexp.MustCompile(`(?i)facebook\.com/sharer`),
			regexp.MustCompile(`(?i)platform\.twitter\.com`),
		},
		description: "social sharing widget",
		replacement: &Replacement{
			Type:         ReplaceBuiltIn,
			Action:       "remove",
			Instructions: "enable native share buttons in page settings",
		},
	},
	{
		purpose: PurposeModal,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\.modal\s*\(`),
			regexp.MustCompile(`(?i)showModal`),
			regexp.MustCompile(`(?i)\.dialog\s*\(`),
			regexp.MustCompile(`(?i)\.popup\s*\(`),
		},
		description: "modal / popup dialog",
		replacement: &Replacement{
			Type:         ReplaceManual,
			Action:       "review",
			Instructions: "review the modal content; announcements may map to a banner, others need redesign",
		},
	},
	{
		purpose: PurposeTooltip,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\.tooltip\s*\(`),
			regexp.MustCompile(`(?i)\btippy\b`),
			regexp.MustCompile(`(?i)\.popover\s*\(`),
		},
		description: "tooltip / popover",
		replacement: &Replacement{
			Type:         ReplaceManual,
			Action:       "review",
			Instructions: "tooltips may carry content; move important text into the page body",
		},
	},
	{
		purpose: PurposeMenuToggle,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)menu-?toggle`),
			regexp.MustCompile(`(?i)hamburger`),
			regexp.MustCompile(`(?i)nav-?toggle`),
			regexp.MustCompile(`(?i)toggleClass\s*\([^)]*(menu|nav)`),
		},
		description: "mobile menu toggle",
		replacement: &Replacement{
			Type:         ReplaceBuiltIn,
			Action:       "remove",
			Instructions: "navigation is rebuilt natively and handles mobile toggling itself",
		},
	},
	{
		// Generic animation stays last so named plugins win first.
		purpose: PurposeAnimation,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\.animate\s*\(`),
			regexp.MustCompile(`(?i)fadeIn|fadeOut|slideDown|slideUp`),
			regexp.MustCompile(`(?i)\bwow\.js\b|new\s+WOW\s*\(`),
			regexp.MustCompile(`(?i)AOS\.init`),
		},
		description: "decorative animation",
		replacement: &Replacement{
			Type:         ReplaceRemove,
			Action:       "remove",
			Instructions: "decorative animations are dropped during migration",
		},
	},
}
