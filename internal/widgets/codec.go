package widgets

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON restores the Properties variant from the discriminating
// kind, so persisted projects round-trip through plain JSON.
func (c *Config) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind         Kind            `json:"type"`
		StyleVariant string          `json:"styleVariant"`
		Properties   json.RawMessage `json:"properties"`
		RawClasses   string          `json:"rawClasses"`
		Location     string          `json:"location"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.Kind = raw.Kind
	c.StyleVariant = raw.StyleVariant
	c.RawClasses = raw.RawClasses
	c.Location = raw.Location
	c.Properties = nil

	if len(raw.Properties) == 0 || string(raw.Properties) == "null" {
		return nil
	}

	decode := func(v Properties) error {
		if err := json.Unmarshal(raw.Properties, v); err != nil {
			return fmt.Errorf("widget %q properties: %w", raw.Kind, err)
		}
		return nil
	}

	switch raw.Kind {
	case KindEvents:
		var p EventsProps
		if err := decode(&p); err != nil {
			return err
		}
		c.Properties = p
	case KindStoreCatalog:
		var p StoreProps
		if err := decode(&p); err != nil {
			return err
		}
		c.Properties = p
	case KindSlideshow:
		var p SlideshowProps
		if err := decode(&p); err != nil {
			return err
		}
		c.Properties = p
	case KindCustomMenu:
		var p MenuProps
		if err := decode(&p); err != nil {
			return err
		}
		c.Properties = p
	case KindPhotoAlbum:
		var p PhotoAlbumProps
		if err := decode(&p); err != nil {
			return err
		}
		c.Properties = p
	case KindSocialProfile:
		var p SocialProfileProps
		if err := decode(&p); err != nil {
			return err
		}
		c.Properties = p
	}
	return nil
}
