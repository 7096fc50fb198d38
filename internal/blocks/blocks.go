package blocks

import (
	"fmt"

	"github.com/google/uuid"
)

// Type identifies one of the closed set of Murmurant block types. The set is
// defined by the target block registry; the converter never constructs a
// block with a type outside this set.
type Type string

const (
	TypeHeading     Type = "heading"
	TypeText        Type = "text"
	TypeList        Type = "list"
	TypeImage       Type = "image"
	TypeDivider     Type = "divider"
	TypeButton      Type = "button"
	TypeIframe      Type = "iframe"
	TypeHTML        Type = "html"
	TypePlaceholder Type = "placeholder"
	TypeTable       Type = "table"
	TypeColumns     Type = "columns"
	TypeCard        Type = "card"
	TypeAccordion   Type = "accordion"
	TypeTabs        Type = "tabs"
)

// Block is the atomic output unit of the migration. Data holds the
// type-specific payload, Meta holds presentational metadata orthogonal to
// Data, and Children is used only by container types.
type Block struct {
	ID       string         `json:"id"`
	Type     Type           `json:"type"`
	Version  int            `json:"version"`
	Data     map[string]any `json:"data"`
	Meta     map[string]any `json:"meta,omitempty"`
	Children []Block        `json:"children,omitempty"`
}

// typeSpec describes the registry contract for one block type: which data
// fields must be present, and whether children are allowed.
type typeSpec struct {
	required  []string
	container bool
}

var registry = map[Type]typeSpec{
	TypeHeading:     {required: []string{"level", "text"}},
	TypeText:        {required: []string{"text"}},
	TypeList:        {required: []string{"ordered", "items"}},
	TypeImage:       {required: []string{"src"}},
	TypeDivider:     {},
	TypeButton:      {required: []string{"text", "url"}},
	TypeIframe:      {required: []string{"src"}},
	TypeHTML:        {required: []string{"content"}},
	TypePlaceholder: {required: []string{"widgetType", "sourceWidget"}},
	TypeTable:       {required: []string{"rows"}},
	TypeColumns:     {container: true},
	TypeCard:        {container: true},
	TypeAccordion:   {container: true},
	TypeTabs:        {container: true},
}

// Known reports whether t is a registered block type.
func Known(t Type) bool {
	_, ok := registry[t]
	return ok
}

// IsContainer reports whether t may carry child blocks.
func IsContainer(t Type) bool {
	return registry[t].container
}

// New constructs a block of the given type with a fresh id and schema
// version 1. It does not validate the data shape; call Validate before
// handing blocks to the registry.
func New(t Type, data map[string]any) Block {
	if data == nil {
		data = map[string]any{}
	}
	return Block{
		ID:      uuid.New().String(),
		Type:    t,
		Version: 1,
		Data:    data,
	}
}

// Validate checks a block against the registry contract. Unknown types and
// missing required data fields are contract violations and are surfaced by
// name rather than hidden.
func Validate(b Block) error {
	spec, ok := registry[b.Type]
	if !ok {
		return fmt.Errorf("unknown block type %q", b.Type)
	}
	for _, field := range spec.required {
		if _, ok := b.Data[field]; !ok {
			return fmt.Errorf("block type %q missing required data field %q", b.Type, field)
		}
	}
	if len(b.Children) > 0 && !spec.container {
		return fmt.Errorf("block type %q does not accept children", b.Type)
	}
	for i := range b.Children {
		if err := Validate(b.Children[i]); err != nil {
			return fmt.Errorf("child %d: %w", i, err)
		}
	}
	return nil
}

// Heading builds a heading block. Level is clamped to 1..6.
func Heading(level int, text string) Block {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return New(TypeHeading, map[string]any{"level": level, "text": text})
}

// Text builds a plain text block.
func Text(text string) Block {
	return New(TypeText, map[string]any{"text": text})
}

// List builds a list block from flattened item texts.
func List(ordered bool, items []string) Block {
	return New(TypeList, map[string]any{"ordered": ordered, "items": items})
}

// Image builds an image block.
func Image(src, alt string) Block {
	return New(TypeImage, map[string]any{"src": src, "alt": alt})
}

// Divider builds a horizontal-rule block.
func Divider() Block {
	return New(TypeDivider, map[string]any{})
}

// Button builds a button block for a link with button styling.
func Button(text, url string) Block {
	return New(TypeButton, map[string]any{"text": text, "url": url})
}

// Iframe builds an iframe block. Width and height are kept as the source
// attribute strings; empty values are omitted.
func Iframe(src, width, height string) Block {
	data := map[string]any{"src": src}
	if width != "" {
		data["width"] = width
	}
	if height != "" {
		data["height"] = height
	}
	return New(TypeIframe, data)
}

// HTML builds a verbatim HTML fallback block. The content is preserved
// as-is so nothing is silently lost; a complex_html warning accompanies it.
func HTML(content string) Block {
	return New(TypeHTML, map[string]any{"content": content})
}

// Placeholder builds a stand-in block for a recognized widget whose native
// equivalent is rendered by a separate runtime feature.
func Placeholder(widgetType, sourceWidget string) Block {
	return New(TypePlaceholder, map[string]any{
		"widgetType":   widgetType,
		"sourceWidget": sourceWidget,
	})
}
