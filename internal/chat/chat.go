// Package chat decodes the formatted text tree returned in a server description
// and flattens it into a legacy section-sign formatted string and a plain-text variant.
package chat

import (
	"bytes"
	"encoding/json"
	"strings"
)

// SectionSign prefixes every legacy formatting code.
const SectionSign = '§'

// Legacy formatting codes.
const (
	CodeObfuscated    = "§k"
	CodeBold          = "§l"
	CodeStrikethrough = "§m"
	CodeUnderlined    = "§n"
	CodeItalic        = "§o"
	CodeReset         = "§r"
)

var colorCodes = map[string]string{
	"black":        "§0",
	"dark_blue":    "§1",
	"dark_green":   "§2",
	"dark_aqua":    "§3",
	"dark_red":     "§4",
	"dark_purple":  "§5",
	"gold":         "§6",
	"gray":         "§7",
	"dark_gray":    "§8",
	"blue":         "§9",
	"green":        "§a",
	"aqua":         "§b",
	"red":          "§c",
	"light_purple": "§d",
	"yellow":       "§e",
	"white":        "§f",
}

// Component is one node of a formatted text tree.
// A bare JSON string decodes into a Component with only Text set.
type Component struct {
	Bold          *bool       `json:"bold,omitempty"`
	Italic        *bool       `json:"italic,omitempty"`
	Underlined    *bool       `json:"underlined,omitempty"`
	Strikethrough *bool       `json:"strikethrough,omitempty"`
	Obfuscated    *bool       `json:"obfuscated,omitempty"`
	Text          string      `json:"text,omitempty"`
	Color         string      `json:"color,omitempty"`
	Extra         []Component `json:"extra,omitempty"`
}

// UnmarshalJSON accepts either a JSON string or a component object.
func (c *Component) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Component{Text: s}
		return nil
	}

	type plain Component
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Component(p)

	return nil
}

// Formatted reports whether the node carries any formatting attribute.
// Any non-empty color counts, including hex and unknown names that flatten emits no code for.
func (c Component) Formatted() bool {
	return c.Color != "" ||
		isTrue(c.Bold) ||
		isTrue(c.Italic) ||
		isTrue(c.Underlined) ||
		isTrue(c.Strikethrough) ||
		isTrue(c.Obfuscated)
}

// Flatten renders the tree into a legacy formatted string.
// Each node emits its own codes before its text; a reset is inserted before a child
// whose previous sibling was formatted so styles do not bleed between siblings.
func Flatten(c Component) string {
	var sb strings.Builder
	flatten(&sb, c)
	return sb.String()
}

func flatten(sb *strings.Builder, c Component) {
	if code, ok := colorCodes[c.Color]; ok {
		sb.WriteString(code)
	}
	if isTrue(c.Bold) {
		sb.WriteString(CodeBold)
	}
	if isTrue(c.Italic) {
		sb.WriteString(CodeItalic)
	}
	if isTrue(c.Underlined) {
		sb.WriteString(CodeUnderlined)
	}
	if isTrue(c.Strikethrough) {
		sb.WriteString(CodeStrikethrough)
	}
	if isTrue(c.Obfuscated) {
		sb.WriteString(CodeObfuscated)
	}

	sb.WriteString(c.Text)

	for i, child := range c.Extra {
		if i > 0 && c.Extra[i-1].Formatted() {
			sb.WriteString(CodeReset)
		}
		flatten(sb, child)
	}
}

// Plain strips every section-sign code from s.
func Plain(s string) string {
	if !strings.ContainsRune(s, SectionSign) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))

	skip := false
	for _, r := range s {
		switch {
		case skip:
			skip = false
		case r == SectionSign:
			skip = true
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

func isTrue(b *bool) bool {
	return b != nil && *b
}
