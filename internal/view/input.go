package view

import (
	"strings"

	"golang.org/x/net/html"
)

// Input is a text field whose value lives in the element's value attribute.
type Input struct {
	node *html.Node
}

// NewInput wraps an existing input element.
func NewInput(node *html.Node) *Input {
	return &Input{node: node}
}

// Value returns the current text.
func (i *Input) Value() string {
	return Attr(i.node, "value")
}

// SetValue replaces the current text.
func (i *Input) SetValue(v string) {
	setAttr(i.node, "value", v)
}

// Clear empties the field.
func (i *Input) Clear() {
	i.SetValue("")
}

// IsBlank reports whether v holds nothing but whitespace.
func IsBlank(v string) bool {
	return strings.TrimSpace(v) == ""
}
