// Package templates holds the portal's templ components: the page layout and
// the helpers the page bodies in templates/pages are written with.
package templates

import (
	"io"

	"github.com/a-h/templ"
)

// Writer accumulates HTML output and keeps the first write error, so
// components can emit markup without checking every call.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes trusted markup as is.
func (hw *Writer) Raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// Text writes s HTML-escaped. It is safe for both element content and quoted
// attribute values.
func (hw *Writer) Text(s string) {
	hw.Raw(templ.EscapeString(s))
}

// Attr writes ` name="value"` with value escaped.
func (hw *Writer) Attr(name, value string) {
	hw.Raw(" " + name + `="`)
	hw.Text(value)
	hw.Raw(`"`)
}

// Err returns the first write error, if any.
func (hw *Writer) Err() error {
	return hw.err
}

// CSRFField writes the hidden form field carrying the double-submit token.
func (hw *Writer) CSRFField(token string) {
	hw.Raw(`<input type="hidden" name="csrf_token"`)
	hw.Attr("value", token)
	hw.Raw(">")
}
