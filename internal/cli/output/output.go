// Package output renders command results as human-readable text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// Mode selects the rendering format.
type Mode string

// Rendering formats.
const (
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

// Renderer writes command output in the selected mode.
type Renderer struct {
	out  io.Writer
	errW io.Writer
	mode Mode
}

// NewRenderer creates a renderer. Unknown modes fall back to text.
func NewRenderer(out, errW io.Writer, mode Mode) *Renderer {
	if mode != ModeJSON {
		mode = ModeText
	}
	return &Renderer{out: out, errW: errW, mode: mode}
}

// JSONMode reports whether structured output was requested.
func (r *Renderer) JSONMode() bool { return r.mode == ModeJSON }

// Out returns the output writer, for table renderers that mirror into it.
func (r *Renderer) Out() io.Writer { return r.out }

// Println writes a line to standard output (text mode only).
func (r *Renderer) Println(args ...any) {
	if r.mode == ModeText {
		_, _ = fmt.Fprintln(r.out, args...)
	}
}

// Printf writes formatted text to standard output (text mode only).
func (r *Renderer) Printf(format string, args ...any) {
	if r.mode == ModeText {
		_, _ = fmt.Fprintf(r.out, format, args...)
	}
}

// Warnf writes a warning line to standard error regardless of mode.
func (r *Renderer) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errW, "Warning: "+format+"\n", args...)
}

// JSON writes v as indented JSON to standard output.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
