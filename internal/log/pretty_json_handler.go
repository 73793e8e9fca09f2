package log

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
)

type PrettyJSONHandlerOptions struct {
	slog.HandlerOptions
	PrettyPrint bool
}

// NewPrettyJSONHandler creates a [slog.JSONHandler] which optionally indents every record it
// writes. Attributes and groups added via the logger are kept in both modes.
func NewPrettyJSONHandler(w io.Writer, opts *PrettyJSONHandlerOptions) slog.Handler {
	if opts == nil {
		opts = &PrettyJSONHandlerOptions{}
	}

	if opts.PrettyPrint {
		w = indentWriter{w: w}
	}

	return slog.NewJSONHandler(w, &opts.HandlerOptions)
}

// indentWriter indents the JSON written to it. A slog.JSONHandler writes one complete record per
// call to Write.
type indentWriter struct {
	w io.Writer
}

func (iw indentWriter) Write(p []byte) (int, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, p, "", "  "); err != nil {
		return iw.w.Write(p)
	}

	if _, err := iw.w.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}
