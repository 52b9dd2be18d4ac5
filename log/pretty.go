package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by prettyHandler. The styles are bound to a
// renderer for the handler's output, so colors are emitted only when that
// output is a terminal.
type palette struct {
	key, str, num, dur, when, null lipgloss.Style
	yes, no                        lipgloss.Style
	trace, debug, info, warn, fail lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		dur:   fg("5"),
		when:  fg("4"),
		null:  fg("8"),
		yes:   fg("2"),
		no:    fg("1"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2").Bold(true),
		warn:  fg("3").Bold(true),
		fail:  fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.fail
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyHandler renders records for a human reader. With FormatText each
// record is one line of unquoted key=value pairs; with FormatJSON each
// record is an indented object with one attribute per line. Group and
// LogValuer attributes are flattened into dotted keys.
type prettyHandler struct {
	opts   slog.HandlerOptions
	format Format
	stamp  FormatTime
	style  palette
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr // preformatted by WithAttrs, keys already qualified
	prefix string
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	formatTime FormatTime,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		format: format,
		stamp:  formatTime,
		style:  newPalette(w),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var fields []slog.Attr

	if !r.Time.IsZero() {
		if ts := h.stamp(r.Time); ts != "" {
			fields = append(fields, slog.String(slog.TimeKey, ts))
		}
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			fields = append(fields,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = flatten(fields, h.prefix, a)

		return true
	})

	buf := new(bytes.Buffer)

	switch h.format {
	case FormatJSON:
		buf.WriteString("{\n")

		for i, a := range fields {
			if i > 0 {
				buf.WriteString(",\n")
			}

			buf.WriteString("  ")
			buf.WriteString(h.style.key.Render(strconv.Quote(a.Key)))
			buf.WriteString(": ")
			h.writeValue(buf, a.Value, true)
		}

		buf.WriteString("\n}\n")

	default:
		for i, a := range fields {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(h.style.key.Render(a.Key))
			buf.WriteByte('=')
			h.writeValue(buf, a.Value, false)
		}

		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = h.attrs[:len(h.attrs):len(h.attrs)]

	for _, a := range attrs {
		c.attrs = flatten(c.attrs, h.prefix, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// flatten appends a to dst with its key qualified by prefix. Group values
// contribute one attribute per member.
func flatten(dst []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner = prefix + a.Key + "."
		}

		for _, g := range a.Value.Group() {
			dst = flatten(dst, inner, g)
		}

		return dst
	}

	if a.Equal(slog.Attr{}) {
		return dst
	}

	a.Key = prefix + a.Key

	return append(dst, a)
}

func (h *prettyHandler) writeValue(buf *bytes.Buffer, v slog.Value, quote bool) {
	text := func(s string) string {
		if quote {
			return strconv.Quote(s)
		}

		return s
	}

	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(h.style.str.Render(text(v.String())))

	case slog.KindInt64:
		buf.WriteString(h.style.num.Render(strconv.FormatInt(v.Int64(), 10)))

	case slog.KindUint64:
		buf.WriteString(h.style.num.Render(strconv.FormatUint(v.Uint64(), 10)))

	case slog.KindFloat64:
		buf.WriteString(h.style.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64)))

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(h.style.yes.Render("true"))
		} else {
			buf.WriteString(h.style.no.Render("false"))
		}

	case slog.KindDuration:
		buf.WriteString(h.style.dur.Render(text(v.Duration().String())))

	case slog.KindTime:
		buf.WriteString(h.style.when.Render(text(h.stamp(v.Time()))))

	default:
		switch x := v.Any().(type) {
		case slog.Level:
			name := strings.ToUpper(Level(x).String())
			buf.WriteString(h.style.level(x).Render(text(name)))

		case nil:
			buf.WriteString(h.style.null.Render("null"))

		case error:
			buf.WriteString(h.style.no.Render(text(x.Error())))

		case time.Time:
			buf.WriteString(h.style.when.Render(text(h.stamp(x))))

		default:
			buf.WriteString(h.style.str.Render(text(v.String())))
		}
	}
}
