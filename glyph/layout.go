package glyph

import (
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/tri/geom"
)

// HAlign is horizontal alignment within a layout box.
type HAlign uint8

// Horizontal alignments.
const (
	Left HAlign = iota
	Center
	Right
)

// VAlign is vertical alignment within a layout box.
type VAlign uint8

// Vertical alignments.
const (
	Top VAlign = iota
	Middle
	Bottom
)

// Align positions a block of lines inside a box.
type Align struct {
	H HAlign
	V VAlign
}

// Quad is one positioned glyph in the layout box's coordinate space.
type Quad struct {
	Bounds       geom.Rect
	UVMin, UVMax geom.Vec2
}

type line struct {
	start, end int // rune range in fn.runes
	width      float32
}

// Layout appends one quad per visible glyph of text to dst and returns
// it. Lines wrap at spaces when a word would overflow box width; a box
// with zero width never wraps. Text is NFC-normalized first.
func (fn *Font) Layout(dst []Quad, text string, box geom.Rect, align Align) []Quad {
	if fn.layouts == nil {
		return fn.layout(dst, text, box, align)
	}
	key := layoutKey{text: text, size: box.Size(), align: align}
	quads := fn.layouts.GetOrCreate(key, func() []Quad {
		return fn.layout(nil, text, geom.Rect{Max: key.size}, align)
	})
	for _, q := range quads {
		q.Bounds = q.Bounds.Add(box.Min)
		dst = append(dst, q)
	}
	return dst
}

// layoutKey identifies a layout relative to its box origin.
type layoutKey struct {
	text  string
	size  geom.Vec2
	align Align
}

func (fn *Font) layout(dst []Quad, text string, box geom.Rect, align Align) []Quad {
	fn.runes = append(fn.runes[:0], []rune(norm.NFC.String(text))...)
	fn.adv = fn.advances(fn.runes, fn.adv)

	lines := fn.wrap(box.Dx())
	blockH := float32(len(lines)) * fn.lineHeight
	y := box.Min.Y
	switch align.V {
	case Middle:
		y += (box.Dy() - blockH) / 2
	case Bottom:
		y += box.Dy() - blockH
	}

	for _, ln := range lines {
		x := box.Min.X
		switch align.H {
		case Center:
			x += (box.Dx() - ln.width) / 2
		case Right:
			x += box.Dx() - ln.width
		}
		pen := geom.V2(x, y+fn.ascent)
		for i := ln.start; i < ln.end; i++ {
			g, ok := fn.Glyph(fn.runes[i])
			if ok && !g.Blank {
				tl := pen.Add(g.Offset)
				dst = append(dst, Quad{
					Bounds: geom.Rect{Min: tl, Max: tl.Add(g.Size)},
					UVMin:  g.UVMin,
					UVMax:  g.UVMax,
				})
			}
			pen.X += fn.adv[i]
		}
		y += fn.lineHeight
	}
	return dst
}

// Measure returns the size of text laid out in a box of width maxWidth.
func (fn *Font) Measure(text string, maxWidth float32) geom.Vec2 {
	fn.runes = append(fn.runes[:0], []rune(norm.NFC.String(text))...)
	fn.adv = fn.advances(fn.runes, fn.adv)
	lines := fn.wrap(maxWidth)
	var w float32
	for _, ln := range lines {
		w = max(w, ln.width)
	}
	return geom.V2(w, float32(len(lines))*fn.lineHeight)
}

// advances fills one advance per rune. Newlines advance zero.
func (fn *Font) advances(runes []rune, out []float32) []float32 {
	out = append(out[:0], make([]float32, len(runes))...)
	if fn.shaper != nil {
		start := 0
		for i := 0; i <= len(runes); i++ {
			if i == len(runes) || runes[i] == '\n' {
				fn.shaper.advances(runes[start:i], out[start:i])
				start = i + 1
			}
		}
		return out
	}
	prev := rune(-1)
	for i, r := range runes {
		if r == '\n' {
			prev = -1
			continue
		}
		g, _ := fn.Glyph(r)
		out[i] = g.Advance
		if prev >= 0 {
			out[i-1] += fixedToFloat(fn.face.Kern(prev, r))
		}
		prev = r
	}
	return out
}

// wrap splits fn.runes into lines. Trailing spaces do not count toward a
// line's width.
func (fn *Font) wrap(maxWidth float32) []line {
	var lines []line
	rs := fn.runes
	start := 0
	for start <= len(rs) {
		end := start
		for end < len(rs) && rs[end] != '\n' {
			end++
		}
		lines = fn.wrapParagraph(lines, start, end, maxWidth)
		start = end + 1
	}
	return lines
}

func (fn *Font) wrapParagraph(lines []line, start, end int, maxWidth float32) []line {
	rs, adv := fn.runes, fn.adv
	lineStart := start
	var width float32 // width of lineStart..i
	lastBreak := -1   // last space on this line

	for i := start; i < end; i++ {
		if unicode.IsSpace(rs[i]) {
			lastBreak = i
		}
		width += adv[i]
		if maxWidth <= 0 || width <= maxWidth || unicode.IsSpace(rs[i]) {
			continue
		}
		if lastBreak < lineStart {
			// One word wider than the box overflows on its own line.
			continue
		}
		lines = append(lines, line{start: lineStart, end: lastBreak, width: trimmedWidth(rs, adv, lineStart, lastBreak)})
		lineStart = lastBreak + 1
		width = sum(adv[lineStart : i+1])
		lastBreak = -1
	}
	return append(lines, line{start: lineStart, end: end, width: trimmedWidth(rs, adv, lineStart, end)})
}

func trimmedWidth(rs []rune, adv []float32, start, end int) float32 {
	for end > start && unicode.IsSpace(rs[end-1]) {
		end--
	}
	return sum(adv[start:end])
}

func sum(v []float32) float32 {
	var s float32
	for _, x := range v {
		s += x
	}
	return s
}
