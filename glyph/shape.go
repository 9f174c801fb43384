package glyph

import (
	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// shaper computes per-rune advances with HarfBuzz so kerning and
// contextual positioning apply. Glyph bitmaps still come from the atlas.
type shaper struct {
	face *gtfont.Face
	size fixed.Int26_6
	hb   shaping.HarfbuzzShaper
}

func newShaper(face *gtfont.Face, size float64) *shaper {
	return &shaper{face: face, size: fixed.Int26_6(size * 64)}
}

// advances writes the advance of every rune in line into out, which must
// be len(line) long. Runes merged into a ligature get the ligature's full
// advance on its first rune and zero on the rest.
func (s *shaper) advances(line []rune, out []float32) {
	clear(out)
	if len(line) == 0 {
		return
	}
	in := shaping.Input{
		Text:      line,
		RunStart:  0,
		RunEnd:    len(line),
		Direction: di.DirectionLTR,
		Face:      s.face,
		Size:      s.size,
		Script:    script(line),
		Language:  language.NewLanguage("en"),
	}
	output := s.hb.Shape(in)
	for _, g := range output.Glyphs {
		if i := g.TextIndex(); i >= 0 && i < len(out) {
			out[i] += fixedToFloat(g.Advance)
		}
	}
}

func script(line []rune) language.Script {
	for _, r := range line {
		if r != ' ' && r != '\t' {
			return language.LookupScript(r)
		}
	}
	return language.Latin
}
