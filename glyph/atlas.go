package glyph

import "image"

// shelfPacker places rectangles left to right in rows of growing height.
type shelfPacker struct {
	width, pad int
	x, y, rowH int
}

func (p *shelfPacker) place(w, h int) (image.Point, bool) {
	if w+2*p.pad > p.width {
		return image.Point{}, false
	}
	if p.x+w+2*p.pad > p.width {
		p.y += p.rowH
		p.x, p.rowH = 0, 0
	}
	at := image.Pt(p.x+p.pad, p.y+p.pad)
	p.x += w + 2*p.pad
	p.rowH = max(p.rowH, h+2*p.pad)
	return at, true
}

func (p *shelfPacker) height() int { return p.y + p.rowH }
