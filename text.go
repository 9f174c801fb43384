package tri

import (
	"fmt"

	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/geom"
	"github.com/gogpu/tri/glyph"
)

// Text draws a string laid out in a world-space box.
type Text struct {
	Text    string
	Font    glyph.FontID
	Box     geom.Rect
	Align   glyph.Align
	Color   Color
	Cameras uint32
	Depth   int8
	Clip    batch.StencilGroup
}

// SubmitText appends one quad per visible glyph to the transparent list.
func (r *Renderer) SubmitText(txt Text) error {
	if r.opts.fonts == nil {
		return ErrNoFonts
	}
	fn, ok := r.opts.fonts.Font(txt.Font)
	if !ok {
		r.logger().Debug("unresolved font, text skipped", "font", txt.Font)
		return fmt.Errorf("%w: %v", ErrInvalidHandle, txt.Font)
	}
	r.glyphs = fn.Layout(r.glyphs[:0], txt.Text, txt.Box, txt.Align)

	a := batch.Attrs{
		Material:   batch.Material{Shader: batch.ShaderFont, Texture: fn.Texture()},
		Stencil:    txt.Clip,
		CameraMask: txt.Cameras,
	}
	for _, g := range r.glyphs {
		b := g.Bounds
		pos := [4]geom.Vec2{b.Min, {X: b.Max.X, Y: b.Min.Y}, {X: b.Min.X, Y: b.Max.Y}, b.Max}
		if err := r.addQuad(batch.Transparent, pos, g.UVMin, g.UVMax, txt.Color, 0, a, txt.Depth); err != nil {
			return err
		}
	}
	return nil
}
