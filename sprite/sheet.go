package sprite

import "image"

// Grid returns the cells of a uniform sprite sheet, row by row. Partial
// cells at the right and bottom edges are skipped.
func Grid(sheetW, sheetH, cellW, cellH int) []image.Rectangle {
	if cellW <= 0 || cellH <= 0 {
		return nil
	}
	var out []image.Rectangle
	for y := 0; y+cellH <= sheetH; y += cellH {
		for x := 0; x+cellW <= sheetW; x += cellW {
			out = append(out, image.Rect(x, y, x+cellW, y+cellH))
		}
	}
	return out
}
