package sprite

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"

	"github.com/mauserzjeh/dxt"
	"github.com/pierrec/lz4/v4"
)

// Compressed texture payloads.
//
// Layout, little endian:
//
//	magic   [4]byte "TTEX"
//	format  uint8   (FormatRGBA, FormatDXT1, FormatDXT5)
//	flags   uint8   (bit 0: payload is an LZ4 block)
//	_       uint16
//	width   uint32
//	height  uint32
//	rawSize uint32  size of the payload after LZ4 decompression
//	payload

// Format is the pixel encoding of a texture payload.
type Format uint8

// Payload pixel formats.
const (
	FormatRGBA Format = iota
	FormatDXT1
	FormatDXT5
)

const (
	headerSize = 20
	flagLZ4    = 1 << 0
	maxTexDim  = 16384
)

var texMagic = [4]byte{'T', 'T', 'E', 'X'}

// ErrBadTexture is returned for malformed texture payloads.
var ErrBadTexture = errors.New("sprite: malformed texture payload")

// DecodeTexture decodes a texture payload into an RGBA image.
func DecodeTexture(data []byte) (*image.RGBA, error) {
	if len(data) < headerSize || [4]byte(data[:4]) != texMagic {
		return nil, fmt.Errorf("%w: bad header", ErrBadTexture)
	}
	format := Format(data[4])
	flags := data[5]
	w := binary.LittleEndian.Uint32(data[8:12])
	h := binary.LittleEndian.Uint32(data[12:16])
	rawSize := binary.LittleEndian.Uint32(data[16:20])
	if w == 0 || h == 0 || w > maxTexDim || h > maxTexDim {
		return nil, fmt.Errorf("%w: size %dx%d", ErrBadTexture, w, h)
	}

	payload := data[headerSize:]
	if flags&flagLZ4 != 0 {
		raw := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil {
			return nil, fmt.Errorf("sprite: lz4: %w", err)
		}
		payload = raw[:n]
	}

	var pix []byte
	switch format {
	case FormatRGBA:
		if uint64(len(payload)) != uint64(w)*uint64(h)*4 {
			return nil, fmt.Errorf("%w: rgba payload %d bytes for %dx%d", ErrBadTexture, len(payload), w, h)
		}
		pix = payload
	case FormatDXT1:
		var err error
		if pix, err = dxt.DecodeDXT1(payload, uint(w), uint(h)); err != nil {
			return nil, fmt.Errorf("sprite: dxt1: %w", err)
		}
	case FormatDXT5:
		var err error
		if pix, err = dxt.DecodeDXT5(payload, uint(w), uint(h)); err != nil {
			return nil, fmt.Errorf("sprite: dxt5: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: format %d", ErrBadTexture, format)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	if len(pix) < len(img.Pix) {
		return nil, fmt.Errorf("%w: decoded %d bytes, want %d", ErrBadTexture, len(pix), len(img.Pix))
	}
	copy(img.Pix, pix)
	return img, nil
}

// EncodeTexture encodes img as an RGBA payload, LZ4-compressed when that
// makes it smaller.
func EncodeTexture(img *image.RGBA) ([]byte, error) {
	b := img.Bounds()
	raw := make([]byte, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		raw = append(raw, img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]...)
	}

	out := make([]byte, headerSize, headerSize+lz4.CompressBlockBound(len(raw)))
	copy(out, texMagic[:])
	out[4] = byte(FormatRGBA)
	binary.LittleEndian.PutUint32(out[8:12], uint32(b.Dx()))
	binary.LittleEndian.PutUint32(out[12:16], uint32(b.Dy()))
	binary.LittleEndian.PutUint32(out[16:20], uint32(len(raw)))

	comp := out[headerSize:cap(out)]
	n, err := lz4.CompressBlock(raw, comp, nil)
	if err != nil {
		return nil, fmt.Errorf("sprite: lz4: %w", err)
	}
	if n == 0 || n >= len(raw) {
		return append(out, raw...), nil
	}
	out[5] = flagLZ4
	return out[:headerSize+n], nil
}

// LoadTexture decodes a texture payload and registers it.
func (r *Registry) LoadTexture(data []byte) (Handle, error) {
	img, err := DecodeTexture(data)
	if err != nil {
		return Handle{}, err
	}
	return r.Load(img)
}
