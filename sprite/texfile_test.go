package sprite

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/tri/render"
)

func TestTextureRoundTrip(t *testing.T) {
	// A uniform image compresses well, so the payload takes the LZ4 path.
	img := solid(64, 64, color.RGBA{10, 20, 30, 255})
	data, err := EncodeTexture(img)
	if err != nil {
		t.Fatal(err)
	}
	if data[5]&flagLZ4 == 0 {
		t.Error("uniform image was not LZ4 compressed")
	}
	if len(data) >= headerSize+len(img.Pix) {
		t.Errorf("compressed size %d not smaller than raw %d", len(data), len(img.Pix))
	}
	got, err := DecodeTexture(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Pix, img.Pix) {
		t.Error("decoded pixels differ")
	}
}

func TestTextureRawPayload(t *testing.T) {
	img := solid(2, 1, color.RGBA{1, 2, 3, 4})
	data := make([]byte, headerSize)
	copy(data, "TTEX")
	data[4] = byte(FormatRGBA)
	binary.LittleEndian.PutUint32(data[8:], 2)
	binary.LittleEndian.PutUint32(data[12:], 1)
	binary.LittleEndian.PutUint32(data[16:], 8)
	data = append(data, img.Pix...)

	got, err := DecodeTexture(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.RGBAAt(1, 0) != (color.RGBA{1, 2, 3, 4}) {
		t.Errorf("pixel = %v", got.RGBAAt(1, 0))
	}
}

func TestTextureDXT1(t *testing.T) {
	// One 4x4 block: both endpoint colors pure red (RGB565 0xF800), all
	// indices zero.
	block := []byte{0x00, 0xF8, 0x00, 0xF8, 0, 0, 0, 0}
	data := make([]byte, headerSize)
	copy(data, "TTEX")
	data[4] = byte(FormatDXT1)
	binary.LittleEndian.PutUint32(data[8:], 4)
	binary.LittleEndian.PutUint32(data[12:], 4)
	binary.LittleEndian.PutUint32(data[16:], uint32(len(block)))
	data = append(data, block...)

	img, err := DecodeTexture(data)
	if err != nil {
		t.Fatal(err)
	}
	c := img.RGBAAt(0, 0)
	if c.R < 200 || c.G > 10 || c.B > 10 {
		t.Errorf("pixel = %v, want red", c)
	}
}

func TestTextureErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short", []byte("TTEX")},
		{"bad magic", append([]byte("XXXX"), make([]byte, 16)...)},
		{"zero size", append([]byte("TTEX"), make([]byte, 16)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTexture(tt.data); !errors.Is(err, ErrBadTexture) {
				t.Errorf("err = %v, want ErrBadTexture", err)
			}
		})
	}
}

func TestLoadTexture(t *testing.T) {
	reg := NewRegistry(render.NewRecorder())
	data, _ := EncodeTexture(solid(3, 3, color.RGBA{A: 255}))
	h, err := reg.LoadTexture(data)
	if err != nil {
		t.Fatal(err)
	}
	if info, ok := reg.Resolve(h); !ok || info.Size.X != 3 {
		t.Errorf("Resolve = %+v, %v", info, ok)
	}
}
