package backend

import "github.com/gogpu/tri/render"

// RecorderDevice is a render.Recorder that satisfies Device.
type RecorderDevice struct {
	*render.Recorder
}

// Close is a no-op.
func (RecorderDevice) Close() error { return nil }

func init() {
	Register(NameRecorder, func(int, int) (Device, error) {
		return RecorderDevice{Recorder: render.NewRecorder()}, nil
	})
}
