package pointer

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/gogpu/tri/geom"
)

// X11Source reads the pointer from an X server.
type X11Source struct {
	conn   *xgb.Conn
	window xproto.Window
	root   bool
}

// NewX11Source connects to the display named by $DISPLAY. Positions are
// relative to window, or to the root window when window is 0.
func NewX11Source(window uint32) (*X11Source, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("pointer: connect to X server: %w", err)
	}
	s := &X11Source{conn: conn, window: xproto.Window(window)}
	if window == 0 {
		s.window = xproto.Setup(conn).DefaultScreen(conn).Root
		s.root = true
	}
	return s, nil
}

// Pointer implements Source.
func (s *X11Source) Pointer() (geom.Vec2, bool, error) {
	reply, err := xproto.QueryPointer(s.conn, s.window).Reply()
	if err != nil {
		return geom.Vec2{}, false, fmt.Errorf("pointer: query pointer: %w", err)
	}
	down := reply.Mask&xproto.KeyButMaskButton1 != 0
	if s.root {
		return geom.V2(float32(reply.RootX), float32(reply.RootY)), down, nil
	}
	return geom.V2(float32(reply.WinX), float32(reply.WinY)), down, nil
}

// Close closes the connection.
func (s *X11Source) Close() {
	s.conn.Close()
}
