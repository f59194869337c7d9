package domain

import "testing"

func TestEncodePositionNearestEdges(t *testing.T) {
	// Panel at (1200, 50) sized 350x500 on a 1600x900 viewport sits
	// nearer the right and top edges.
	vp := Viewport{Width: 1600, Height: 900}
	pos := EncodePosition(PixelRect{Left: 1200, Top: 50, Width: 350, Height: 500}, vp)

	if pos.AnchorH != AnchorRight {
		t.Errorf("AnchorH = %q, want %q", pos.AnchorH, AnchorRight)
	}
	if pos.AnchorV != AnchorTop {
		t.Errorf("AnchorV = %q, want %q", pos.AnchorV, AnchorTop)
	}
	if pos.Right != 50 {
		t.Errorf("Right = %v, want 50", pos.Right)
	}
	if pos.Top != 50 {
		t.Errorf("Top = %v, want 50", pos.Top)
	}
	if pos.Unit != UnitEdge {
		t.Errorf("Unit = %q, want %q", pos.Unit, UnitEdge)
	}
}

func TestEdgeAnchorRoundTrip(t *testing.T) {
	saved := Viewport{Width: 1600, Height: 900}
	rect := PixelRect{Left: 1200, Top: 50, Width: 350, Height: 500}
	pos := EncodePosition(rect, saved)

	// Same viewport reproduces the original placement exactly.
	if got := DecodePosition(pos, saved, 0, 0); got != rect {
		t.Errorf("same-viewport decode = %+v, want %+v", got, rect)
	}

	// A different viewport keeps the same distance from the anchored
	// edges.
	other := Viewport{Width: 2560, Height: 1440}
	got := DecodePosition(pos, other, 0, 0)
	if distRight := other.Width - got.Left - got.Width; distRight != 50 {
		t.Errorf("distance from right edge = %v, want 50", distRight)
	}
	if got.Top != 50 {
		t.Errorf("distance from top edge = %v, want 50", got.Top)
	}
}

func TestEncodePositionBottomLeft(t *testing.T) {
	vp := Viewport{Width: 1600, Height: 900}
	pos := EncodePosition(PixelRect{Left: 20, Top: 800, Width: 38, Height: 38}, vp)

	if pos.AnchorH != AnchorLeft || pos.Left != 20 {
		t.Errorf("horizontal anchor = %q/%v, want left/20", pos.AnchorH, pos.Left)
	}
	if pos.AnchorV != AnchorBottom || pos.Bottom != 62 {
		t.Errorf("vertical anchor = %q/%v, want bottom/62", pos.AnchorV, pos.Bottom)
	}
}

func TestDecodeLegacyPercent(t *testing.T) {
	pos := &EdgeAnchoredPosition{Unit: UnitPercent, Left: 0.25, Top: 0.5, Width: 350, Height: 500}
	got := DecodePosition(pos, Viewport{Width: 1600, Height: 900}, 0, 0)

	if got.Left != 400 {
		t.Errorf("Left = %v, want 400", got.Left)
	}
	if got.Top != 450 {
		t.Errorf("Top = %v, want 450", got.Top)
	}
}

func TestDecodeLegacyPixel(t *testing.T) {
	// Records written before the unit field carry raw pixels.
	for _, unit := range []string{UnitPixel, ""} {
		pos := &EdgeAnchoredPosition{Unit: unit, Left: 120, Top: 80}
		got := DecodePosition(pos, Viewport{Width: 1600, Height: 900}, 350, 500)

		if got.Left != 120 || got.Top != 80 {
			t.Errorf("unit %q: decoded to (%v, %v), want (120, 80)", unit, got.Left, got.Top)
		}
		if got.Width != 350 || got.Height != 500 {
			t.Errorf("unit %q: defaults not applied, got %vx%v", unit, got.Width, got.Height)
		}
	}
}

func TestDecodeAppliesDefaultSize(t *testing.T) {
	pos := &EdgeAnchoredPosition{AnchorH: AnchorRight, AnchorV: AnchorBottom, Right: 10, Bottom: 10, Unit: UnitEdge}
	got := DecodePosition(pos, Viewport{Width: 800, Height: 600}, 38, 38)

	if got.Width != 38 || got.Height != 38 {
		t.Errorf("default size not applied, got %vx%v", got.Width, got.Height)
	}
	if got.Left != 800-38-10 {
		t.Errorf("Left = %v, want %v", got.Left, 800-38-10)
	}
	if got.Top != 600-38-10 {
		t.Errorf("Top = %v, want %v", got.Top, 600-38-10)
	}
}
