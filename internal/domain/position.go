package domain

// Position anchor values. A position is stored as the distance from
// whichever viewport edge was nearer at save time, so the same record
// reproduces the same corner placement on any screen size.
const (
	AnchorLeft   = "left"
	AnchorRight  = "right"
	AnchorTop    = "top"
	AnchorBottom = "bottom"
)

// Position encoding units. Only UnitEdge is ever written; the other two
// are deprecated formats kept decodable for records written by old
// clients.
const (
	UnitEdge    = "edge"
	UnitPercent = "percent"
	UnitPixel   = "px"
)

// EdgeAnchoredPosition places a UI element relative to the nearest
// horizontal and vertical viewport edges. Exactly one of Left/Right and
// one of Top/Bottom carries the offset, selected by AnchorH/AnchorV.
//
// Legacy records (Unit "percent" or "px"/empty) carry absolute Left/Top
// values instead and ignore the anchor fields.
type EdgeAnchoredPosition struct {
	AnchorH string  `json:"anchorH,omitempty"`
	AnchorV string  `json:"anchorV,omitempty"`
	Left    float64 `json:"left,omitempty"`
	Right   float64 `json:"right,omitempty"`
	Top     float64 `json:"top,omitempty"`
	Bottom  float64 `json:"bottom,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Unit    string  `json:"unit,omitempty"`
}

// UIPositionSet holds the saved placement of the two overlay elements for
// one site.
type UIPositionSet struct {
	Panel  *EdgeAnchoredPosition `json:"panel,omitempty"`
	Toggle *EdgeAnchoredPosition `json:"toggle,omitempty"`
}

// UIPositionMap maps a site key (see identity.SiteKey) to that site's
// position set. This is the value serialized into the remote settings
// document.
type UIPositionMap map[string]*UIPositionSet

// Viewport is the visible page size, in pixels, of the client asking to
// encode or decode a position.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PixelRect is an absolute element placement on a concrete viewport.
type PixelRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// EncodePosition converts an absolute placement into an edge-anchored
// record, measuring from the nearest edge on each axis.
func EncodePosition(r PixelRect, vp Viewport) *EdgeAnchoredPosition {
	distRight := vp.Width - r.Left - r.Width
	distBottom := vp.Height - r.Top - r.Height

	pos := &EdgeAnchoredPosition{
		AnchorH: AnchorLeft,
		AnchorV: AnchorTop,
		Width:   r.Width,
		Height:  r.Height,
		Unit:    UnitEdge,
	}
	if distRight < r.Left {
		pos.AnchorH = AnchorRight
		pos.Right = distRight
	} else {
		pos.Left = r.Left
	}
	if distBottom < r.Top {
		pos.AnchorV = AnchorBottom
		pos.Bottom = distBottom
	} else {
		pos.Top = r.Top
	}
	return pos
}

// DecodePosition resolves a stored position to absolute pixels on the
// given viewport. Defaults are used when the record has no size, which
// legacy records and toggle positions may not.
func DecodePosition(p *EdgeAnchoredPosition, vp Viewport, defaultW, defaultH float64) PixelRect {
	w := p.Width
	if w == 0 {
		w = defaultW
	}
	h := p.Height
	if h == 0 {
		h = defaultH
	}

	switch p.Unit {
	case UnitEdge:
		r := PixelRect{Width: w, Height: h}
		if p.AnchorH == AnchorRight {
			r.Left = vp.Width - w - p.Right
		} else {
			r.Left = p.Left
		}
		if p.AnchorV == AnchorBottom {
			r.Top = vp.Height - h - p.Bottom
		} else {
			r.Top = p.Top
		}
		return r
	case UnitPercent:
		// Deprecated: offsets stored as a fraction of the viewport.
		return PixelRect{
			Left:   p.Left * vp.Width,
			Top:    p.Top * vp.Height,
			Width:  w,
			Height: h,
		}
	default:
		// Deprecated: raw absolute pixels ("px" or records predating
		// the unit field).
		return PixelRect{Left: p.Left, Top: p.Top, Width: w, Height: h}
	}
}
