package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/glitchdraft/draftsync/internal/domain"
	"github.com/glitchdraft/draftsync/internal/engine"
	"github.com/glitchdraft/draftsync/internal/httpserver/deps"
)

// Fallback element sizes for records saved without one.
const (
	defaultPanelWidth   = 350
	defaultPanelHeight  = 500
	defaultToggleWidth  = 48
	defaultToggleHeight = 48
)

// savePositionRequest accepts either an already-encoded position or an
// absolute rect plus the viewport it was measured on; the daemon does
// the edge-anchor encoding in the second case.
type savePositionRequest struct {
	Position *domain.EdgeAnchoredPosition `json:"position,omitempty"`
	Rect     *domain.PixelRect            `json:"rect,omitempty"`
	Viewport *domain.Viewport             `json:"viewport,omitempty"`
}

type resolvedRects struct {
	Panel  *domain.PixelRect `json:"panel,omitempty"`
	Toggle *domain.PixelRect `json:"toggle,omitempty"`
}

type positionsResponse struct {
	engine.PositionsResult
	Resolved *resolvedRects `json:"resolved,omitempty"`
}

// GetPositions returns the saved placements for a site. With vw/vh
// query parameters the stored records are also resolved to absolute
// pixels on that viewport, so the overlay can apply them directly.
func GetPositions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		site := chi.URLParam(r, "site")
		res := d.Engine.LoadPositions(r.Context(), site)

		resp := positionsResponse{PositionsResult: res}
		if vp, ok := viewportFromQuery(r); ok && res.Positions != nil {
			resolved := &resolvedRects{}
			if res.Positions.Panel != nil {
				rect := domain.DecodePosition(res.Positions.Panel, vp, defaultPanelWidth, defaultPanelHeight)
				resolved.Panel = &rect
			}
			if res.Positions.Toggle != nil {
				rect := domain.DecodePosition(res.Positions.Toggle, vp, defaultToggleWidth, defaultToggleHeight)
				resolved.Toggle = &rect
			}
			resp.Resolved = resolved
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// SavePosition stores one element's placement for a site.
func SavePosition(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		site := chi.URLParam(r, "site")
		target := chi.URLParam(r, "target")

		var req savePositionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid request body")
			return
		}

		var pos *domain.EdgeAnchoredPosition
		switch {
		case req.Position != nil:
			pos = req.Position
		case req.Rect != nil && req.Viewport != nil:
			pos = domain.EncodePosition(*req.Rect, *req.Viewport)
		default:
			badRequest(w, "either position or rect+viewport is required")
			return
		}

		writeJSON(w, http.StatusOK, d.Engine.SavePosition(r.Context(), site, target, *pos))
	}
}

func viewportFromQuery(r *http.Request) (domain.Viewport, bool) {
	vw, errW := strconv.ParseFloat(r.URL.Query().Get("vw"), 64)
	vh, errH := strconv.ParseFloat(r.URL.Query().Get("vh"), 64)
	if errW != nil || errH != nil || vw <= 0 || vh <= 0 {
		return domain.Viewport{}, false
	}
	return domain.Viewport{Width: vw, Height: vh}, true
}
