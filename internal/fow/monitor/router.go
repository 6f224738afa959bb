package monitor

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/fogofwar/internal/fow"
	"github.com/banshee-data/fogofwar/internal/fow/scene"
	"github.com/banshee-data/fogofwar/internal/httputil"
)

const (
	defaultImageSize = 8 * vg.Inch
	maxImageInches   = 40
)

type handlers struct {
	src Source
}

// NewRouter returns the monitor routes:
//
//	GET /stats                 engine counts as JSON
//	GET /teams/{team}/grid     team grid snapshot as JSON
//	GET /teams/{team}/heatmap  visibility degree heatmap (HTML)
//	GET /debug.png             debug overlay; optional ?inches=N
//	GET /scene                 block-format scene export
func NewRouter(src Source) *mux.Router {
	h := &handlers{src: src}
	r := mux.NewRouter()
	r.HandleFunc("/stats", h.stats).Methods(http.MethodGet)
	r.HandleFunc("/teams/{team:[0-9]+}/grid", h.grid).Methods(http.MethodGet)
	r.HandleFunc("/teams/{team:[0-9]+}/heatmap", h.heatmap).Methods(http.MethodGet)
	r.HandleFunc("/debug.png", h.debugPNG).Methods(http.MethodGet)
	r.HandleFunc("/scene", h.scene).Methods(http.MethodGet)
	return r
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.src.Stats())
}

func (h *handlers) teamGrid(w http.ResponseWriter, r *http.Request) (fow.GridSnapshot, bool) {
	team, err := strconv.Atoi(mux.Vars(r)["team"])
	if err != nil {
		httputil.BadRequest(w, "invalid team")
		return fow.GridSnapshot{}, false
	}
	snap, err := h.src.TeamGrid(team)
	switch {
	case errors.Is(err, fow.ErrTeamOutOfRange):
		httputil.NotFound(w, err.Error())
		return fow.GridSnapshot{}, false
	case errors.Is(err, fow.ErrNotSized):
		httputil.ServiceUnavailable(w, err.Error())
		return fow.GridSnapshot{}, false
	case err != nil:
		httputil.InternalServerError(w, err.Error())
		return fow.GridSnapshot{}, false
	}
	return snap, true
}

func (h *handlers) grid(w http.ResponseWriter, r *http.Request) {
	if snap, ok := h.teamGrid(w, r); ok {
		httputil.WriteJSON(w, http.StatusOK, snap)
	}
}

func (h *handlers) heatmap(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.teamGrid(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := RenderDegreeHeatmap(&buf, snap); err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteBody(w, "text/html; charset=utf-8", buf.Bytes())
}

func (h *handlers) debugPNG(w http.ResponseWriter, r *http.Request) {
	size := defaultImageSize
	if s := r.URL.Query().Get("inches"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > maxImageInches {
			httputil.BadRequest(w, fmt.Sprintf("inches must be 1..%d", maxImageInches))
			return
		}
		size = vg.Length(n) * vg.Inch
	}

	var buf bytes.Buffer
	if err := RenderDebugFrame(&buf, h.src.DebugFrame(), size, size); err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteBody(w, "image/png", buf.Bytes())
}

func (h *handlers) scene(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	kv := scene.NewKVWriter(&buf)
	if err := h.src.ExportScene(kv); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fow.ErrNotSized) {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSONError(w, status, err.Error())
		return
	}
	if err := kv.Err(); err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteBody(w, "text/plain; charset=utf-8", buf.Bytes())
}
