package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/turtlyscope/turtlyscope/pkg/buildinfo"
	"github.com/turtlyscope/turtlyscope/pkg/cache"
	tserrors "github.com/turtlyscope/turtlyscope/pkg/errors"
	"github.com/turtlyscope/turtlyscope/pkg/pipeline"
)

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatTTL:  "text/turtle; charset=utf-8",
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"app":    s.settings.AppName,
		"build":  buildinfo.Get(),
	})
}

func (s *Server) visualize(w http.ResponseWriter, r *http.Request) {
	req, err := decodeVisualize(r, s.settings.PipelineOptions())
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, shared, err := s.execute(r.Context(), req)
	if err != nil {
		if tserrors.HTTPStatus(err) == http.StatusInternalServerError {
			s.logger.Error("visualize failed", "err", err, "request_id", chimiddleware.GetReqID(r.Context()))
		}
		writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", contentTypes[req.Format])
	h.Set(headerCache, cacheHeader(res.CacheInfo, shared))
	if res.Stats.Partial {
		h.Set(headerPartial, strconv.Itoa(res.Stats.Iterations))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(res.Artifacts[req.Format])
}

// execute runs the pipeline, sharing the run with identical in-flight
// requests. The run is detached from the client connection and bounded by
// the request timeout, which yields a partial layout rather than an error.
func (s *Server) execute(ctx context.Context, req visualizeRequest) (*pipeline.Result, bool, error) {
	key, err := cache.HashJSON(struct {
		Text    string           `json:"text"`
		Options pipeline.Options `json:"options"`
	}{req.Text, req.Options})
	if err != nil {
		return nil, false, err
	}

	v, err, shared := s.flight.Do(key, func() (any, error) {
		runCtx := context.WithoutCancel(ctx)
		if d := s.settings.Server.RequestTimeout; d > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(runCtx, d)
			defer cancel()
		}
		return s.runner.Execute(runCtx, req.Text, req.Options)
	})
	if err != nil {
		return nil, shared, err
	}
	return v.(*pipeline.Result), shared, nil
}

func cacheHeader(info pipeline.CacheInfo, shared bool) string {
	state := func(hit bool) string {
		if hit {
			return "hit"
		}
		return "miss"
	}
	v := fmt.Sprintf("graph=%s, layout=%s, render=%s",
		state(info.GraphHit), state(info.LayoutHit), state(info.RenderHit))
	if shared {
		v += ", shared"
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
