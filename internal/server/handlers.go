package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/layout"
	"github.com/matzehuels/supplychain/pkg/render"
	"github.com/matzehuels/supplychain/pkg/supplychain"
)

// maxBody limits request bodies.
const maxBody = 1 << 20

type itemResponse struct {
	Item        map[string]any `json:"item"`
	Group       bool           `json:"group"`
	Collapsed   bool           `json:"collapsed"`
	CanCollapse bool           `json:"canCollapse"`
	CanExpand   bool           `json:"canExpand"`
	Children    []chain.ItemID `json:"children,omitempty"`
}

type layoutRequest struct {
	Incremental bool            `json:"incremental"`
	Items       []chain.ItemID  `json:"items"`
	Fixed       chain.ItemID    `json:"fixed"`
	Fit         bool            `json:"fit"`
	Options     *layout.Options `json:"options"`
}

type searchRequest struct {
	Needle string `json:"needle"`
}

type searchResponse struct {
	Needle string         `json:"needle"`
	Hits   []chain.ItemID `json:"hits"`
}

func itemID(r *http.Request) chain.ItemID {
	return chain.ItemID(chi.URLParam(r, "id"))
}

func (s *Server) handleScene(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.model.Scene())
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	id := itemID(r)
	it := s.model.Item(id)
	if it == nil {
		s.writeError(w, errors.New(errors.ErrCodeItemNotFound, "unknown item %q", id))
		return
	}
	resp := itemResponse{
		Item:        it.Map(),
		Group:       s.model.IsGroupItem(id),
		Collapsed:   s.model.IsCollapsed(id),
		CanCollapse: s.model.CanCollapse(id),
		CanExpand:   s.model.CanExpand(id),
	}
	for _, c := range s.model.Children(id) {
		resp.Children = append(resp.Children, c.ID)
	}
	writeJSON(w, http.StatusOK, resp)
}

// itemAction adapts a model operation on one item to a handler that
// responds with the resulting scene.
func (s *Server) itemAction(op func(context.Context, chain.ItemID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := op(r.Context(), itemID(r)); err != nil {
			s.writeError(w, err)
			return
		}
		s.handleScene(w, r)
	}
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	if err := s.model.Highlight(itemID(r)); err != nil {
		s.writeError(w, err)
		return
	}
	s.handleScene(w, r)
}

func (s *Server) handleClearHighlight(w http.ResponseWriter, r *http.Request) {
	s.model.ClearHighlight()
	s.handleScene(w, r)
}

func (s *Server) handleGenealogy(w http.ResponseWriter, r *http.Request) {
	connected, _ := strconv.ParseBool(r.URL.Query().Get("connected"))
	if err := s.model.ShowGenealogy(r.Context(), itemID(r), connected); err != nil {
		s.writeError(w, err)
		return
	}
	s.handleScene(w, r)
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "level"))
		return
	}
	if err := errors.ValidateLevel(n); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.model.ShowLevel(r.Context(), n); err != nil {
		s.writeError(w, err)
		return
	}
	s.handleScene(w, r)
}

func (s *Server) handleShowAll(w http.ResponseWriter, r *http.Request) {
	if err := s.model.ShowAll(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.handleScene(w, r)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Options != nil {
		if err := req.Options.WithDefaults().Validate(); err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "layout options"))
			return
		}
	}
	err := s.model.ApplyLayout(r.Context(), supplychain.LayoutRequest{
		Incremental: req.Incremental,
		Items:       req.Items,
		Fixed:       req.Fixed,
		Fit:         req.Fit,
		Options:     req.Options,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.handleScene(w, r)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.model.SetSearchNeedle(req.Needle)
	writeJSON(w, http.StatusOK, searchResponse{Needle: req.Needle, Hits: s.model.SearchHits()})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	settings := s.model.ExportSettings()
	q := r.URL.Query()
	if v := q.Get("scale"); v != "" {
		if settings.Scale, err = strconv.ParseFloat(v, 64); err != nil || settings.Scale <= 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v))
			return
		}
	}
	if v := q.Get("inline"); v != "" {
		settings.InlineImages, _ = strconv.ParseBool(v)
	}
	out, err := s.model.Export(r.Context(), format, settings)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="supplychain.`+string(format)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func contentType(f render.Format) string {
	switch f {
	case render.FormatSVG:
		return "image/svg+xml"
	case render.FormatPNG:
		return "image/png"
	case render.FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// =============================================================================
// Encoding
// =============================================================================

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code  errors.Code `json:"code,omitempty"`
	Error string      `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: errors.GetCode(err), Error: errors.UserMessage(err)})
}
