package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/pnl"
	"github.com/rustyeddy/tradejournal/trade"
)

const maxBody = 1 << 20

type closeRequest struct {
	ExitPrice decimal.NullDecimal `json:"exit_price"`
	ClosedAt  time.Time           `json:"closed_at"`
}

type insightsResponse struct {
	Insights []string `json:"insights"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	trades, ok := s.listTrades(w, r)
	if !ok {
		return
	}
	if trades == nil {
		trades = []trade.Trade{}
	}
	writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	var t trade.Trade
	if !decodeBody(w, r, &t) {
		return
	}
	if err := s.store.CreateTrade(r.Context(), &t); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.GetTrade(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	var t trade.Trade
	if !decodeBody(w, r, &t) {
		return
	}
	t.ID = r.PathValue("id")
	if err := s.store.UpdateTrade(r.Context(), &t); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTrade(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCloseTrade(w http.ResponseWriter, r *http.Request) {
	var req closeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.ExitPrice.Valid {
		writeError(w, http.StatusBadRequest, "exit_price is required")
		return
	}

	t, err := s.store.CloseTrade(r.Context(), r.PathValue("id"), req.ExitPrice.Decimal, req.ClosedAt)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	trades, ok := s.listTrades(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, pnl.Compute(trades))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	trades, ok := s.listTrades(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, pnl.Summarize(trades))
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	trades, ok := s.listTrades(w, r)
	if !ok {
		return
	}
	out := pnl.Insights(trades)
	if out == nil {
		out = []string{}
	}
	writeJSON(w, http.StatusOK, insightsResponse{Insights: out})
}

func (s *Server) handleEquity(w http.ResponseWriter, r *http.Request) {
	trades, ok := s.listTrades(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, pnl.EquityCurve(trades))
}

// listTrades loads the trades selected by the query string. On failure
// it has already written the response.
func (s *Server) listTrades(w http.ResponseWriter, r *http.Request) ([]trade.Trade, bool) {
	q := r.URL.Query()
	f, err := journal.ParseFilter(q.Get("symbol"), q.Get("status"), q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	trades, err := s.store.ListTrades(r.Context(), f)
	if err != nil {
		s.writeStoreError(w, err)
		return nil, false
	}
	return trades, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, journal.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, journal.ErrDuplicate), errors.Is(err, journal.ErrAlreadyClosed):
		writeError(w, http.StatusConflict, err.Error())
	case trade.IsInvalid(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("journal request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
