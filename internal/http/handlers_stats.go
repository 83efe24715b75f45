package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Rapou7/YonkiStats/internal/core"
	"github.com/Rapou7/YonkiStats/internal/i18n"
	"github.com/Rapou7/YonkiStats/internal/stats"
	"github.com/shopspring/decimal"
)

type heatmapCellResponse struct {
	Date       core.Day        `json:"date"`
	Total      decimal.Decimal `json:"total"`
	Entries    []core.Entry    `json:"entries"`
	Intensity  float64         `json:"intensity"`
	Opacity    float64         `json:"opacity"`
	Categories []core.Category `json:"categories"`
	Colors     []string        `json:"colors"`
	Row        int             `json:"row"`
	Col        int             `json:"col"`
}

type heatmapResponse struct {
	Cells         []heatmapCellResponse `json:"cells"`
	Weeks         int                   `json:"weeks"`
	MaxCategories int                   `json:"maxCategories"`
}

type seriesPointResponse struct {
	Date  core.Day        `json:"date"`
	Value decimal.Decimal `json:"value"`
	Label string          `json:"label,omitempty"`
}

type totalsResponse struct {
	Last7Days  decimal.Decimal `json:"last7Days"`
	Last30Days decimal.Decimal `json:"last30Days"`
	Last90Days decimal.Decimal `json:"last90Days"`
}

type summaryResponse struct {
	TotalSpent      decimal.Decimal `json:"totalSpent"`
	TotalGrams      decimal.Decimal `json:"totalGrams"`
	AvgMonthlySpend decimal.Decimal `json:"avgMonthlySpend"`
	MonthsTracked   int             `json:"monthsTracked"`
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	days := stats.DefaultHeatmapDays
	if v := strings.TrimSpace(r.URL.Query().Get("days")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 366 {
			writeErrorBody(w, http.StatusBadRequest, "days must be between 1 and 366")
			return
		}
		days = n
	}

	today := s.today()
	key := "heatmap:" + strconv.Itoa(days) + ":" + today.String()
	if cached, ok := s.heatmapCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	entries, err := s.repo.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	hm := stats.BuildHeatmap(entries, today, days)
	resp := heatmapResponse{
		Cells:         make([]heatmapCellResponse, 0, len(hm.Cells)),
		Weeks:         hm.Weeks,
		MaxCategories: hm.MaxCategories,
	}
	for _, c := range hm.Cells {
		cell := heatmapCellResponse{
			Date:       c.Day,
			Total:      c.Total,
			Entries:    c.Entries,
			Intensity:  c.Intensity,
			Opacity:    c.Opacity,
			Categories: c.Categories,
			Colors:     c.Colors,
			Row:        c.Row,
			Col:        c.Col,
		}
		if cell.Entries == nil {
			cell.Entries = []core.Entry{}
		}
		if cell.Categories == nil {
			cell.Categories = []core.Category{}
		}
		if cell.Colors == nil {
			cell.Colors = []string{}
		}
		resp.Cells = append(resp.Cells, cell)
	}

	s.heatmapCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	period, err := stats.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	loc := s.prefs.Current().Language
	if v := r.URL.Query().Get("lang"); v != "" {
		loc = i18n.Parse(v)
	}

	today := s.today()
	key := "series:" + string(period) + ":" + string(loc) + ":" + today.String()
	if cached, ok := s.seriesCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	entries, err := s.repo.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	points := stats.Series(entries, today, period, loc)
	resp := make([]seriesPointResponse, 0, len(points))
	for _, p := range points {
		resp = append(resp, seriesPointResponse{Date: p.Day, Value: p.Value, Label: p.Label})
	}

	s.seriesCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	entries, err := s.repo.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	t := stats.TotalsFor(entries, s.today())
	writeJSON(w, http.StatusOK, totalsResponse{
		Last7Days:  t.Days7,
		Last30Days: t.Days30,
		Last90Days: t.Days90,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	key := "summary:" + today.String()
	if cached, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	entries, err := s.repo.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	sum := stats.Summarize(entries, today)
	resp := summaryResponse{
		TotalSpent:      sum.TotalSpent,
		TotalGrams:      sum.TotalGrams,
		AvgMonthlySpend: sum.AvgMonthlySpend,
		MonthsTracked:   sum.MonthsTracked,
	}

	s.summaryCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}
