package server

import (
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pln-iconplus/cvo-cli/internal/model"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"customers": len(s.records),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var totalRevenue, totalPotential int64
	quadrants := make(map[string]int)
	priorities := make(map[string]int)
	segments := make(map[string]int)
	for i := range s.records {
		rec := &s.records[i]
		totalRevenue += rec.Revenue
		totalPotential += rec.PotentialRevenue
		quadrants[rec.Quadrant]++
		priorities[rec.Priority]++
		segments[rec.BandwidthSegment]++
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"customers":         len(s.records),
		"total_revenue":     totalRevenue,
		"potential_revenue": totalPotential,
		"quadrants":         quadrants,
		"priorities":        priorities,
		"segments":          segments,
	})
}

type customerPage struct {
	Customers []model.DashboardRecord `json:"customers"`
	Total     int                     `json:"total"`
	Page      int                     `json:"page"`
	PageSize  int                     `json:"page_size"`
}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filtered := s.filter(q)
	sortRecords(filtered, q.Get("sort"), q.Get("order"))

	page := intParam(q, "page", 1)
	size := intParam(q, "page_size", defaultPageSize)
	if size > maxPageSize {
		size = maxPageSize
	}

	total := len(filtered)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, customerPage{
		Customers: filtered[start:end],
		Total:     total,
		Page:      page,
		PageSize:  size,
	})
}

func (s *Server) handleCustomer(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer name")
		return
	}
	for i := range s.records {
		if strings.EqualFold(s.records[i].CustomerName, name) {
			writeJSON(w, http.StatusOK, s.records[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "customer not found")
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.countBy(func(rec *model.DashboardRecord) string {
		return rec.StrategyLabel
	}))
}

func (s *Server) handlePriorities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.countBy(func(rec *model.DashboardRecord) string {
		return rec.Priority
	}))
}

func (s *Server) handleIndustries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.countBy(func(rec *model.DashboardRecord) string {
		return rec.Industry
	}))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	low := strings.ToLower(q)

	var matches []model.DashboardRecord
	for i := range s.records {
		if strings.Contains(strings.ToLower(s.records[i].CustomerName), low) {
			matches = append(matches, s.records[i])
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   q,
		"total":   len(matches),
		"results": matches,
	})
}

func (s *Server) filter(q url.Values) []model.DashboardRecord {
	strategy := q.Get("strategy")
	priority := q.Get("priority")
	quadrant := q.Get("quadrant")
	industry := q.Get("industry")
	segment := q.Get("segment")

	var out []model.DashboardRecord
	for i := range s.records {
		rec := &s.records[i]
		if strategy != "" && !strings.EqualFold(rec.StrategyLabel, strategy) {
			continue
		}
		if priority != "" && !strings.EqualFold(rec.Priority, priority) {
			continue
		}
		if quadrant != "" && !strings.EqualFold(rec.Quadrant, quadrant) {
			continue
		}
		if industry != "" && !strings.EqualFold(rec.Industry, industry) {
			continue
		}
		if segment != "" && !strings.EqualFold(rec.BandwidthSegment, segment) {
			continue
		}
		out = append(out, *rec)
	}
	return out
}

func (s *Server) countBy(key func(*model.DashboardRecord) string) map[string]int {
	out := make(map[string]int)
	for i := range s.records {
		if k := key(&s.records[i]); k != "" {
			out[k]++
		}
	}
	return out
}

func sortRecords(recs []model.DashboardRecord, field, order string) {
	desc := order != "asc"
	less := func(i, j int) bool { return recs[i].CustomerName < recs[j].CustomerName }

	switch field {
	case "revenue":
		less = func(i, j int) bool { return recs[i].Revenue < recs[j].Revenue }
	case "potential":
		less = func(i, j int) bool { return recs[i].PotentialRevenue < recs[j].PotentialRevenue }
	case "upsell":
		less = func(i, j int) bool { return recs[i].UpsellScore < recs[j].UpsellScore }
	case "score":
		less = func(i, j int) bool { return topOfferScore(&recs[i]) < topOfferScore(&recs[j]) }
	case "", "name":
		desc = order == "desc"
	}

	if desc {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(recs, less)
}

func topOfferScore(rec *model.DashboardRecord) float64 {
	if len(rec.Recommendations) == 0 {
		return 0
	}
	return rec.Recommendations[0].Score
}

func intParam(q url.Values, name string, def int) int {
	v, err := strconv.Atoi(q.Get(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}
