// Package httpapi exposes the schedule-search core over a small JSON API:
// GET /api/groups, POST /api/schedules, and GET /api/meeting.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/awesome-schedule/plannable/internal/catalog"
	"github.com/awesome-schedule/plannable/internal/catalogcache"
	"github.com/awesome-schedule/plannable/internal/meeting"
	"github.com/awesome-schedule/plannable/internal/schedule"
)

// NewMux builds the HTTP handler tree, resolving the current catalog via
// cache on each request.
func NewMux(cache catalogcache.Cache[catalog.Catalog]) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/groups", handleGroups(cache))
	mux.HandleFunc("POST /api/schedules", handleSchedules(cache))
	mux.HandleFunc("GET /api/meeting", ParseMeeting)
	return mux
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode httpapi response")
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: message, Kind: kind})
}

func handleGroups(cache catalogcache.Cache[catalog.Catalog]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat, err := cache.Get()
		if err != nil && cat == nil {
			writeError(w, http.StatusServiceUnavailable, "CatalogUnavailable", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"groups": cat.Keys()})
	}
}

type schedulesRequest struct {
	GroupKeys  []string `json:"group_keys"`
	MaxResults *int     `json:"max_results"`
	Seed       *int64   `json:"seed"`
	Filters    struct {
		ForbiddenWindows   []string `json:"forbidden_windows"`
		RequiredStatus     string   `json:"required_status"`
		RequiredInstructor string   `json:"required_instructor"`
	} `json:"filters"`
}

type schedulesResponse struct {
	Schedules []schedule.Schedule `json:"schedules"`
}

func handleSchedules(cache catalogcache.Cache[catalog.Catalog]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req schedulesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "InvalidArguments", "malformed request body: "+err.Error())
			return
		}

		windows := make([]meeting.MeetingTime, 0, len(req.Filters.ForbiddenWindows))
		for _, text := range req.Filters.ForbiddenWindows {
			mt, err := meeting.Parse(text)
			if err != nil {
				writeError(w, http.StatusBadRequest, "MalformedMeeting", err.Error())
				return
			}
			windows = append(windows, mt)
		}

		filters := schedule.Filters{
			ForbiddenWindows:   windows,
			RequiredStatus:     catalog.Status(req.Filters.RequiredStatus),
			RequiredInstructor: req.Filters.RequiredInstructor,
		}

		cat, err := cache.Get()
		if err != nil && cat == nil {
			writeError(w, http.StatusServiceUnavailable, "CatalogUnavailable", err.Error())
			return
		}

		results, err := schedule.FindContext(r.Context(), cat, req.GroupKeys, req.MaxResults, filters, req.Seed)
		if err != nil {
			switch err.(type) {
			case *schedule.UnknownGroupError:
				writeError(w, http.StatusNotFound, "UnknownGroup", err.Error())
			case *schedule.InvalidArgumentsError:
				writeError(w, http.StatusBadRequest, "InvalidArguments", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "Internal", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, schedulesResponse{Schedules: results})
	}
}

// ParseMeeting round-trips a single meeting-time string, exposed for
// filter construction and debugging from the HTTP side.
func ParseMeeting(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	mt, err := meeting.Parse(text)
	if err != nil {
		writeError(w, http.StatusBadRequest, "MalformedMeeting", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mt)
}
