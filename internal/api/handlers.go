package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"parkdash/internal/auth"
	"parkdash/internal/dashboard"
	"parkdash/internal/events"
	"parkdash/internal/export"
	"parkdash/internal/metrics"
	"parkdash/internal/models"
	"parkdash/internal/store"
)

type sessionContextKey struct{}

func withSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

func sessionFromContext(ctx context.Context) *models.Session {
	session, _ := ctx.Value(sessionContextKey{}).(*models.Session)
	return session
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"loaded_at": s.svc.LoadedAt(),
	})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.authn.Authenticate(body.Email, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			metrics.IncLogin("rejected")
			_ = s.bus.PublishJSON(events.EventLoginFailed, events.LoginFailedPayload{
				Email:      body.Email,
				RemoteAddr: clientKey(r),
			})
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	session, err := s.sessions.Create(r.Context(), user)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create session")
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	metrics.IncLogin("ok")
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Auth.CookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(s.sessions.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"token": session.Token,
		"user":  session.User,
	})
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.sessions.Destroy(r.Context(), s.sessionToken(r)); err != nil {
		s.logger.Error().Err(err).Msg("failed to destroy session")
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *HTTPServer) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	session := sessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user": session.User})
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if r.URL.Query().Get("refresh") == "1" {
		if err := s.svc.Load(r.Context()); err != nil {
			s.logger.Error().Err(err).Msg("snapshot refresh failed")
			writeError(w, http.StatusInternalServerError, "failed to refresh data")
			return
		}
	}

	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	srt := parseSort(r)
	page, pageSize := parsePagination(r, s.cfg.Dashboard.DefaultPageSize)

	result := s.svc.Query(filter, srt, page, pageSize, time.Now())
	writeJSON(w, http.StatusOK, map[string]any{
		"bookings":    result.Page.Items,
		"page":        result.Page.Number,
		"total_pages": result.Page.TotalPages,
		"total_items": result.Page.TotalItems,
		"sort":        result.Sort.Key,
		"direction":   string(result.Sort.Direction),
	})
}

func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/v1/bookings/"
	id := strings.TrimPrefix(r.URL.Path, prefix)
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session := sessionFromContext(r.Context())
	if err := s.svc.Delete(r.Context(), id, session.User.Email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.IncDelete("not_found")
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		metrics.IncDelete("error")
		s.logger.Error().Err(err).Str("record_id", id).Msg("delete failed")
		writeError(w, http.StatusInternalServerError, "failed to delete booking")
		return
	}

	metrics.IncDelete("ok")
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

func (s *HTTPServer) handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Options())
}

func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.svc.Stats(filter, time.Now()))
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		writeError(w, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	srt := parseSort(r)
	now := time.Now()
	records := dashboard.ApplySort(dashboard.Apply(s.svc.Records(), filter, now), srt)

	var data []byte
	var mimeType string
	switch format {
	case "csv":
		data, err = export.WriteCSV(records, now)
		mimeType = export.MIMECSV
	case "xlsx":
		data, err = export.WriteXLSX(records, now)
		mimeType = export.MIMEXLSX
	}
	if err != nil {
		s.logger.Error().Err(err).Str("format", format).Msg("export failed")
		writeError(w, http.StatusInternalServerError, "failed to generate export")
		return
	}

	filename := export.Filename(format, now)
	metrics.IncExport(format)
	_ = s.bus.PublishJSON(events.EventExportCreated, events.ExportCreatedPayload{
		Format:   format,
		Rows:     len(records),
		Filename: filename,
	})

	if r.URL.Query().Get("deliver") == "1" && s.deliverer != nil {
		if err := s.deliverer.Deliver(r.Context(), filename, mimeType, data); err != nil {
			s.logger.Error().Err(err).Str("filename", filename).Msg("export delivery failed")
			writeError(w, http.StatusInternalServerError, "failed to deliver export")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "delivered",
			"filename": filename,
			"rows":     len(records),
		})
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// parseFilter reads the filter query parameters. Dates are calendar
// days; the range is inclusive on both ends.
func parseFilter(r *http.Request) (dashboard.Filter, error) {
	filter := dashboard.NewFilter()
	q := r.URL.Query()

	if raw := strings.TrimSpace(q.Get("start")); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("invalid start date; expected YYYY-MM-DD")
		}
		filter.Start = t
	}
	if raw := strings.TrimSpace(q.Get("end")); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("invalid end date; expected YYYY-MM-DD")
		}
		filter.End = t
	}
	if raw := strings.TrimSpace(q.Get("parking")); raw != "" {
		filter.ParkingName = raw
	}
	if raw := strings.TrimSpace(q.Get("vehicle_type")); raw != "" {
		filter.VehicleType = raw
	}
	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		filter.Status = raw
	}
	filter.Search = q.Get("q")

	return filter, nil
}

func parseSort(r *http.Request) dashboard.Sort {
	srt := dashboard.DefaultSort()
	q := r.URL.Query()

	if key := strings.TrimSpace(q.Get("sort")); key != "" {
		srt.Key = key
	}
	switch strings.ToLower(q.Get("dir")) {
	case "asc":
		srt.Direction = dashboard.DirAsc
	case "desc":
		srt.Direction = dashboard.DirDesc
	}
	return srt
}

// parsePagination falls back to the configured page size when the
// request carries none; Paginate still clamps to the allowed sizes.
func parsePagination(r *http.Request, defaultSize int) (page, pageSize int) {
	q := r.URL.Query()
	page = 1
	if raw := q.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}
	pageSize = defaultSize
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	if raw := q.Get("per_page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			pageSize = n
		}
	}
	return page, pageSize
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
