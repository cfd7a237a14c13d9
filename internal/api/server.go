// Package api exposes the pool's read and submission endpoints. Auth and
// user management live in front of this service; handlers here trust the
// caller-supplied user id.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"pickpool/gradingd/internal/cache"
	"pickpool/gradingd/internal/grading"
	"pickpool/gradingd/internal/models"
	"pickpool/gradingd/internal/picks"
	"pickpool/gradingd/internal/repository"
	"pickpool/gradingd/internal/standings"
	"pickpool/gradingd/internal/weeks"
)

// Server bundles the handlers' dependencies.
type Server struct {
	db        *repository.Database
	picks     *picks.Service
	standings *standings.Aggregator
	grading   *grading.Engine
	cache     *cache.RedisCache
}

// NewServer creates an API server. cache may be nil when redis is down;
// the invalidation endpoint then reports unavailable.
func NewServer(db *repository.Database, pickSvc *picks.Service, agg *standings.Aggregator, grader *grading.Engine, teamCache *cache.RedisCache) *Server {
	return &Server{
		db:        db,
		picks:     pickSvc,
		standings: agg,
		grading:   grader,
		cache:     teamCache,
	}
}

// Router builds the chi router for the service.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/games", s.handleGames)
		r.Post("/users/{userID}/picks", s.handleSubmitPicks)
		r.Get("/users/{userID}/picks", s.handleUserPicks)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/games/{gameID}/final", s.handleMarkFinal)
			r.Post("/cache/invalidate", s.handleInvalidateCache)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Health(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleLeaderboard serves ranked standings for a week or the season.
// Query params: season (defaults to the current calendar season), week
// (omit for season-to-date).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	scope := standings.Scope{
		Season: queryInt(r, "season", weeks.SeasonYear(time.Now())),
		Week:   queryInt(r, "week", 0),
	}

	entries, err := s.standings.ComputeLeaderboard(r.Context(), scope)
	if err != nil {
		log.Error().Err(err).Msg("Leaderboard computation failed")
		respondError(w, http.StatusInternalServerError, "failed to compute leaderboard")
		return
	}

	type entryJSON struct {
		Rank       int     `json:"rank"`
		UserID     int64   `json:"user_id"`
		Correct    int     `json:"correct"`
		Total      int     `json:"total"`
		Percentage float64 `json:"percentage"`
	}

	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON{
			Rank:       e.Rank,
			UserID:     e.UserID,
			Correct:    e.Correct,
			Total:      e.Total,
			Percentage: e.Percentage(),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"season":  scope.Season,
		"week":    scope.Week,
		"entries": out,
	})
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	season := queryInt(r, "season", weeks.SeasonYear(time.Now()))
	week := queryInt(r, "week", 0)
	if week <= 0 {
		respondError(w, http.StatusBadRequest, "week query parameter is required")
		return
	}

	games, err := s.db.Games.GetByWeek(r.Context(), season, week)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list games")
		respondError(w, http.StatusInternalServerError, "failed to list games")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"season": season,
		"week":   week,
		"games":  gamesJSON(games),
	})
}

// handleSubmitPicks applies a batch of selections for a user. The response
// is always 200: per-entry problems are counted, logged and dropped, never
// surfaced as a request failure.
func (s *Server) handleSubmitPicks(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var body struct {
		Picks map[string]string `json:"picks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	selections := make(map[int64]string, len(body.Picks))
	for rawID, team := range body.Picks {
		gameID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			log.Warn().Str("game_id", rawID).Msg("Dropping pick with non-numeric game id")
			continue
		}
		selections[gameID] = team
	}

	result := s.picks.Submit(r.Context(), userID, selections)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"accepted":  result.Accepted,
		"duplicate": result.Duplicate,
		"rejected":  result.Rejected,
	})
}

func (s *Server) handleUserPicks(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	season := queryInt(r, "season", weeks.SeasonYear(time.Now()))
	week := queryInt(r, "week", 0)
	if week <= 0 {
		respondError(w, http.StatusBadRequest, "week query parameter is required")
		return
	}

	userPicks, err := s.db.Picks.ListByUserWeek(r.Context(), userID, season, week)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list user picks")
		respondError(w, http.StatusInternalServerError, "failed to list picks")
		return
	}

	type pickJSON struct {
		GameID       int64  `json:"game_id"`
		SelectedTeam string `json:"selected_team"`
		IsCorrect    *bool  `json:"is_correct"`
	}

	out := make([]pickJSON, 0, len(userPicks))
	for _, p := range userPicks {
		pj := pickJSON{GameID: p.GameID, SelectedTeam: p.SelectedTeam}
		if p.IsCorrect.Valid {
			v := p.IsCorrect.Bool
			pj.IsCorrect = &v
		}
		out = append(out, pj)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"picks": out})
}

// handleMarkFinal records final scores entered by an admin and immediately
// runs a grading pass so results show up without waiting for the ticker.
func (s *Server) handleMarkFinal(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(chi.URLParam(r, "gameID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	var body struct {
		HomeScore int32 `json:"home_score"`
		AwayScore int32 `json:"away_score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.db.Games.MarkFinal(r.Context(), gameID, body.HomeScore, body.AwayScore); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "game not found")
			return
		}
		log.Error().Err(err).Int64("game_id", gameID).Msg("Failed to mark game final")
		respondError(w, http.StatusInternalServerError, "failed to mark game final")
		return
	}

	graded, err := s.grading.GradePickedGames(r.Context())
	if err != nil {
		// Scores are recorded; grading will catch up on the next pass.
		log.Error().Err(err).Msg("Post-final grading pass failed")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game_id": gameID,
		"graded":  graded,
	})
}

func (s *Server) handleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		respondError(w, http.StatusServiceUnavailable, "cache not available")
		return
	}

	if err := s.cache.InvalidateAll(r.Context()); err != nil {
		log.Error().Err(err).Msg("Cache invalidation failed")
		respondError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func gamesJSON(games []*models.Game) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(games))
	for _, g := range games {
		item := map[string]interface{}{
			"id":        g.ID,
			"home_team": g.HomeTeam,
			"away_team": g.AwayTeam,
			"kickoff":   g.Kickoff,
			"status":    string(g.Status),
		}
		if g.Spread.Valid {
			item["spread"] = g.Spread.Float64
		}
		if g.HasScores() {
			item["home_score"] = g.HomeScore.Int32
			item["away_score"] = g.AwayScore.Int32
		}
		out = append(out, item)
	}
	return out
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
