// Package teams normalizes provider team display names to the canonical
// abbreviations used as game identity. The table is fixed at build time.
package teams

import (
	"github.com/rs/zerolog/log"

	"pickpool/gradingd/internal/metrics"
)

// abbreviations maps feed display names to canonical codes.
var abbreviations = map[string]string{
	"Arizona Cardinals":     "ARI",
	"Atlanta Falcons":       "ATL",
	"Baltimore Ravens":      "BAL",
	"Buffalo Bills":         "BUF",
	"Carolina Panthers":     "CAR",
	"Chicago Bears":         "CHI",
	"Cincinnati Bengals":    "CIN",
	"Cleveland Browns":      "CLE",
	"Dallas Cowboys":        "DAL",
	"Denver Broncos":        "DEN",
	"Detroit Lions":         "DET",
	"Green Bay Packers":     "GB",
	"Houston Texans":        "HOU",
	"Indianapolis Colts":    "IND",
	"Jacksonville Jaguars":  "JAX",
	"Kansas City Chiefs":    "KC",
	"Las Vegas Raiders":     "LV",
	"Los Angeles Chargers":  "LAC",
	"Los Angeles Rams":      "LAR",
	"Miami Dolphins":        "MIA",
	"Minnesota Vikings":     "MIN",
	"New England Patriots":  "NE",
	"New Orleans Saints":    "NO",
	"New York Giants":       "NYG",
	"New York Jets":         "NYJ",
	"Philadelphia Eagles":   "PHI",
	"Pittsburgh Steelers":   "PIT",
	"San Francisco 49ers":   "SF",
	"Seattle Seahawks":      "SEA",
	"Tampa Bay Buccaneers":  "TB",
	"Tennessee Titans":      "TEN",
	"Washington Commanders": "WAS",
}

// Normalize returns the canonical abbreviation for a feed display name.
// Unmapped names pass through unchanged so that feed drift degrades the
// display, not the sync; each miss is counted for operators to alert on.
func Normalize(name string) string {
	if abbr, ok := abbreviations[name]; ok {
		return abbr
	}
	metrics.UnmappedTeamNames.Inc()
	log.Warn().Str("team", name).Msg("Unmapped team name, passing through")
	return name
}

// Known reports whether a display name (or an already-canonical code) is in
// the mapping table.
func Known(name string) bool {
	if _, ok := abbreviations[name]; ok {
		return true
	}
	for _, abbr := range abbreviations {
		if abbr == name {
			return true
		}
	}
	return false
}
