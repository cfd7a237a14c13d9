package models

import "time"

// RawGameRecord is one entry from the odds feed. Team names are provider
// display names, not canonical abbreviations.
type RawGameRecord struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sport_key"`
	CommenceTime time.Time      `json:"commence_time"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	Scores       []RawTeamScore `json:"scores,omitempty"`
	Completed    bool           `json:"completed"`
	Bookmakers   []RawBookmaker `json:"bookmakers"`
}

// RawTeamScore is a per-team score entry on a completed feed record.
type RawTeamScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// RawBookmaker is one provider's set of markets on a game.
type RawBookmaker struct {
	Key     string      `json:"key"`
	Title   string      `json:"title"`
	Markets []RawMarket `json:"markets"`
}

// RawMarket is a single market (spreads, h2h, totals) from a bookmaker.
type RawMarket struct {
	Key      string       `json:"key"`
	Outcomes []RawOutcome `json:"outcomes"`
}

// RawOutcome is one side of a market.
type RawOutcome struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price,omitempty"`
	Point *float64 `json:"point,omitempty"`
}

// HomeSpread scans bookmaker markets for a spread line on the home team.
// First match wins; no disambiguation across providers.
func (r *RawGameRecord) HomeSpread() (float64, bool) {
	for _, book := range r.Bookmakers {
		for _, market := range book.Markets {
			if market.Key != "spreads" {
				continue
			}
			for _, outcome := range market.Outcomes {
				if outcome.Name == r.HomeTeam && outcome.Point != nil {
					return *outcome.Point, true
				}
			}
		}
	}
	return 0, false
}

// FinalScores returns the home and away scores when the record is completed
// and carries both. Feed score entries are keyed by display name.
func (r *RawGameRecord) FinalScores() (home, away int, ok bool) {
	if !r.Completed {
		return 0, 0, false
	}
	var haveHome, haveAway bool
	for _, s := range r.Scores {
		switch s.Name {
		case r.HomeTeam:
			home, haveHome = s.Score, true
		case r.AwayTeam:
			away, haveAway = s.Score, true
		}
	}
	return home, away, haveHome && haveAway
}
