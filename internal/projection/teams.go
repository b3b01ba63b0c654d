package projection

import "strings"

// teamAbbrevToFull maps every slate-sheet abbreviation, including the
// alternate spellings different sheet vendors use, to the canonical
// franchise name carried by the stats feed.
var teamAbbrevToFull = map[string]string{
	"ATL": "Atlanta Hawks",
	"BOS": "Boston Celtics",
	"BKN": "Brooklyn Nets",
	"BRK": "Brooklyn Nets",
	"CHA": "Charlotte Hornets",
	"CHO": "Charlotte Hornets",
	"CHI": "Chicago Bulls",
	"CLE": "Cleveland Cavaliers",
	"DAL": "Dallas Mavericks",
	"DEN": "Denver Nuggets",
	"DET": "Detroit Pistons",
	"GS":  "Golden State Warriors",
	"GSW": "Golden State Warriors",
	"HOU": "Houston Rockets",
	"IND": "Indiana Pacers",
	"LAC": "LA Clippers",
	"LAL": "Los Angeles Lakers",
	"MEM": "Memphis Grizzlies",
	"MIA": "Miami Heat",
	"MIL": "Milwaukee Bucks",
	"MIN": "Minnesota Timberwolves",
	"NO":  "New Orleans Pelicans",
	"NOP": "New Orleans Pelicans",
	"NY":  "New York Knicks",
	"NYK": "New York Knicks",
	"OKC": "Oklahoma City Thunder",
	"ORL": "Orlando Magic",
	"PHI": "Philadelphia 76ers",
	"PHO": "Phoenix Suns",
	"PHX": "Phoenix Suns",
	"POR": "Portland Trail Blazers",
	"SA":  "San Antonio Spurs",
	"SAS": "San Antonio Spurs",
	"SAC": "Sacramento Kings",
	"TOR": "Toronto Raptors",
	"UTA": "Utah Jazz",
	"WAS": "Washington Wizards",
}

// FullTeamName resolves a sheet abbreviation to the canonical franchise
// name.
func FullTeamName(abbrev string) (string, bool) {
	full, ok := teamAbbrevToFull[strings.ToUpper(strings.TrimSpace(abbrev))]
	return full, ok
}

// substitutionPairs are the city-name spellings that differ between the
// schedule feed and the stats feed. Applied one at a time to a lookup
// key that missed.
var substitutionPairs = [][2]string{
	{"los angeles", "la"},
	{"la", "los angeles"},
	{"new york", "ny"},
	{"ny", "new york"},
	{"san antonio", "sa"},
	{"sa", "san antonio"},
	{"golden state", "gs"},
	{"gs", "golden state"},
	{"golden state", "golden st"},
	{"golden st", "golden state"},
	{"new orleans", "no"},
	{"no", "new orleans"},
	{"new orleans", "nola"},
	{"nola", "new orleans"},
	{"oklahoma city", "okc"},
	{"okc", "oklahoma city"},
}

func normalizeTeam(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// TeamResolver maps free-text team names from the schedule or baseline
// onto the canonical names the stat records carry.
type TeamResolver struct {
	byNorm   map[string]string
	nickname map[string][]string
}

// NewTeamResolver indexes the given canonical team names.
func NewTeamResolver(canonical []string) *TeamResolver {
	r := &TeamResolver{
		byNorm:   make(map[string]string, len(canonical)),
		nickname: make(map[string][]string),
	}
	for _, name := range canonical {
		n := normalizeTeam(name)
		if n == "" {
			continue
		}
		if _, seen := r.byNorm[n]; seen {
			continue
		}
		r.byNorm[n] = name
		tokens := strings.Fields(n)
		nick := tokens[len(tokens)-1]
		r.nickname[nick] = append(r.nickname[nick], name)
	}
	return r
}

// Resolve finds the canonical name for a free-text team name: exact
// normalized match first, then city-spelling substitutions, then a
// unique-nickname fallback ("Lakers" resolves as long as only one
// canonical name ends in that word).
func (r *TeamResolver) Resolve(name string) (string, bool) {
	n := normalizeTeam(name)
	if n == "" {
		return "", false
	}
	if canon, ok := r.byNorm[n]; ok {
		return canon, true
	}
	for _, sub := range substitutionPairs {
		if !strings.Contains(n, sub[0]) {
			continue
		}
		candidate := strings.Replace(n, sub[0], sub[1], 1)
		if canon, ok := r.byNorm[candidate]; ok {
			return canon, true
		}
	}
	tokens := strings.Fields(n)
	if matches := r.nickname[tokens[len(tokens)-1]]; len(matches) == 1 {
		return matches[0], true
	}
	return "", false
}
