package match

import "github.com/hbollon/go-edlib"

// Confidence buckets a similarity score.
type Confidence int

const (
	None   Confidence = iota // score < 0.70
	Low                      // score >= 0.70
	Medium                   // score >= 0.85
	High                     // score >= 0.95
)

func (c Confidence) String() string {
	switch c {
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	default:
		return "none"
	}
}

// Result is the outcome of matching a query against candidate titles.
type Result struct {
	Title      string  // matched candidate, empty when Confidence is None
	Index      int     // candidate index, -1 when Confidence is None
	Score      float64 // Jaro-Winkler similarity, 0.0-1.0
	Confidence Confidence
}

// BestMatch finds the candidate title closest to query. Jaro-Winkler
// favors prefix agreement, which suits film titles where users type the
// start and drop the subtitle.
func BestMatch(query string, candidates []string) Result {
	best := Result{Index: -1}
	if len(candidates) == 0 {
		return best
	}

	normalizedQuery := Normalize(query)
	for i, candidate := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(normalizedQuery, Normalize(candidate)))
		if score > best.Score {
			best.Title = candidate
			best.Index = i
			best.Score = score
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = High
	case best.Score >= 0.85:
		best.Confidence = Medium
	case best.Score >= 0.70:
		best.Confidence = Low
	default:
		best = Result{Index: -1, Score: best.Score}
	}
	return best
}

// Rank orders candidate indices by similarity to query, best first.
// Candidates below the Low threshold are excluded.
func Rank(query string, candidates []string) []Result {
	normalizedQuery := Normalize(query)

	var results []Result
	for i, candidate := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(normalizedQuery, Normalize(candidate)))
		if score < 0.70 {
			continue
		}
		r := Result{Title: candidate, Index: i, Score: score, Confidence: Low}
		if score >= 0.95 {
			r.Confidence = High
		} else if score >= 0.85 {
			r.Confidence = Medium
		}
		results = append(results, r)
	}

	// Insertion sort keeps it stable; candidate lists are small.
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j].Score > results[j-1].Score; j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
	return results
}
