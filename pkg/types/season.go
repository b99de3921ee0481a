package types

// Season-keyed maps hold the historical value of an attribute per season
// label ("2024", "2025", ...). They live in jsonb columns next to the
// "current" scalar for the same attribute; the two are independently
// writable and the server never derives one from the other.

type SeasonRanks map[string]int

type SeasonRatings map[string]float64

type SeasonGrades map[string]string

type SeasonRosters map[string][]string

// Merge overlays the supplied entries onto the map, leaving sibling season
// keys untouched. A nil receiver yields a fresh map.
func (m SeasonRanks) Merge(in SeasonRanks) SeasonRanks {
	return mergeSeason(m, in)
}

func (m SeasonRatings) Merge(in SeasonRatings) SeasonRatings {
	return mergeSeason(m, in)
}

func (m SeasonGrades) Merge(in SeasonGrades) SeasonGrades {
	return mergeSeason(m, in)
}

func (m SeasonRosters) Merge(in SeasonRosters) SeasonRosters {
	return mergeSeason(m, in)
}

func mergeSeason[M ~map[string]V, V any](dst, src M) M {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(M, len(src))
	}
	for season, value := range src {
		dst[season] = value
	}
	return dst
}
