// Package airports maps free-text "city[, country]" queries to IATA airport
// code candidates using a reference table loaded once at startup.
package airports

import (
	"fmt"
	"strings"

	"github.com/Domenick1991/travelplanner/internal/domain"
)

const previewLimit = 10

type record struct {
	rec domain.AirportRecord

	// normalized match fields, precomputed at load time
	city    string
	state   string
	name    string
	country string
}

// Resolver is immutable after construction and safe to share between
// concurrent requests without locking.
type Resolver struct {
	records []record
}

func NewResolver(recs []domain.AirportRecord) *Resolver {
	r := &Resolver{records: make([]record, 0, len(recs))}
	for _, rec := range recs {
		if len(rec.Code) != 3 {
			continue
		}
		r.records = append(r.records, record{
			rec:     rec,
			city:    normalize(rec.City),
			state:   normalize(rec.State),
			name:    normalize(rec.Name),
			country: normalize(rec.Country),
		})
	}
	return r
}

func (r *Resolver) Len() int {
	return len(r.records)
}

// Resolve returns candidate (label, code) pairs for a "city[, country]"
// query, deduplicated by code in table order. A query matching nothing yields
// an empty slice, never an error: the caller should ask the user to
// disambiguate.
func (r *Resolver) Resolve(query string) []domain.Candidate {
	place, country := splitQuery(query)
	if place == "" {
		return nil
	}

	matched := r.exactMatches(place)
	if len(matched) == 0 {
		matched = r.looseMatches(place)
	}
	if country != "" {
		matched = filterCountry(matched, country)
	}

	seen := make(map[string]bool, len(matched))
	candidates := make([]domain.Candidate, 0, len(matched))
	for _, m := range matched {
		if seen[m.rec.Code] {
			continue
		}
		seen[m.rec.Code] = true
		candidates = append(candidates, domain.Candidate{
			Label: candidateLabel(m.rec),
			Code:  m.rec.Code,
		})
	}
	return candidates
}

// Preview returns up to previewLimit loosely matching reference rows, used
// for diagnostics when Resolve comes back empty.
func (r *Resolver) Preview(query string) []domain.AirportRecord {
	place, _ := splitQuery(query)
	if place == "" {
		return nil
	}

	// Loosen progressively: full place, then its first token.
	terms := []string{place}
	if fields := strings.Fields(place); len(fields) > 1 {
		terms = append(terms, fields[0])
	}

	var rows []domain.AirportRecord
	seen := make(map[string]bool)
	for _, term := range terms {
		for _, rec := range r.looseMatches(term) {
			if seen[rec.rec.Code] {
				continue
			}
			seen[rec.rec.Code] = true
			rows = append(rows, rec.rec)
			if len(rows) >= previewLimit {
				return rows
			}
		}
	}

	// Nothing even close: show a sample of the table so the user can see
	// what kind of names it holds.
	if len(rows) == 0 {
		for i := 0; i < len(r.records) && i < previewLimit; i++ {
			rows = append(rows, r.records[i].rec)
		}
	}
	return rows
}

func (r *Resolver) exactMatches(place string) []record {
	var out []record
	for _, rec := range r.records {
		if rec.city == place || rec.state == place {
			out = append(out, rec)
		}
	}
	return out
}

func (r *Resolver) looseMatches(place string) []record {
	var out []record
	for _, rec := range r.records {
		if strings.Contains(rec.city, place) ||
			strings.Contains(rec.state, place) ||
			strings.Contains(rec.name, place) {
			out = append(out, rec)
		}
	}
	return out
}

func filterCountry(recs []record, country string) []record {
	var out []record
	for _, rec := range recs {
		if rec.country == country || strings.Contains(rec.country, country) {
			out = append(out, rec)
		}
	}
	return out
}

func splitQuery(query string) (place, country string) {
	place = query
	if idx := strings.LastIndex(query, ","); idx >= 0 {
		place, country = query[:idx], query[idx+1:]
	}
	place = applyAlias(normalize(place))
	country = applyAlias(normalize(country))
	return place, country
}

func candidateLabel(rec domain.AirportRecord) string {
	location := rec.City
	if location == "" {
		location = rec.State
	}
	return fmt.Sprintf("%s, %s - %s (%s)", location, rec.Country, rec.Name, rec.Code)
}
