package join

import (
	"github.com/wonny/proptier/internal/contracts"
)

// AreaIndex is the deduplicated postcode -> area code mapping
// Exported fields so the index can be cached as JSON.
type AreaIndex struct {
	Areas                map[string]string `json:"areas"`
	DuplicateLinks       int               `json:"duplicate_links"`
	ConflictingPostcodes int               `json:"conflicting_postcodes"`
}

// BuildAreaIndex normalizes and deduplicates area links
// Identical pairs collapse silently (counted). A postcode seen with a second,
// different area code keeps the first one and counts as a conflict.
func BuildAreaIndex(links []contracts.AreaLink) *AreaIndex {
	idx := &AreaIndex{Areas: make(map[string]string, len(links))}
	for _, link := range links {
		key := NormalizePostcode(link.Postcode)
		if key == "" || link.AreaCode == "" {
			continue
		}
		existing, ok := idx.Areas[key]
		switch {
		case !ok:
			idx.Areas[key] = link.AreaCode
		case existing == link.AreaCode:
			idx.DuplicateLinks++
		default:
			idx.ConflictingPostcodes++
		}
	}
	return idx
}

// Lookup returns the area code for a normalized postcode
func (i *AreaIndex) Lookup(key string) (string, bool) {
	area, ok := i.Areas[key]
	return area, ok
}

// Len returns the number of distinct postcodes
func (i *AreaIndex) Len() int {
	return len(i.Areas)
}

// DeprivationIndex maps area code -> deprivation record, first row wins
type DeprivationIndex struct {
	byArea     map[string]contracts.DeprivationRecord
	Duplicates int
}

// BuildDeprivationIndex indexes deprivation records by area code
func BuildDeprivationIndex(records []contracts.DeprivationRecord) *DeprivationIndex {
	idx := &DeprivationIndex{byArea: make(map[string]contracts.DeprivationRecord, len(records))}
	for _, rec := range records {
		if _, ok := idx.byArea[rec.AreaCode]; ok {
			idx.Duplicates++
			continue
		}
		idx.byArea[rec.AreaCode] = rec
	}
	return idx
}

// Lookup returns the deprivation record for an area code
func (i *DeprivationIndex) Lookup(area string) (contracts.DeprivationRecord, bool) {
	rec, ok := i.byArea[area]
	return rec, ok
}

// Len returns the number of distinct area codes
func (i *DeprivationIndex) Len() int {
	return len(i.byArea)
}
