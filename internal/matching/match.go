package matching

import (
	"sort"

	"parish-backend/internal/models"
)

// Matches reports whether an active record satisfies the criteria.
func (c MatchCriteria) Matches(r *models.SacramentRecord) bool {
	if r == nil || r.IsArchived || r.Type != c.Type {
		return false
	}
	if c.Name != "" && !sameName(c.Name, &r.Name) {
		return false
	}
	if c.GroomName != "" && !sameName(c.GroomName, r.GroomName) {
		return false
	}
	if c.BrideName != "" && !sameName(c.BrideName, r.BrideName) {
		return false
	}
	if c.Date != nil && !sameDate(c.Date, &r.Date) {
		return false
	}
	if c.BirthDate != nil && !sameDate(c.BirthDate, r.BirthDate) {
		return false
	}
	if c.DateOfDeath != nil && !sameDate(c.DateOfDeath, r.DateOfDeath) {
		return false
	}
	return true
}

// FindBestMatch returns the most recent active record (by sacrament date)
// matching the criteria, or nil. Several records may match the same event;
// the latest one wins.
func FindBestMatch(c MatchCriteria, records []*models.SacramentRecord) *models.SacramentRecord {
	var matches []*models.SacramentRecord
	for _, r := range records {
		if c.Matches(r) {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	SortRecentFirst(matches)
	return matches[0]
}

// SortRecentFirst orders records by sacrament date, newest first. Ties fall
// back to creation time, then ID, so the order is stable across stores.
func SortRecentFirst(records []*models.SacramentRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
