package store

import (
	"sort"
	"time"

	"github.com/MKhiriev/go-quote-sync/models"
)

// minTick is the smallest step LastModified advances by when the clock has
// not moved since the previous write.
const minTick = time.Millisecond

// recordSet is an insertion-ordered collection of records keyed by id.
// It is not safe for concurrent use; owners guard it.
type recordSet struct {
	order []string
	byID  map[string]models.Record
}

func newRecordSet(records []models.Record) recordSet {
	s := recordSet{
		order: make([]string, 0, len(records)),
		byID:  make(map[string]models.Record, len(records)),
	}
	for _, r := range records {
		s.put(r)
	}
	return s
}

func (s *recordSet) clone() recordSet {
	c := recordSet{
		order: append([]string(nil), s.order...),
		byID:  make(map[string]models.Record, len(s.byID)),
	}
	for id, r := range s.byID {
		c.byID[id] = r
	}
	return c
}

func (s *recordSet) get(id string) (models.Record, bool) {
	r, ok := s.byID[id]
	return r, ok
}

func (s *recordSet) len() int {
	return len(s.order)
}

func (s *recordSet) all() []models.Record {
	out := make([]models.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// put stores r verbatim, keeping the position of an existing id.
func (s *recordSet) put(r models.Record) {
	if _, ok := s.byID[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.byID[r.ID] = r
}

// upsert applies a local write. An existing record only changes when the
// payload differs; then its version is bumped and LastModified moves to now
// (or just past the previous value if the clock has not advanced). A new id
// is inserted with version max(1, r.Version).
func (s *recordSet) upsert(r models.Record, now time.Time) (models.Record, bool) {
	existing, ok := s.byID[r.ID]
	if !ok {
		if r.Version < 1 {
			r.Version = 1
		}
		if r.LastModified.IsZero() {
			r.LastModified = now
		}
		if r.Origin == "" {
			r.Origin = models.OriginLocal
		}
		s.put(r)
		return r, true
	}

	if existing.Payload.Equal(r.Payload) {
		return existing, false
	}

	updated := existing
	updated.Payload = r.Payload
	updated.Version = existing.Version + 1
	updated.LastModified = now
	if !now.After(existing.LastModified) {
		updated.LastModified = existing.LastModified.Add(minTick)
	}
	s.byID[r.ID] = updated
	return updated, true
}

func (s *recordSet) remove(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, other := range s.order {
		if other == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *recordSet) categories() []string {
	seen := make(map[string]struct{})
	for _, r := range s.byID {
		if r.Payload.Category != "" {
			seen[r.Payload.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
