package main

// draftRecord is satisfied by any row type carrying the original/draft
// self-reference (Chapter, Question).
type draftRecord interface {
	EntityID() string
	DraftOfID() *string
}

func (c Chapter) EntityID() string    { return c.ID }
func (c Chapter) DraftOfID() *string  { return c.DraftOf }
func (q Question) EntityID() string   { return q.ID }
func (q Question) DraftOfID() *string { return q.DraftOf }

// collapseDrafts resolves a mixed set of originals and drafts to exactly one
// representative per logical entity: the draft when one is pending, otherwise
// the original. Drafts pass through unconditionally; an original is dropped
// only while a draft shadows it. Pure function, input order preserved.
func collapseDrafts[T draftRecord](rows []T) []T {
	shadowed := make(map[string]bool, len(rows))
	for _, r := range rows {
		if orig := r.DraftOfID(); orig != nil {
			shadowed[*orig] = true
		}
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if r.DraftOfID() != nil {
			out = append(out, r)
			continue
		}
		if !shadowed[r.EntityID()] {
			out = append(out, r)
		}
	}
	return out
}
