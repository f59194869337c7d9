package domain

import "sort"

// Draft is one saved reusable message candidate for a conversation.
// CreatedAt (epoch milliseconds) doubles as the draft's identity key
// within its conversation: edits and deletes address drafts by it.
type Draft struct {
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
}

// DraftList is the full set of drafts for one conversation. Saves always
// replace the entire list, never individual entries.
type DraftList []Draft

// SortNewestFirst orders the list descending by CreatedAt, the only order
// ever handed to callers.
func (l DraftList) SortNewestFirst() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].CreatedAt > l[j].CreatedAt
	})
}

// Sorted returns a newest-first copy, leaving the receiver untouched.
func (l DraftList) Sorted() DraftList {
	out := make(DraftList, len(l))
	copy(out, l)
	out.SortNewestFirst()
	return out
}
