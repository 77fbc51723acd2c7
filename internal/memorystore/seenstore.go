package memorystore

// SeenStore remembers the most recent IDs it was shown.
type SeenStore struct {
	ids *BoundedStore[string, struct{}]
}

func NewSeenStore(capacity int) *SeenStore {
	return &SeenStore{ids: NewBoundedStore[string, struct{}](capacity)}
}

// MarkSeen records id and reports whether it was new.
func (s *SeenStore) MarkSeen(id string) bool {
	return s.ids.Add(id, struct{}{})
}
