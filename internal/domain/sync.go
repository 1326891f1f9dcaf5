package domain

// SyncState is a snapshot of the news list as seen by the presentation layer.
type SyncState struct {
	Items                  []CachedArticle `json:"items"`
	IsLoadingInitial       bool            `json:"isLoadingInitial"`
	IsRefreshing           bool            `json:"isRefreshing"`
	LoadError              bool            `json:"loadError"`
	PaginationEndReached   bool            `json:"paginationEndReached"`
	NoOfflineDataAvailable bool            `json:"noOfflineDataAvailable"`
}

// Clone returns a copy that does not share the items backing array.
func (s SyncState) Clone() SyncState {
	c := s
	c.Items = make([]CachedArticle, len(s.Items))
	copy(c.Items, s.Items)
	return c
}

// ShouldLoadMore reports whether showing the item at index should trigger
// loading the next page.
func (s SyncState) ShouldLoadMore(index int) bool {
	return index >= len(s.Items)-1 && !s.PaginationEndReached && !s.LoadError
}
