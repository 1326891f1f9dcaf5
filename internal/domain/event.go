package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventScreenView    = "screen_view"
	EventSelectItem    = "select_item"
	EventSelectContent = "select_content"
	EventButtonClick   = "button_click"
	EventPageSynced    = "news_page_synced"
	EventSyncFailed    = "news_sync_failed"
)

const (
	ParamScreenName   = "screen_name"
	ParamItemListID   = "item_list_id"
	ParamItemListName = "item_list_name"
	ParamContentType  = "content_type"
	ParamItemID       = "item_id"
	ParamButtonID     = "button_id"
	ParamPage         = "page"
	ParamRows         = "rows"
	ParamMode         = "mode"
	ParamReason       = "reason"
)

// Analytics backends reject longer keys and values.
const (
	maxParamKeyLen   = 40
	maxParamValueLen = 100
)

type EventParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Event struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	Params    []EventParam `json:"params,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewEvent builds an event from alternating key/value pairs. A trailing key
// without a value is ignored.
func NewEvent(eventType string, kv ...string) *Event {
	e := &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Params = append(e.Params, EventParam{Key: kv[i], Value: kv[i+1]})
	}
	e.Normalize()
	return e
}

// Normalize truncates parameter keys and values to backend limits.
func (e *Event) Normalize() {
	for i := range e.Params {
		e.Params[i].Key = truncate(e.Params[i].Key, maxParamKeyLen)
		e.Params[i].Value = truncate(e.Params[i].Value, maxParamValueLen)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
