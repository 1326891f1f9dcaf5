package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"news_reader/internal/domain"
)

const (
	defaultHeartbeat = 15 * time.Second

	contentTypeArticle = "article"
	listIDNews         = "news_list"
)

// Handler exposes the news controller over HTTP. List operations run
// synchronously on the request context and answer with the resulting state.
type Handler struct {
	controller Controller
	articles   ArticleFinder
	publisher  Publisher
	logger     *slog.Logger
	heartbeat  time.Duration
}

// NewHandler builds the handler. publisher may be nil, in which case events
// are only logged.
func NewHandler(controller Controller, articles ArticleFinder, publisher Publisher, logger *slog.Logger) *Handler {
	return &Handler{
		controller: controller,
		articles:   articles,
		publisher:  publisher,
		logger:     logger.With("component", "api"),
		heartbeat:  defaultHeartbeat,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.controller.State())
}

// LoadNextPage loads the next page. With ?index=N the load only happens when
// the item at N is the last one shown and more pages are available.
func (h *Handler) LoadNextPage(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("index"); raw != "" {
		index, err := strconv.Atoi(raw)
		if err != nil || index < 0 {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		if !h.controller.ShouldLoadMore(index) {
			writeJSON(w, http.StatusOK, h.controller.State())
			return
		}
	}

	h.controller.LoadNextPage(r.Context())
	writeJSON(w, http.StatusOK, h.controller.State())
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.controller.RefreshNews(r.Context())
	writeJSON(w, http.StatusOK, h.controller.State())
}

func (h *Handler) LoadOffline(w http.ResponseWriter, r *http.Request) {
	h.controller.LoadOfflineCache(r.Context())
	writeJSON(w, http.StatusOK, h.controller.State())
}

func (h *Handler) DismissOfflineNotice(w http.ResponseWriter, r *http.Request) {
	h.controller.DismissOfflineUnavailableNotice()
	writeJSON(w, http.StatusOK, h.controller.State())
}

func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	article, err := h.articles.CachedRow(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get cached article", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if article == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	h.emit(r, domain.NewEvent(domain.EventSelectItem,
		domain.ParamItemListID, listIDNews,
		domain.ParamContentType, contentTypeArticle,
		domain.ParamItemID, strconv.FormatInt(id, 10),
	))

	writeJSON(w, http.StatusOK, map[string]any{"article": article})
}

// PostEvent accepts an analytics event from the client.
func (h *Handler) PostEvent(w http.ResponseWriter, r *http.Request) {
	var event domain.Event
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&event); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if event.Type == "" {
		http.Error(w, "event type is required", http.StatusBadRequest)
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Normalize()

	if h.publisher == nil {
		h.logger.Info("analytics event", "id", event.ID, "type", event.Type, "params", len(event.Params))
		writeJSON(w, http.StatusAccepted, map[string]string{"id": event.ID})
		return
	}

	if err := h.publisher.Publish(r.Context(), &event); err != nil {
		h.logger.Error("failed to publish event", "type", event.Type, "error", err)
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"id": event.ID})
}

// StreamState sends the current state and every change as server-sent events.
func (h *Handler) StreamState(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	updates, unsubscribe := h.controller.Subscribe()
	defer unsubscribe()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case state, ok := <-updates:
			if !ok {
				return
			}
			data, err := json.Marshal(state)
			if err != nil {
				h.logger.Error("failed to marshal state", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", data); err != nil {
				h.logger.Debug("stream client gone", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func (h *Handler) emit(r *http.Request, event *domain.Event) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(r.Context(), event); err != nil {
		h.logger.Warn("failed to publish event", "type", event.Type, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
