package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	authapi "bombay/cmd/internal/auth/api"
)

type listResponse[T any] struct {
	Data   []T `json:"data"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type bootstrapResponse struct {
	KeySignatures []string `json:"keySignatures"`
}

// Handler serves catalog reads.
type Handler struct {
	log   *slog.Logger
	store Store
}

func NewHandler(log *slog.Logger, store Store) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{log: log, store: store}
}

// Register mounts /bootstrap publicly and the catalog routes behind gate.
func (h *Handler) Register(mux *http.ServeMux, gate func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /bootstrap", h.handleBootstrap)

	mux.Handle("GET /artist", gate(http.HandlerFunc(h.handleListArtists)))
	mux.Handle("GET /artist/{nameOrID}", gate(http.HandlerFunc(h.handleGetArtist)))
	mux.Handle("GET /song", gate(http.HandlerFunc(h.handleListSongs)))
	mux.Handle("GET /song/{id}", gate(http.HandlerFunc(h.handleGetSong)))
}

func (h *Handler) handleBootstrap(w http.ResponseWriter, _ *http.Request) {
	authapi.WriteJSON(w, http.StatusOK, bootstrapResponse{KeySignatures: KeySignatures()})
}

func (h *Handler) handleListArtists(w http.ResponseWriter, r *http.Request) {
	p, err := ParsePage(r.URL.Query())
	if err != nil {
		authapi.WriteError(w, http.StatusBadRequest, "invalid_page", "offset and limit must be non-negative integers")
		return
	}
	items, err := h.store.ListArtists(r.Context(), p)
	if err != nil {
		h.fail(w, r, "catalog.artist.list.fail", err)
		return
	}
	authapi.WriteJSON(w, http.StatusOK, listResponse[Artist]{Data: items, Offset: p.Offset, Limit: p.Limit})
}

func (h *Handler) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.FindArtist(r.Context(), r.PathValue("nameOrID"))
	if err != nil {
		h.fail(w, r, "catalog.artist.get.fail", err)
		return
	}
	authapi.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleListSongs(w http.ResponseWriter, r *http.Request) {
	p, err := ParsePage(r.URL.Query())
	if err != nil {
		authapi.WriteError(w, http.StatusBadRequest, "invalid_page", "offset and limit must be non-negative integers")
		return
	}
	items, err := h.store.ListSongs(r.Context(), p)
	if err != nil {
		h.fail(w, r, "catalog.song.list.fail", err)
		return
	}
	authapi.WriteJSON(w, http.StatusOK, listResponse[Song]{Data: items, Offset: p.Offset, Limit: p.Limit})
}

func (h *Handler) handleGetSong(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		authapi.WriteError(w, http.StatusNotFound, "not_found", "song not found")
		return
	}
	song, err := h.store.GetSong(r.Context(), id)
	if err != nil {
		h.fail(w, r, "catalog.song.get.fail", err)
		return
	}
	authapi.WriteJSON(w, http.StatusOK, song)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, event string, err error) {
	if errors.Is(err, ErrNotFound) {
		authapi.WriteError(w, http.StatusNotFound, "not_found", "not found")
		return
	}
	h.log.ErrorContext(r.Context(), event, "err", err)
	authapi.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
}
