package handler

import (
	"net/http"
	"strconv"

	"github.com/Dan9191/posts-service/internal/middleware"
	"github.com/Dan9191/posts-service/internal/models"
	"github.com/gorilla/mux"
)

// CreatePost handles post creation
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := h.decode(r, &req); err != nil {
		h.badInput(w, r, err)
		return
	}

	res, err := h.svc.CreatePost(r.Context(), middleware.UserFrom(r.Context()), req.UserID, req.Title, req.Body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, res)
}

// ReadPosts lists the caller's posts filtered by ?search= and ordered by ?time=
func (h *Handler) ReadPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	posts, err := h.svc.ReadPosts(r.Context(), middleware.UserFrom(r.Context()), q.Get("search"), q.Get("time"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// UpdatePost applies a partial update to a post
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	var req updatePostRequest
	if err := h.decode(r, &req); err != nil {
		h.badInput(w, r, err)
		return
	}

	res, err := h.svc.UpdatePost(r.Context(), middleware.UserFrom(r.Context()), id, models.PostUpdate{
		Title: req.Title.Value,
		Body:  req.Body.Value,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, res)
}

// DeletePost removes a post
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	res, err := h.svc.DeletePost(r.Context(), middleware.UserFrom(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, res)
}

// postID parses the {id} route variable; ids out of range cannot exist
func postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		sendError(w, http.StatusNotFound, "Post not found")
		return 0, false
	}
	return id, true
}
