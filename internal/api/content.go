package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mmopane/sitechat/internal/auth"
	"github.com/mmopane/sitechat/internal/domain"
	"github.com/mmopane/sitechat/internal/store"
)

// ContentHandler serves the content collections behind the public
// category/gallery pages and the admin CRUD forms.
type ContentHandler struct {
	repo store.Repository
	gate *auth.Gate
}

// NewContentHandler creates the content CRUD handler.
func NewContentHandler(repo store.Repository, gate *auth.Gate) *ContentHandler {
	return &ContentHandler{repo: repo, gate: gate}
}

// RegisterRoutes mounts public reads and admin-gated mutations.
func (h *ContentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/services", h.listServices)
	r.Get("/api/projects", h.listProjects)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(h.gate.Middleware)

		r.Get("/services/{id}", h.getService)
		r.Post("/services", h.createService)
		r.Put("/services/{id}", h.updateService)
		r.Delete("/services/{id}", h.deleteService)

		r.Get("/projects/{id}", h.getProject)
		r.Post("/projects", h.createProject)
		r.Put("/projects/{id}", h.updateProject)
		r.Delete("/projects/{id}", h.deleteProject)
	})
}

func (h *ContentHandler) listServices(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListServices(r.Context(), r.URL.Query().Get("category"), true)
	if err != nil {
		slog.Error("failed to list services", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list services")
		return
	}
	if items == nil {
		items = []*domain.ServiceItem{}
	}
	JSON(w, http.StatusOK, items)
}

func (h *ContentHandler) getService(w http.ResponseWriter, r *http.Request) {
	item, err := h.repo.GetService(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("failed to get service", "error", err)
		Error(w, http.StatusInternalServerError, "failed to get service")
		return
	}
	if item == nil {
		Error(w, http.StatusNotFound, "service not found")
		return
	}
	JSON(w, http.StatusOK, item)
}

func (h *ContentHandler) createService(w http.ResponseWriter, r *http.Request) {
	var item domain.ServiceItem
	if err := decodeJSON(w, r, &item); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if item.Title == "" || item.Category == "" {
		Error(w, http.StatusBadRequest, "title and category are required")
		return
	}

	now := time.Now()
	item.ID = uuid.NewString()
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := h.repo.CreateService(r.Context(), &item); err != nil {
		slog.Error("failed to create service", "error", err)
		Error(w, http.StatusInternalServerError, "failed to create service")
		return
	}
	JSON(w, http.StatusCreated, &item)
}

func (h *ContentHandler) updateService(w http.ResponseWriter, r *http.Request) {
	var item domain.ServiceItem
	if err := decodeJSON(w, r, &item); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item.ID = chi.URLParam(r, "id")

	err := h.repo.UpdateService(r.Context(), &item)
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "service not found")
		return
	}
	if err != nil {
		slog.Error("failed to update service", "error", err, "id", item.ID)
		Error(w, http.StatusInternalServerError, "failed to update service")
		return
	}
	JSON(w, http.StatusOK, &item)
}

func (h *ContentHandler) deleteService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.repo.DeleteService(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "service not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete service", "error", err, "id", id)
		Error(w, http.StatusInternalServerError, "failed to delete service")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (h *ContentHandler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.repo.ListProjects(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		slog.Error("failed to list projects", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	if projects == nil {
		projects = []*domain.Project{}
	}
	JSON(w, http.StatusOK, projects)
}

func (h *ContentHandler) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("failed to get project", "error", err)
		Error(w, http.StatusInternalServerError, "failed to get project")
		return
	}
	if p == nil {
		Error(w, http.StatusNotFound, "project not found")
		return
	}
	JSON(w, http.StatusOK, p)
}

func (h *ContentHandler) createProject(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if err := decodeJSON(w, r, &p); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.Title == "" {
		Error(w, http.StatusBadRequest, "title is required")
		return
	}

	now := time.Now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := h.repo.CreateProject(r.Context(), &p); err != nil {
		slog.Error("failed to create project", "error", err)
		Error(w, http.StatusInternalServerError, "failed to create project")
		return
	}
	JSON(w, http.StatusCreated, &p)
}

func (h *ContentHandler) updateProject(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if err := decodeJSON(w, r, &p); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.ID = chi.URLParam(r, "id")

	err := h.repo.UpdateProject(r.Context(), &p)
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		slog.Error("failed to update project", "error", err, "id", p.ID)
		Error(w, http.StatusInternalServerError, "failed to update project")
		return
	}
	JSON(w, http.StatusOK, &p)
}

func (h *ContentHandler) deleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.repo.DeleteProject(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete project", "error", err, "id", id)
		Error(w, http.StatusInternalServerError, "failed to delete project")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"deleted": id})
}
