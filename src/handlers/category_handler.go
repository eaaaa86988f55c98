package handlers

import (
	"net/http"

	"ledger-server/src/logging"
	"ledger-server/src/models"
	"ledger-server/src/services"

	"github.com/go-chi/chi/v5"
)

func ListCategories(categories *services.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typ := models.TransactionType(r.URL.Query().Get("type"))
		list, err := categories.List(r.Context(), userID(r), typ)
		if err != nil {
			writeError(w, r, "failed to list categories", err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func CreateCategory(categories *services.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateCategoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, "failed to decode create category request body", err)
			return
		}
		c, err := categories.Create(r.Context(), userID(r), req)
		if err != nil {
			writeError(w, r, "failed to create category", err)
			return
		}
		logging.FromContext(r.Context()).Info("created category", "category_id", c.ID, "name", c.Name)
		writeJSON(w, http.StatusCreated, c)
	}
}

func InitCategories(categories *services.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		created, err := categories.Bootstrap(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, "failed to initialize categories", err)
			return
		}
		list, err := categories.List(r.Context(), userID(r), "")
		if err != nil {
			writeError(w, r, "failed to list categories", err)
			return
		}
		status := http.StatusOK
		if created > 0 {
			status = http.StatusCreated
			logging.FromContext(r.Context()).Info("seeded default categories", "count", created)
		}
		writeJSON(w, status, map[string]any{"created": created, "categories": list})
	}
}

func UpdateCategory(categories *services.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req models.UpdateCategoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, "failed to decode update category request body", err)
			return
		}
		c, err := categories.Update(r.Context(), userID(r), id, req)
		if err != nil {
			writeError(w, r, "failed to update category", err)
			return
		}
		logging.FromContext(r.Context()).Info("updated category", "category_id", id)
		writeJSON(w, http.StatusOK, c)
	}
}

func DeleteCategory(categories *services.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := categories.Delete(r.Context(), userID(r), id); err != nil {
			writeError(w, r, "failed to delete category", err)
			return
		}
		logging.FromContext(r.Context()).Info("deleted category", "category_id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}
