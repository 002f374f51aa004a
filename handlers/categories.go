// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/awardnight/server/cliparse"
	"github.com/awardnight/server/middleware"
	"github.com/awardnight/server/models"
)

type CategoryHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCategoryHandler(db *sql.DB, cfg cliparse.Config) *CategoryHandler {
	return &CategoryHandler{db: db, cfg: cfg}
}

// CreateCategory handles POST /clubs/{id}/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	clubID := r.PathValue("id")
	if clubID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "club id is required")
		return
	}

	var req models.CreateCategoryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	if _, ok := requireOfficer(w, r, h.db, clubID); !ok {
		return
	}

	categoryID := uuid.NewString()
	var description *string
	if req.Description != "" {
		description = &req.Description
	}

	_, err := h.db.Exec(`
		INSERT INTO voting_category (id, club_id, name, description, display_order, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)
	`, categoryID, clubID, req.Name, description, req.DisplayOrder, time.Now())

	if err != nil {
		slog.Error("failed to insert category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	slog.Info("category created", "category_id", categoryID, "club_id", clubID, "name", req.Name)

	category, err := getCategory(h.db, categoryID)
	if err != nil {
		slog.Error("failed to reload category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, category)
}

// ListCategories handles GET /clubs/{id}/categories
// Returns the club's active catalog ordered for display.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	clubID := r.PathValue("id")
	if clubID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "club id is required")
		return
	}

	if _, ok := requireActiveMember(w, r, h.db, clubID); !ok {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, club_id, name, description, display_order, is_active, created_at
		FROM voting_category
		WHERE club_id = $1 AND is_active = TRUE
		ORDER BY display_order, name, id
	`, clubID)
	if err != nil {
		slog.Error("failed to query categories", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	categories := []models.VotingCategory{}
	for rows.Next() {
		var c models.VotingCategory
		if err := rows.Scan(&c.ID, &c.ClubID, &c.Name, &c.Description, &c.DisplayOrder, &c.IsActive, &c.CreatedAt); err != nil {
			slog.Error("failed to scan category", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		categories = append(categories, c)
	}

	middleware.JSONResponse(w, http.StatusOK, categories)
}

// DeactivateCategory handles DELETE /categories/{id}
// Soft delete only: categories referenced by votes are never removed.
func (h *CategoryHandler) DeactivateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := r.PathValue("id")
	if categoryID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category id is required")
		return
	}

	category, err := getCategory(h.db, categoryID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		slog.Error("failed to query category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if _, ok := requireOfficer(w, r, h.db, category.ClubID); !ok {
		return
	}

	_, err = h.db.Exec(`
		UPDATE voting_category SET is_active = FALSE WHERE id = $1
	`, categoryID)
	if err != nil {
		slog.Error("failed to deactivate category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to deactivate category")
		return
	}

	slog.Info("category deactivated", "category_id", categoryID)

	middleware.JSONResponse(w, http.StatusOK, map[string]bool{"deactivated": true})
}

// getCategory loads a category row. sql.ErrNoRows passes through.
func getCategory(db *sql.DB, categoryID string) (models.VotingCategory, error) {
	var c models.VotingCategory
	err := db.QueryRow(`
		SELECT id, club_id, name, description, display_order, is_active, created_at
		FROM voting_category
		WHERE id = $1
	`, categoryID).Scan(&c.ID, &c.ClubID, &c.Name, &c.Description, &c.DisplayOrder, &c.IsActive, &c.CreatedAt)
	return c, err
}
