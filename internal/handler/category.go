// internal/handler/category.go
package handler

import (
	"errors"
	"net/http"

	"github.com/Mirzamurod/flowers-backend/internal/model"

	"github.com/labstack/echo/v4"
)

// CategoryRequest carries a category name for create and rename.
type CategoryRequest struct {
	Name string `json:"name"`
}

// ListCategories returns every category of the vendor
// GET /api/category
func ListCategories(c echo.Context) error {
	categories, err := model.ListCategories(currentUserID(c))
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to list categories", "LIST_FAILED", err.Error())
	}

	if categories == nil {
		categories = []model.Category{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"data": categories})
}

// GetCategory returns one category
// GET /api/category/:id
func GetCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid id", "INVALID_ID", "")
	}

	category, err := model.GetCategory(currentUserID(c), id)
	if err != nil {
		return ErrorResponse(c, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND", "")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"data": category})
}

// AddCategory creates a category
// POST /api/category
func AddCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST", err.Error())
	}
	if req.Name == "" {
		return ErrorResponse(c, http.StatusBadRequest, "Field 'name' is required", "VALIDATION_ERROR", "")
	}

	category := &model.Category{UserID: currentUserID(c), Name: req.Name}
	if err := model.CreateCategory(category); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, err.Error(), "CREATE_FAILED", "")
	}

	return SuccessResponse(c, http.StatusCreated, "Category added", category)
}

// EditCategory renames a category
// PUT /api/category/:id
func EditCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid id", "INVALID_ID", "")
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST", err.Error())
	}
	if req.Name == "" {
		return ErrorResponse(c, http.StatusBadRequest, "Field 'name' is required", "VALIDATION_ERROR", "")
	}

	if err := model.UpdateCategory(currentUserID(c), id, req.Name); err != nil {
		if errors.Is(err, model.ErrCategoryNotFound) {
			return ErrorResponse(c, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND", "")
		}
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to update category", "UPDATE_FAILED", err.Error())
	}

	return SuccessResponse(c, http.StatusOK, "Category updated", nil)
}

// DeleteCategory removes a category; items keep existing with no category.
// DELETE /api/category/:id
func DeleteCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid id", "INVALID_ID", "")
	}

	if err := model.DeleteCategory(currentUserID(c), id); err != nil {
		if errors.Is(err, model.ErrCategoryNotFound) {
			return ErrorResponse(c, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND", "")
		}
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to delete category", "DELETE_FAILED", err.Error())
	}

	return SuccessResponse(c, http.StatusOK, "Category deleted", nil)
}
