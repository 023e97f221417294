// internal/handler/item.go
//
// Shared request plumbing for the two catalog collections. The bouquet and
// flower endpoints are identical apart from the table they touch.
package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Mirzamurod/flowers-backend/config"
	"github.com/Mirzamurod/flowers-backend/internal/helper"
	"github.com/Mirzamurod/flowers-backend/internal/model"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const imageDir = "./images"

var allowedItemExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

func listItems(c echo.Context, table string) error {
	filter := model.ItemFilter{
		UserID:    currentUserID(c),
		Limit:     queryInt(c, "limit", 20),
		Page:      queryInt(c, "page", 1),
		SortName:  c.QueryParam("sortName"),
		SortValue: c.QueryParam("sortValue"),
		Search:    c.QueryParam("search"),
	}
	if category := c.QueryParam("category"); category != "" {
		filter.CategoryID, _ = strconv.ParseInt(category, 10, 64)
	}

	page, err := model.ListItems(table, filter)
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, err.Error(), "LIST_FAILED", "")
	}

	return c.JSON(http.StatusOK, page)
}

// Public catalog for the customer web-app: only unblocked entries of the
// vendor in the path.
func listPublicItems(c echo.Context, table string) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid user id", "INVALID_ID", "")
	}

	filter := model.ItemFilter{
		UserID:     userID,
		Limit:      queryInt(c, "limit", 20),
		Page:       queryInt(c, "page", 1),
		PublicOnly: true,
	}
	if category := c.QueryParam("category"); category != "" {
		filter.CategoryID, _ = strconv.ParseInt(category, 10, 64)
	}

	page, err := model.ListItems(table, filter)
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, err.Error(), "LIST_FAILED", "")
	}

	return c.JSON(http.StatusOK, page)
}

func getItem(c echo.Context, table string) error {
	id, err := paramID(c, "id")
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid id", "INVALID_ID", "")
	}

	item, err := model.GetItem(table, currentUserID(c), id)
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Item not found", "ITEM_NOT_FOUND", "")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"data": item.ToResponse()})
}

func addItem(c echo.Context, table string) error {
	name := c.FormValue("name")
	if name == "" {
		return ErrorResponse(c, http.StatusBadRequest, "Field 'name' is required", "VALIDATION_ERROR", "")
	}
	price, err := strconv.ParseInt(c.FormValue("price"), 10, 64)
	if err != nil || price < 0 {
		return ErrorResponse(c, http.StatusBadRequest, "Field 'price' must be a non-negative integer", "VALIDATION_ERROR", "")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Image file is required", "VALIDATION_ERROR", "")
	}

	imageURL, err := saveItemImage(fileHeader)
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, err.Error(), "IMAGE_PROCESSING_FAILED", "")
	}

	item := &model.Item{
		UserID: currentUserID(c),
		Name:   name,
		Price:  price,
	}
	item.Image.String, item.Image.Valid = imageURL, true
	if info := c.FormValue("info"); info != "" {
		item.Info.String, item.Info.Valid = info, true
	}
	if category := c.FormValue("category"); category != "" {
		if categoryID, err := strconv.ParseInt(category, 10, 64); err == nil {
			item.CategoryID.Int64, item.CategoryID.Valid = categoryID, true
		}
	}

	if err := model.CreateItem(table, item); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, err.Error(), "CREATE_FAILED", "")
	}

	return SuccessResponse(c, http.StatusCreated, "Item added", item.ToResponse())
}

func editItem(c echo.Context, table string) error {
	id, err := paramID(c, "id")
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid id", "INVALID_ID", "")
	}
	userID := currentUserID(c)

	existing, err := model.GetItem(table, userID, id)
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Item not found", "ITEM_NOT_FOUND", "")
	}

	var req model.UpdateItemRequest
	if name := c.FormValue("name"); name != "" {
		req.Name = &name
	}
	if info := c.FormValue("info"); info != "" {
		req.Info = &info
	}
	if price := c.FormValue("price"); price != "" {
		p, err := strconv.ParseInt(price, 10, 64)
		if err != nil || p < 0 {
			return ErrorResponse(c, http.StatusBadRequest, "Field 'price' must be a non-negative integer", "VALIDATION_ERROR", "")
		}
		req.Price = &p
	}
	if category := c.FormValue("category"); category != "" {
		if categoryID, err := strconv.ParseInt(category, 10, 64); err == nil {
			req.CategoryID = &categoryID
		}
	}

	// Replace the stored image only when a new file arrives.
	if fileHeader, err := c.FormFile("image"); err == nil {
		imageURL, err := saveItemImage(fileHeader)
		if err != nil {
			return ErrorResponse(c, http.StatusBadRequest, err.Error(), "IMAGE_PROCESSING_FAILED", "")
		}
		req.Image = &imageURL

		if existing.Image.Valid {
			removeImageFile(existing.Image.String)
		}
	}

	if err := model.UpdateItem(table, userID, id, req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, err.Error(), "UPDATE_FAILED", "")
	}

	return SuccessResponse(c, http.StatusOK, "Item updated", nil)
}

func blockItem(c echo.Context, table string) error {
	id, err := paramID(c, "id")
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid id", "INVALID_ID", "")
	}

	var req struct {
		Block bool `json:"block"`
	}
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST", err.Error())
	}

	update := model.UpdateItemRequest{Block: &req.Block}
	if err := model.UpdateItem(table, currentUserID(c), id, update); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, err.Error(), "UPDATE_FAILED", "")
	}

	return SuccessResponse(c, http.StatusOK, "Item updated", nil)
}

func deleteItem(c echo.Context, table string) error {
	id, err := paramID(c, "id")
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid id", "INVALID_ID", "")
	}
	userID := currentUserID(c)

	existing, err := model.GetItem(table, userID, id)
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Item not found", "ITEM_NOT_FOUND", "")
	}

	if err := model.DeleteItem(table, userID, id); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, err.Error(), "DELETE_FAILED", "")
	}

	if existing.Image.Valid {
		removeImageFile(existing.Image.String)
	}

	return SuccessResponse(c, http.StatusOK, "Item deleted", nil)
}

// saveItemImage validates, resizes and stores an uploaded catalog photo,
// returning its public URL.
func saveItemImage(fileHeader *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedItemExtensions[ext] {
		return "", errors.New("only .jpg, .jpeg and .png images are accepted")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	data, err := helper.ProcessItemImage(file, fileHeader)
	if err != nil {
		return "", err
	}

	// 600-prefix matches the stored card size the web-app expects.
	name := "600" + uuid.NewString() + ".png"
	if err := os.WriteFile(filepath.Join(imageDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	return config.ImageBaseURL + "images/" + name, nil
}

// removeImageFile deletes the stored file behind an image URL. Best effort;
// a missing file is not an error worth surfacing.
func removeImageFile(imageURL string) {
	parts := strings.Split(imageURL, "/")
	name := parts[len(parts)-1]
	if name == "" {
		return
	}
	_ = os.Remove(filepath.Join(imageDir, name))
}

func queryInt(c echo.Context, name string, fallback int) int {
	value := c.QueryParam(name)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
