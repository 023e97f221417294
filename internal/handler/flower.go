// internal/handler/flower.go
package handler

import (
	"github.com/Mirzamurod/flowers-backend/internal/model"

	"github.com/labstack/echo/v4"
)

// ListFlowers returns one page of the vendor's flowers
// GET /api/flowers
func ListFlowers(c echo.Context) error {
	return listItems(c, model.TableFlowers)
}

// ListPublicFlowers returns a vendor's unblocked flowers for the web-app
// GET /flowers/public/:userId
func ListPublicFlowers(c echo.Context) error {
	return listPublicItems(c, model.TableFlowers)
}

// GetFlower returns one flower
// GET /api/flowers/:id
func GetFlower(c echo.Context) error {
	return getItem(c, model.TableFlowers)
}

// AddFlower creates a flower from a multipart form
// POST /api/flowers
func AddFlower(c echo.Context) error {
	return addItem(c, model.TableFlowers)
}

// EditFlower updates a flower, optionally replacing its image
// PUT /api/flowers/:id
func EditFlower(c echo.Context) error {
	return editItem(c, model.TableFlowers)
}

// BlockFlower hides or shows a flower in the public catalog
// PATCH /api/flowers/block/:id
func BlockFlower(c echo.Context) error {
	return blockItem(c, model.TableFlowers)
}

// DeleteFlower removes a flower and its stored image
// DELETE /api/flowers/:id
func DeleteFlower(c echo.Context) error {
	return deleteItem(c, model.TableFlowers)
}
