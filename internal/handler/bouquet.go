// internal/handler/bouquet.go
package handler

import (
	"github.com/Mirzamurod/flowers-backend/internal/model"

	"github.com/labstack/echo/v4"
)

// ListBouquets returns one page of the vendor's bouquets
// GET /api/bouquets
func ListBouquets(c echo.Context) error {
	return listItems(c, model.TableBouquets)
}

// ListPublicBouquets returns a vendor's unblocked bouquets for the web-app
// GET /bouquets/public/:userId
func ListPublicBouquets(c echo.Context) error {
	return listPublicItems(c, model.TableBouquets)
}

// GetBouquet returns one bouquet
// GET /api/bouquets/:id
func GetBouquet(c echo.Context) error {
	return getItem(c, model.TableBouquets)
}

// AddBouquet creates a bouquet from a multipart form
// POST /api/bouquets
func AddBouquet(c echo.Context) error {
	return addItem(c, model.TableBouquets)
}

// EditBouquet updates a bouquet, optionally replacing its image
// PUT /api/bouquets/:id
func EditBouquet(c echo.Context) error {
	return editItem(c, model.TableBouquets)
}

// BlockBouquet hides or shows a bouquet in the public catalog
// PATCH /api/bouquets/block/:id
func BlockBouquet(c echo.Context) error {
	return blockItem(c, model.TableBouquets)
}

// DeleteBouquet removes a bouquet and its stored image
// DELETE /api/bouquets/:id
func DeleteBouquet(c echo.Context) error {
	return deleteItem(c, model.TableBouquets)
}
