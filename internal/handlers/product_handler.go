package handlers

import (
	"strconv"

	"farmmarket/internal/middleware"
	"farmmarket/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles the public catalogue.
type ProductHandler struct {
	images imageResolver
}

// NewProductHandler creates a new ProductHandler. Image paths are resolved
// against mediaBase.
func NewProductHandler(mediaBase string) *ProductHandler {
	return &ProductHandler{images: imageResolver{mediaBase: mediaBase}}
}

// RegisterRoutes registers the catalogue routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/categories", h.HandleGetCategories)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// HandleGetCategories lists every category.
func (h *ProductHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := middleware.Workspace(c).Products.GetCategories(c.UserContext())
	if err != nil {
		return respondError(c, "Failed to load categories", err)
	}
	return render(c, fiber.StatusOK, fiber.Map{"categories": categories})
}

// HandleGetProducts lists the catalogue, optionally narrowed by ?category_id=.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	svc := middleware.Workspace(c).Products

	var (
		products []models.Product
		err      error
	)
	if raw := c.Query("category_id"); raw != "" {
		categoryID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			return badRequest(c, "Invalid category ID", parseErr)
		}
		products, err = svc.GetProductsByCategory(c.UserContext(), categoryID)
	} else {
		products, err = svc.GetAllProducts(c.UserContext())
	}
	if err != nil {
		return respondError(c, "Failed to load products", err)
	}
	return render(c, fiber.StatusOK, fiber.Map{"products": h.images.products(products)})
}

// HandleGetProductByID shows a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID", err)
	}
	product, err := middleware.Workspace(c).Products.GetProductByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, "Failed to load product details", err)
	}
	return render(c, fiber.StatusOK, fiber.Map{"product": h.images.product(*product)})
}
