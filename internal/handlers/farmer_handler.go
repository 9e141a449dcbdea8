package handlers

import (
	"fmt"
	"io"
	"strings"

	"farmmarket/internal/middleware"
	"farmmarket/internal/models"
	"farmmarket/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// maxImageSize caps product image uploads.
const maxImageSize = 5 << 20

// FarmerHandler handles the farmer dashboard and product management.
type FarmerHandler struct {
	images imageResolver
}

// NewFarmerHandler creates a new FarmerHandler.
func NewFarmerHandler(mediaBase string) *FarmerHandler {
	return &FarmerHandler{images: imageResolver{mediaBase: mediaBase}}
}

// RegisterRoutes registers the farmer routes. router must already require a farmer.
func (h *FarmerHandler) RegisterRoutes(router fiber.Router) {
	farmerRoutes := router.Group("/farmer")
	farmerRoutes.Get("/dashboard", h.HandleDashboard)
	farmerRoutes.Post("/products", h.HandleCreateProduct)
	farmerRoutes.Put("/products/:id", h.HandleUpdateProduct)
	farmerRoutes.Delete("/products/:id", h.HandleDeleteProduct)
}

// HandleDashboard shows the farmer's products and the orders containing them.
func (h *FarmerHandler) HandleDashboard(c *fiber.Ctx) error {
	dashboard, err := middleware.Workspace(c).Orders.GetFarmerDashboard(c.UserContext())
	if err != nil {
		return respondError(c, "Failed to load data", err)
	}
	return render(c, fiber.StatusOK, fiber.Map{
		"products": h.images.products(dashboard.Products),
		"orders":   newOrderViews(dashboard.Orders, h.images),
	})
}

// HandleCreateProduct creates a product from a JSON or multipart form.
func (h *FarmerHandler) HandleCreateProduct(c *fiber.Ctx) error {
	input, err := parseProductInput(c)
	if err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	ws := middleware.Workspace(c)
	product, err := ws.Products.CreateProduct(c.UserContext(), input)
	if err != nil {
		return respondError(c, "Could not create product", err)
	}
	ws.Notifications.Show("Product created successfully!", services.NotifySuccess)
	return render(c, fiber.StatusCreated, fiber.Map{"product": h.images.product(*product)})
}

// HandleUpdateProduct replaces a product from a JSON or multipart form.
func (h *FarmerHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID", err)
	}
	input, err := parseProductInput(c)
	if err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	ws := middleware.Workspace(c)
	product, err := ws.Products.UpdateProduct(c.UserContext(), id, input)
	if err != nil {
		return respondError(c, "Could not update product", err)
	}
	ws.Notifications.Show("Product updated successfully!", services.NotifySuccess)
	return render(c, fiber.StatusOK, fiber.Map{"product": h.images.product(*product)})
}

// HandleDeleteProduct deletes one of the farmer's products.
func (h *FarmerHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID", err)
	}

	ws := middleware.Workspace(c)
	if err := ws.Products.DeleteProduct(c.UserContext(), id); err != nil {
		ws.Notifications.Show("Failed to delete product. Please try again.", services.NotifyDanger)
		return respondError(c, "Could not delete product", err)
	}
	ws.Notifications.Show("Product deleted", services.NotifySuccess)
	return render(c, fiber.StatusOK, fiber.Map{
		"message": fmt.Sprintf("Product %d deleted successfully", id),
	})
}

// productForm is the form as posted by the browser; price arrives as text.
type productForm struct {
	Name              string `json:"name" form:"name"`
	Category          int64  `json:"category" form:"category"`
	Description       string `json:"description" form:"description"`
	Price             string `json:"price" form:"price"`
	QuantityAvailable int    `json:"quantity_available" form:"quantity_available"`
	Unit              string `json:"unit" form:"unit"`
	IsAvailable       bool   `json:"is_available" form:"is_available"`
}

func parseProductInput(c *fiber.Ctx) (models.ProductInput, error) {
	var form productForm
	if err := c.BodyParser(&form); err != nil {
		return models.ProductInput{}, err
	}

	input := models.ProductInput{
		Name:              form.Name,
		Category:          form.Category,
		Description:       form.Description,
		QuantityAvailable: form.QuantityAvailable,
		Unit:              form.Unit,
		IsAvailable:       form.IsAvailable,
	}
	if form.Price != "" {
		price, err := decimal.NewFromString(form.Price)
		if err != nil {
			return models.ProductInput{}, fmt.Errorf("invalid price %q: %w", form.Price, err)
		}
		input.Price = price
	}

	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return input, nil
	}
	fh, err := c.FormFile("image")
	if err != nil {
		// No image part; the product keeps its current image.
		return input, nil
	}
	if fh.Size > maxImageSize {
		return models.ProductInput{}, fmt.Errorf("image %s exceeds %d bytes", fh.Filename, maxImageSize)
	}
	f, err := fh.Open()
	if err != nil {
		return models.ProductInput{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return models.ProductInput{}, fmt.Errorf("failed to read image: %w", err)
	}
	input.Image = &models.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	}
	return input, nil
}
