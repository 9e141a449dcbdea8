package handlers

import (
	"errors"
	"log"
	"strconv"

	"farmmarket/internal/api"
	"farmmarket/internal/media"
	"farmmarket/internal/middleware"
	"farmmarket/internal/models"
	"farmmarket/internal/services"
	"farmmarket/internal/workspace"

	"github.com/gofiber/fiber/v2"
)

// render writes data together with the state every view carries: the cart
// badge count, the live notification and the error banners.
func render(c *fiber.Ctx, status int, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if ws := middleware.Workspace(c); ws != nil {
		decorate(ws, data)
	}
	return c.Status(status).JSON(data)
}

func decorate(ws *workspace.Workspace, data fiber.Map) {
	data["item_count"] = ws.Cart.ItemCount()
	if n := ws.Notifications.Current(); n != nil {
		data["notification"] = n
	}
	if msg := ws.Cart.LastError(); msg != "" {
		data["cart_error"] = msg
	}
	if err := ws.Session.LastError(); err != nil {
		data["auth_error"] = errorPayload(err)
	}
	if _, ok := data["user"]; !ok {
		data["user"] = ws.Session.Current()
	}
}

// errorPayload is the backend's error body when there is one.
func errorPayload(err error) any {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Payload
	}
	return err.Error()
}

// respondError maps a service or backend error onto an HTTP response.
func respondError(c *fiber.Ctx, message string, err error) error {
	var validationErr *services.ValidationError
	var apiErr *api.APIError
	var transportErr *api.TransportError

	switch {
	case errors.As(err, &validationErr):
		return render(c, fiber.StatusBadRequest, fiber.Map{
			"message": "Validation failed",
			"errors":  validationErr.Fields,
		})
	case errors.Is(err, services.ErrCartNotInitialized):
		return render(c, fiber.StatusConflict, fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.As(err, &apiErr):
		log.Printf("%s: %v", message, err)
		return render(c, apiErr.StatusCode, fiber.Map{
			"message": message,
			"error":   apiErr.Payload,
		})
	case errors.As(err, &transportErr):
		log.Printf("%s: %v", message, err)
		return render(c, fiber.StatusBadGateway, fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	default:
		log.Printf("%s: %v", message, err)
		return render(c, fiber.StatusInternalServerError, fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	log.Printf("%s: %v", message, err)
	return render(c, fiber.StatusBadRequest, fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	return strconv.ParseInt(c.Params(name), 10, 64)
}

// imageResolver rewrites backend image paths into absolute URLs.
type imageResolver struct {
	mediaBase string
}

func (r imageResolver) product(p models.Product) models.Product {
	p.Image = media.ResolveImageURL(r.mediaBase, p.Image)
	return p
}

func (r imageResolver) products(ps []models.Product) []models.Product {
	out := make([]models.Product, len(ps))
	for i, p := range ps {
		out[i] = r.product(p)
	}
	return out
}

func (r imageResolver) order(o *models.Order) *models.Order {
	if o == nil {
		return nil
	}
	o = o.Clone()
	for i := range o.Items {
		o.Items[i].ProductImage = media.ResolveImageURL(r.mediaBase, o.Items[i].ProductImage)
	}
	return o
}
