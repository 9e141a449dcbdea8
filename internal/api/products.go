package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"farmmarket/internal/models"
)

// ProductsAPI wraps /api/products/ and /api/categories/.
// It implements repositories.ProductRepository.
type ProductsAPI struct {
	c *Client
}

func (p *ProductsAPI) list(ctx context.Context, path string) ([]models.Product, error) {
	var products []models.Product
	if err := p.c.getJSON(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (p *ProductsAPI) GetAll(ctx context.Context) ([]models.Product, error) {
	return p.list(ctx, "/api/products/")
}

func (p *ProductsAPI) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := p.c.getJSON(ctx, fmt.Sprintf("/api/products/%d/", id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *ProductsAPI) GetByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	return p.list(ctx, fmt.Sprintf("/api/products/by_category/?category_id=%d", categoryID))
}

func (p *ProductsAPI) GetMine(ctx context.Context) ([]models.Product, error) {
	return p.list(ctx, "/api/products/my_products/")
}

func (p *ProductsAPI) Create(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	return p.save(ctx, http.MethodPost, "/api/products/", input)
}

func (p *ProductsAPI) Update(ctx context.Context, id int64, input models.ProductInput) (*models.Product, error) {
	return p.save(ctx, http.MethodPut, fmt.Sprintf("/api/products/%d/", id), input)
}

func (p *ProductsAPI) Delete(ctx context.Context, id int64) error {
	return p.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d/", id), nil, "", nil)
}

func (p *ProductsAPI) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := p.c.getJSON(ctx, "/api/categories/", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// save sends the product form as multipart when an image is attached and as JSON otherwise.
func (p *ProductsAPI) save(ctx context.Context, method, path string, input models.ProductInput) (*models.Product, error) {
	var product models.Product
	if input.Image == nil {
		if err := p.c.sendJSON(ctx, method, path, input, &product); err != nil {
			return nil, err
		}
		return &product, nil
	}

	body, contentType, err := encodeProductForm(input)
	if err != nil {
		return nil, err
	}
	if err := p.c.do(ctx, method, path, body, contentType, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func encodeProductForm(input models.ProductInput) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := []struct{ key, value string }{
		{"name", input.Name},
		{"category", strconv.FormatInt(input.Category, 10)},
		{"description", input.Description},
		{"price", input.Price.StringFixed(2)},
		{"quantity_available", strconv.Itoa(input.QuantityAvailable)},
		{"unit", input.Unit},
		{"is_available", strconv.FormatBool(input.IsAvailable)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.key, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", f.key, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, input.Image.Filename))
	contentType := input.Image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image part: %w", err)
	}
	if _, err := part.Write(input.Image.Content); err != nil {
		return nil, "", fmt.Errorf("failed to write image part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
