package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products in the catalogue.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Product represents a product offered by a farmer.
type Product struct {
	ID                int64           `json:"id"`
	Farmer            int64           `json:"farmer,omitempty"`
	FarmerName        string          `json:"farmer_name,omitempty"`
	Category          int64           `json:"category,omitempty"`
	CategoryName      string          `json:"category_name,omitempty"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	QuantityAvailable int             `json:"quantity_available"`
	Unit              string          `json:"unit"`
	IsAvailable       bool            `json:"is_available"`
	Image             string          `json:"image,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ImageUpload is an image file attached to a product form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ProductInput is the farmer's product form. Image is optional; when present the
// request is sent as multipart form data.
type ProductInput struct {
	Name              string          `json:"name" validate:"required,max=200"`
	Category          int64           `json:"category" validate:"required,gt=0"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price" validate:"gt=0"`
	QuantityAvailable int             `json:"quantity_available" validate:"gte=0"`
	Unit              string          `json:"unit" validate:"required"`
	IsAvailable       bool            `json:"is_available"`
	Image             *ImageUpload    `json:"-"`
}
