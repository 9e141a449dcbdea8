package repositories

import (
	"context"
	"net/http"
	"sort"

	"farmmarket/internal/api"
	"farmmarket/internal/models"
)

func sortedProducts(products map[int64]models.Product, keep func(models.Product) bool) []models.Product {
	productList := make([]models.Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList
}

// GetAll returns every available product.
func (r *MockProductRepository) GetAll(context.Context) ([]models.Product, error) {
	b := r.s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	return sortedProducts(b.products, func(p models.Product) bool { return p.IsAvailable }), nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(_ context.Context, id int64) (*models.Product, error) {
	b := r.s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	product, ok := b.products[id]
	if !ok {
		return nil, notFound("Product")
	}
	return &product, nil
}

// GetByCategory returns the available products of one category.
func (r *MockProductRepository) GetByCategory(_ context.Context, categoryID int64) ([]models.Product, error) {
	b := r.s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	return sortedProducts(b.products, func(p models.Product) bool {
		return p.IsAvailable && p.Category == categoryID
	}), nil
}

// GetMine returns the signed-in farmer's products, available or not.
func (r *MockProductRepository) GetMine(context.Context) ([]models.Product, error) {
	u, err := r.farmer()
	if err != nil {
		return nil, err
	}

	b := r.s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	return sortedProducts(b.products, func(p models.Product) bool { return p.Farmer == u.ID }), nil
}

// Create adds a new product owned by the signed-in farmer.
func (r *MockProductRepository) Create(_ context.Context, input models.ProductInput) (*models.Product, error) {
	u, err := r.farmer()
	if err != nil {
		return nil, err
	}

	product := applyInput(models.Product{Farmer: u.ID, FarmerName: u.Username}, input)
	created := r.s.backend.AddProduct(product)
	return &created, nil
}

// Update modifies one of the farmer's products. The stored image is kept when
// no new image is attached.
func (r *MockProductRepository) Update(_ context.Context, id int64, input models.ProductInput) (*models.Product, error) {
	u, err := r.farmer()
	if err != nil {
		return nil, err
	}

	b := r.s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	existing, ok := b.products[id]
	if !ok || existing.Farmer != u.ID {
		return nil, notFound("Product")
	}
	updated := applyInput(existing, input)
	if c, ok := b.categories[updated.Category]; ok {
		updated.CategoryName = c.Name
	}
	b.products[id] = updated
	return &updated, nil
}

// Delete removes one of the farmer's products.
func (r *MockProductRepository) Delete(_ context.Context, id int64) error {
	u, err := r.farmer()
	if err != nil {
		return err
	}

	b := r.s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	existing, ok := b.products[id]
	if !ok || existing.Farmer != u.ID {
		return notFound("Product")
	}
	delete(b.products, id)
	return nil
}

// Categories returns every category ordered by ID.
func (r *MockProductRepository) Categories(context.Context) ([]models.Category, error) {
	b := r.s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	categoryList := make([]models.Category, 0, len(b.categories))
	for _, c := range b.categories {
		categoryList = append(categoryList, c)
	}
	sort.Slice(categoryList, func(i, j int) bool { return categoryList[i].ID < categoryList[j].ID })
	return categoryList, nil
}

func (r *MockProductRepository) farmer() (*models.Identity, error) {
	u := r.s.current()
	if u == nil {
		return nil, forbidden()
	}
	if !u.IsFarmer() {
		return nil, &api.APIError{
			StatusCode: http.StatusForbidden,
			Payload:    map[string]any{"error": "Only farmers can manage products"},
		}
	}
	return u, nil
}

func applyInput(p models.Product, input models.ProductInput) models.Product {
	p.Name = input.Name
	p.Category = input.Category
	p.Description = input.Description
	p.Price = input.Price
	p.QuantityAvailable = input.QuantityAvailable
	p.Unit = input.Unit
	p.IsAvailable = input.IsAvailable
	if input.Image != nil {
		p.Image = "/media/products/" + input.Image.Filename
	}
	return p
}
