package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/greenpc/marketplace/internal/domain/entity"
	repo "github.com/greenpc/marketplace/internal/domain/repository"
	"github.com/greenpc/marketplace/pkg/helpers"
)

// CatalogService owns categories and the product lifecycle. Every product
// mutation routes through here; nothing else writes product records.
type CatalogService struct {
	Categories repo.CategoryRepository
	Products   repo.ProductRepository
	Logger     *logrus.Logger

	GCS       *storage.Client
	GCSBucket string

	ES              *elasticsearch.Client
	ESProductsIndex string

	// WishlistSoldAllowed preserves the legacy behavior of wish-listing an
	// already-sold product. Off by default; sold products reject interest.
	WishlistSoldAllowed bool
}

func NewCatalogService(categories repo.CategoryRepository, products repo.ProductRepository, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Categories: categories, Products: products, Logger: logger}
}

// CreateCategory normalizes the name to lower-case for storage and
// comparison, so uniqueness is case-insensitive.
func (s *CatalogService) CreateCategory(ctx context.Context, name, sellerEmail string) (*entity.Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, err := s.Categories.GetByName(ctx, name); err == nil {
		return nil, ErrCategoryExists
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	c := &entity.Category{Name: name, CreatedBy: sellerEmail}
	if err := s.Categories.Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.Categories.List(ctx)
}

func (s *CatalogService) CategoryNames(ctx context.Context) ([]string, error) {
	return s.Categories.ListNames(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	c, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

type CreateProductInput struct {
	CategoryID  string
	Name        string
	Description string
	Price       float64
}

// CreateProduct lists a new product for the seller and indexes it for search.
func (s *CatalogService) CreateProduct(ctx context.Context, sellerEmail string, in CreateProductInput) (*entity.Product, error) {
	if _, err := s.Categories.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p := &entity.Product{
		CategoryID:  in.CategoryID,
		SellerEmail: sellerEmail,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Status:      entity.StatusListed,
	}
	if err := s.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	_ = s.indexProduct(ctx, p)
	return p, nil
}

// SellerProducts enforces the ownership check: the path email must match the
// verified token email.
func (s *CatalogService) SellerProducts(ctx context.Context, tokenEmail, sellerEmail string) ([]entity.Product, error) {
	if tokenEmail != sellerEmail {
		return nil, ErrForbidden
	}
	return s.Products.ListBySeller(ctx, sellerEmail)
}

func (s *CatalogService) AdvertisedProducts(ctx context.Context) ([]entity.Product, error) {
	return s.Products.ListAdvertised(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) ProductsByCategory(ctx context.Context, categoryID string) ([]entity.Product, error) {
	return s.Products.ListByCategory(ctx, categoryID)
}

// Advertise promotes a listing into the public feed. Only the owning seller
// may advertise, and a sold product cannot re-enter the feed.
func (s *CatalogService) Advertise(ctx context.Context, productID, sellerEmail string) error {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if p.SellerEmail != sellerEmail {
		return ErrForbidden
	}
	applied, err := s.Products.Advertise(ctx, productID)
	if err != nil {
		return err
	}
	if !applied {
		return ErrProductSold
	}
	_ = s.indexProduct(ctx, p)
	return nil
}

// Wishlist records the buyer's interest, overwriting any prior interested
// buyer. Sold products are rejected unless the compatibility toggle is on.
func (s *CatalogService) Wishlist(ctx context.Context, productID, buyerEmail string) error {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return err
	}
	applied, err := s.Products.SetWishlist(ctx, productID, buyerEmail, s.WishlistSoldAllowed)
	if err != nil {
		return err
	}
	if !applied {
		return ErrProductSold
	}
	return nil
}

func (s *CatalogService) WishlistByBuyer(ctx context.Context, buyerEmail string) ([]entity.Product, error) {
	return s.Products.ListWishlistedBy(ctx, buyerEmail)
}

// Report flags a listing for moderation. Reports are orthogonal to the
// lifecycle status and may coexist with a wishlist entry.
func (s *CatalogService) Report(ctx context.Context, productID string) error {
	if err := s.Products.MarkReported(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *CatalogService) ReportedProducts(ctx context.Context) ([]entity.Product, error) {
	return s.Products.ListReported(ctx)
}

// DeleteProduct removes a listing. Sellers may delete their own products;
// admins may delete any (used for reported items).
func (s *CatalogService) DeleteProduct(ctx context.Context, productID, actorEmail string, admin bool) error {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !admin && p.SellerEmail != actorEmail {
		return ErrForbidden
	}
	if err := s.Products.Delete(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.Logger.WithFields(logrus.Fields{"product_id": productID, "actor": actorEmail}).Info("product deleted")
	return nil
}

// UploadProductImage stores the image in GCS and saves the public URL on the
// product. Only the owning seller may upload.
func (s *CatalogService) UploadProductImage(ctx context.Context, productID, sellerEmail string, r io.Reader, filename, contentType string) (string, error) {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return "", err
	}
	if p.SellerEmail != sellerEmail {
		return "", ErrForbidden
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("products", productID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	if err := s.Products.SetImageURL(ctx, productID, url); err != nil {
		return "", err
	}
	p.ImageURL = url
	_ = s.indexProduct(ctx, p)
	return url, nil
}

func (s *CatalogService) indexProduct(ctx context.Context, p *entity.Product) error {
	if s.ES == nil || s.ESProductsIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":           p.ID,
		"category_id":  p.CategoryID,
		"seller_email": p.SellerEmail,
		"name":         p.Name,
		"description":  p.Description,
		"price":        p.Price,
		"status":       string(p.Status),
		"created_at":   p.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESProductsIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("product_id", p.ID).Warn("es index response error")
	}
	return nil
}

// SearchProducts performs a simple multi_match search on name and description.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESProductsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESProductsIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
