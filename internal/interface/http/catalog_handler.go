package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/greenpc/marketplace/internal/application"
	"github.com/greenpc/marketplace/internal/interface/middleware"
	"github.com/greenpc/marketplace/pkg/response"
	"github.com/greenpc/marketplace/pkg/validation"
)

type CatalogHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewCatalogHandler(svc *application.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

type createCategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=64"`
}

type createProductRequest struct {
	CategoryID  string  `json:"category_id" binding:"required,uuid"`
	Name        string  `json:"name" binding:"required,min=2,max=128"`
	Description string  `json:"description" binding:"max=2048"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

type wishlistRequest struct {
	BuyerEmail string `json:"buyer_email" binding:"omitempty,email"`
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cat, err := h.Svc.CreateCategory(c.Request.Context(), req.Name, c.GetString(middleware.CtxUserEmailKey))
	if err != nil {
		if errors.Is(err, application.ErrCategoryExists) {
			response.Error[any](c, http.StatusConflict, "this category already exists, try another", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to create category", nil)
		return
	}
	response.Success(c, http.StatusCreated, cat, "category created", nil)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	cats, err := h.Svc.ListCategories(c.Request.Context())
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list categories", nil)
		return
	}
	response.Success(c, http.StatusOK, cats, "categories", nil)
}

func (h *CatalogHandler) CategoryNames(c *gin.Context) {
	names, err := h.Svc.CategoryNames(c.Request.Context())
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list category names", nil)
		return
	}
	response.Success(c, http.StatusOK, names, "category names", nil)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	cat, err := h.Svc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "category not found", nil)
		return
	}
	response.Success(c, http.StatusOK, cat, "category", nil)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.CreateProduct(c.Request.Context(), c.GetString(middleware.CtxUserEmailKey), application.CreateProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "category not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to create product", nil)
		return
	}
	response.Success(c, http.StatusCreated, p, "product listed", nil)
}

func (h *CatalogHandler) SellerProducts(c *gin.Context) {
	products, err := h.Svc.SellerProducts(c.Request.Context(), c.GetString(middleware.CtxUserEmailKey), c.Param("email"))
	if err != nil {
		if errors.Is(err, application.ErrForbidden) {
			response.Error[any](c, http.StatusForbidden, "forbidden access", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to list products", nil)
		return
	}
	response.Success(c, http.StatusOK, products, "seller products", nil)
}

func (h *CatalogHandler) AdvertisedProducts(c *gin.Context) {
	products, err := h.Svc.AdvertisedProducts(c.Request.Context())
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list advertised products", nil)
		return
	}
	response.Success(c, http.StatusOK, products, "advertised products", nil)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.Svc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "product not found", nil)
		return
	}
	response.Success(c, http.StatusOK, p, "product", nil)
}

func (h *CatalogHandler) ProductsByCategory(c *gin.Context) {
	products, err := h.Svc.ProductsByCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list products", nil)
		return
	}
	response.Success(c, http.StatusOK, products, "available products", nil)
}

func (h *CatalogHandler) Advertise(c *gin.Context) {
	err := h.Svc.Advertise(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserEmailKey))
	if err != nil {
		writeCatalogError(c, err, "failed to advertise product")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"advertised": true}, "product advertised", nil)
}

func (h *CatalogHandler) Wishlist(c *gin.Context) {
	var req wishlistRequest
	_ = c.ShouldBindJSON(&req) // body optional; identity comes from the token
	err := h.Svc.Wishlist(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserEmailKey))
	if err != nil {
		writeCatalogError(c, err, "failed to wishlist product")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"wishlisted": true}, "product wishlisted", nil)
}

func (h *CatalogHandler) WishlistByBuyer(c *gin.Context) {
	products, err := h.Svc.WishlistByBuyer(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list wishlist", nil)
		return
	}
	response.Success(c, http.StatusOK, products, "wishlist", nil)
}

func (h *CatalogHandler) Report(c *gin.Context) {
	if err := h.Svc.Report(c.Request.Context(), c.Param("id")); err != nil {
		writeCatalogError(c, err, "failed to report product")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reported": true}, "product reported", nil)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	err := h.Svc.DeleteProduct(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserEmailKey), false)
	if err != nil {
		writeCatalogError(c, err, "failed to delete product")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "product deleted", nil)
}

func (h *CatalogHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image file required", nil)
		return
	}
	f, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unable to read image", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadProductImage(c.Request.Context(), c.Param("id"),
		c.GetString(middleware.CtxUserEmailKey), f, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		writeCatalogError(c, err, "failed to upload image")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"image_url": url}, "image uploaded", nil)
}

func (h *CatalogHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchProducts(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}

func writeCatalogError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "forbidden access", nil)
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "product not found", nil)
	case errors.Is(err, application.ErrProductSold):
		response.Error[any](c, http.StatusConflict, "product already sold", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, fallback, nil)
	}
}
