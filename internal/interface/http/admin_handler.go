package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/greenpc/marketplace/internal/application"
	"github.com/greenpc/marketplace/internal/domain/entity"
	"github.com/greenpc/marketplace/internal/interface/middleware"
	"github.com/greenpc/marketplace/pkg/response"
)

// AdminHandler groups the moderation endpoints: account listings and
// deletions, seller verification, and reported-product cleanup.
type AdminHandler struct {
	Users   *application.UserService
	Catalog *application.CatalogService
	Logger  *logrus.Logger
}

func NewAdminHandler(users *application.UserService, catalog *application.CatalogService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Users: users, Catalog: catalog, Logger: logger}
}

func (h *AdminHandler) ListSellers(c *gin.Context) { h.listByRole(c, entity.RoleSeller, "sellers") }
func (h *AdminHandler) ListBuyers(c *gin.Context)  { h.listByRole(c, entity.RoleBuyer, "buyers") }

func (h *AdminHandler) listByRole(c *gin.Context, role entity.Role, label string) {
	users, err := h.Users.ListByRole(c.Request.Context(), role)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list "+label, nil)
		return
	}
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userPayload(&users[i]))
	}
	response.Success(c, http.StatusOK, out, label, nil)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.ListAll(c.Request.Context())
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list users", nil)
		return
	}
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userPayload(&users[i]))
	}
	response.Success(c, http.StatusOK, out, "users", nil)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to delete user", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "user deleted", nil)
}

func (h *AdminHandler) VerifySeller(c *gin.Context) {
	if err := h.Users.VerifySeller(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "seller not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to verify seller", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"verified": true}, "seller verified", nil)
}

func (h *AdminHandler) ReportedProducts(c *gin.Context) {
	products, err := h.Catalog.ReportedProducts(c.Request.Context())
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list reported products", nil)
		return
	}
	response.Success(c, http.StatusOK, products, "reported products", nil)
}

func (h *AdminHandler) DeleteReportedProduct(c *gin.Context) {
	err := h.Catalog.DeleteProduct(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserEmailKey), true)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "product not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to delete product", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "product deleted", nil)
}
