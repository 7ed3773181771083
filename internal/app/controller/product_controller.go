package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kawuz/kawuz-backend/internal/app/model"
	"github.com/kawuz/kawuz-backend/internal/app/service"
	"github.com/kawuz/kawuz-backend/internal/app/viewmodel"
	httperrors "github.com/kawuz/kawuz-backend/internal/errors"
	"github.com/kawuz/kawuz-backend/internal/middleware"
	"github.com/kawuz/kawuz-backend/internal/websocket"
	"github.com/kawuz/kawuz-backend/pkg/util"
)

type ProductController struct {
	catalogService service.CatalogService
	productService service.ProductService
	hub            *websocket.Hub
}

// NewProductController creates the product controller. hub may be nil in
// tests; broadcasts are skipped then.
func NewProductController(
	catalogService service.CatalogService,
	productService service.ProductService,
	hub *websocket.Hub,
) *ProductController {
	return &ProductController{
		catalogService: catalogService,
		productService: productService,
		hub:            hub,
	}
}

// productView decorates a product with the slug the storefront derives image
// file names from.
type productView struct {
	model.Product
	Slug string `json:"slug"`
}

func toView(p model.Product) productView {
	return productView{Product: p, Slug: util.Slugify(p.Name)}
}

func toViews(products []model.Product) []productView {
	views := make([]productView, len(products))
	for i, p := range products {
		views[i] = toView(p)
	}
	return views
}

// filterableAttributes are the query parameters copied into the filter state.
var filterableAttributes = []viewmodel.Attribute{
	viewmodel.AttrWeight,
	viewmodel.AttrRoastLevel,
	viewmodel.AttrAcidity,
	viewmodel.AttrCaffeineLevel,
	viewmodel.AttrSweetness,
}

// queryFromRequest assembles the catalog query from the request. Admins also
// match product ids in the search box, which is what their table search does.
func queryFromRequest(c *gin.Context) viewmodel.Query {
	filters := viewmodel.NewFilterState()
	for _, attr := range filterableAttributes {
		filters.Set(attr, c.Query(string(attr)))
	}

	sort := viewmodel.SortState{}
	if key := c.Query("sort"); key != "" {
		sort.Key = viewmodel.Attribute(key)
		sort.Ascending = c.DefaultQuery("order", "asc") != "desc"
	}

	return viewmodel.Query{
		Search:  c.Query("search"),
		MatchID: middleware.IsAdmin(c),
		Filters: filters,
		Sort:    sort,
	}
}

// GetProducts returns the catalog after search, filtering and sorting
// GET /api/v1/products
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query := queryFromRequest(c)
	products, err := ctrl.catalogService.ListCatalog(query)
	if err != nil {
		log.Error("Failed to fetch products", err, nil)
		httperrors.InternalError(c, "Nie udało się pobrać produktów")
		return
	}

	log.Info("Products fetched successfully", map[string]interface{}{
		"count": len(products),
	})

	c.JSON(http.StatusOK, gin.H{
		"products": toViews(products),
		"count":    len(products),
	})
}

// GetProductByID returns a product by ID
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			httperrors.NotFound(c, httperrors.ProductNotFound, "Produkt nie został znaleziony")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		httperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": toView(*product),
	})
}

// SearchProducts runs a keyword search against name and description
// GET /api/v1/products/search
func (ctrl *ProductController) SearchProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	keyword := c.Query("q")
	products, err := ctrl.productService.SearchProducts(keyword)
	if err != nil {
		log.Error("Failed to search products", err, map[string]interface{}{
			"keyword": keyword,
		})
		httperrors.InternalError(c, "Nie udało się wyszukać produktów")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": toViews(products),
		"count":    len(products),
	})
}

// GetTopSellers returns the ten best-selling products
// GET /api/v1/products/top
func (ctrl *ProductController) GetTopSellers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productService.GetTopSellers(c.Request.Context())
	if err != nil {
		log.Error("Failed to fetch top sellers", err, nil)
		httperrors.InternalError(c, "Nie udało się pobrać rankingu")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": toViews(products),
		"count":    len(products),
	})
}

// CreateProduct creates a new product (Admin only)
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid product creation request", map[string]interface{}{
			"error": err.Error(),
		})
		httperrors.BadRequest(c, httperrors.ValidationInvalidInput, "Nieprawidłowe dane produktu")
		return
	}

	product, err := ctrl.productService.CreateProduct(input)
	if err != nil {
		ctrl.respondProductError(c, err, "create product")
		return
	}

	ctrl.broadcast("created", product.ID)

	log.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"product": toView(*product),
	})
}

// UpdateProduct updates an existing product (Admin only)
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid product update request", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		httperrors.BadRequest(c, httperrors.ValidationInvalidInput, "Nieprawidłowe dane produktu")
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, input)
	if err != nil {
		ctrl.respondProductError(c, err, "update product")
		return
	}

	ctrl.broadcast("updated", product.ID)

	log.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"product": toView(*product),
	})
}

// DeleteProduct removes a product (Admin only)
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		ctrl.respondProductError(c, err, "delete product")
		return
	}

	ctrl.broadcast("deleted", id)

	log.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Produkt został usunięty",
	})
}

func (ctrl *ProductController) broadcast(action string, productID uint) {
	if ctrl.hub != nil {
		ctrl.hub.BroadcastCatalogUpdated(action, productID)
	}
}

// respondProductError maps service errors onto HTTP responses.
func (ctrl *ProductController) respondProductError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		httperrors.NotFound(c, httperrors.ProductNotFound, "Produkt nie został znaleziony")
	case errors.Is(err, service.ErrInvalidWeight):
		httperrors.BadRequest(c, httperrors.ProductInvalidWeight, "Dostępne gramatury to 500g i 1000g")
	case errors.Is(err, service.ErrInvalidAttribute):
		httperrors.BadRequest(c, httperrors.ProductInvalidProfile, "Parametry profilu kawy muszą mieścić się w zakresie 1-3")
	case errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidStock),
		errors.Is(err, service.ErrProductNameEmpty):
		httperrors.BadRequest(c, httperrors.ValidationInvalidInput, "Nieprawidłowe dane produktu")
	default:
		log.Error("Product operation failed", err, nil)
		info := httperrors.ParseError(err, context)
		httperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
	}
}

// parseIDParam reads the :id path parameter, responding with 400 on garbage.
func parseIDParam(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid product ID format", map[string]interface{}{
			"product_id": idStr,
		})
		httperrors.BadRequest(c, httperrors.ValidationInvalidID, "Nieprawidłowy identyfikator")
		return 0, false
	}
	return uint(id), true
}
