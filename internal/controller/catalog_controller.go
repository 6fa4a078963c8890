package controller

import (
	"strconv"

	"cloess-chatbot-be/internal/dto"
	"cloess-chatbot-be/internal/pkg/serverutils"
	"cloess-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	PriceRange(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Categories(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type catalogController struct {
	catalogService service.ICatalogService
}

func NewCatalogController(catalogService service.ICatalogService) ICatalogController {
	return &catalogController{catalogService: catalogService}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
	r.Get("/categories", c.Categories)

	h := r.Group("/products")
	h.Get("", c.List)
	h.Get("/search", c.Search)
	h.Get("/price-range", c.PriceRange)
	h.Get("/stats", c.Stats)
	h.Get("/:id", c.Show)
}

func (c *catalogController) List(ctx *fiber.Ctx) error {
	req := dto.ListProductsRequest{Limit: 50}
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.catalogService.List(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get products", res))
}

func (c *catalogController) Search(ctx *fiber.Ctx) error {
	req := dto.SearchProductsRequest{Limit: 20}
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.catalogService.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success search products", res))
}

func (c *catalogController) PriceRange(ctx *fiber.Ctx) error {
	req := dto.PriceRangeRequest{Limit: 50}
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	var err error
	if req.MinPrice, err = queryFloat(ctx, "min_price"); err != nil {
		return err
	}
	if req.MaxPrice, err = queryFloat(ctx, "max_price"); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.catalogService.PriceRange(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get products by price range", res))
}

func (c *catalogController) Stats(ctx *fiber.Ctx) error {
	res, err := c.catalogService.Stats(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get catalog stats", res))
}

func (c *catalogController) Show(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
	}

	res, err := c.catalogService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get product", res))
}

func (c *catalogController) Categories(ctx *fiber.Ctx) error {
	res, err := c.catalogService.Categories(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get categories", res))
}

func (c *catalogController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.HealthResponse{Status: "healthy", Message: "CLOESS chatbot API is running"})
}

// queryFloat returns nil when the parameter is absent.
func queryFloat(ctx *fiber.Ctx, key string) (*float64, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, key+" must be a number")
	}
	return &v, nil
}
