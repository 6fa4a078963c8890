package controller

import (
	"strconv"
	"strings"

	"cloess-chatbot-be/internal/dto"
	"cloess-chatbot-be/internal/pkg/serverutils"
	"cloess-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAnalyticsController interface {
	RegisterRoutes(r fiber.Router)
	TrackSession(ctx *fiber.Ctx) error
	TrackInteraction(ctx *fiber.Ctx) error
	Users(ctx *fiber.Ctx) error
	Products(ctx *fiber.Ctx) error
	Countries(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
}

type analyticsController struct {
	analyticsService service.IAnalyticsService
	jwtSecret        string
}

func NewAnalyticsController(analyticsService service.IAnalyticsService, jwtSecret string) IAnalyticsController {
	return &analyticsController{
		analyticsService: analyticsService,
		jwtSecret:        jwtSecret,
	}
}

func (c *analyticsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/analytics")
	h.Post("/session", c.TrackSession)
	h.Post("/track-interaction", c.TrackInteraction)

	// Reports are for the back office only.
	auth := serverutils.JwtMiddleware(c.jwtSecret)
	h.Get("/users", auth, c.Users)
	h.Get("/products", auth, c.Products)
	h.Get("/countries", auth, c.Countries)
	h.Get("/logs", auth, c.Logs)
}

func (c *analyticsController) TrackSession(ctx *fiber.Ctx) error {
	session, err := c.analyticsService.TrackSession(ctx.Context(), clientIP(ctx), ctx.Get(fiber.HeaderUserAgent))
	if err != nil {
		return err
	}
	return ctx.JSON(dto.TrackingStatusResponse{Status: "success", UserSessionId: session.Id})
}

// TrackInteraction queues the event and answers immediately; tracking never
// fails the storefront.
func (c *analyticsController) TrackInteraction(ctx *fiber.Ctx) error {
	var req dto.TrackInteractionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	status := "success"
	if !c.analyticsService.QueueInteraction(ctx.Context(), clientIP(ctx), ctx.Get(fiber.HeaderUserAgent), &req) {
		status = "error"
	}
	return ctx.JSON(dto.TrackingStatusResponse{Status: status})
}

func (c *analyticsController) Users(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 100)
	if limit < 1 || limit > 1000 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 1000")
	}

	res, err := c.analyticsService.VisitorReport(ctx.Context(), limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get visitor report", res))
}

func (c *analyticsController) Products(ctx *fiber.Ctx) error {
	var productId *int
	if raw := ctx.Query("product_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id must be a positive integer")
		}
		productId = &id
	}

	res, err := c.analyticsService.EngagementReport(ctx.Context(), productId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get product engagement", res))
}

func (c *analyticsController) Countries(ctx *fiber.Ctx) error {
	res, err := c.analyticsService.CountryReport(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get country report", res))
}

func (c *analyticsController) Logs(ctx *fiber.Ctx) error {
	req := dto.LogListRequest{Limit: 100}
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	req.Level = strings.ToLower(req.Level)
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.analyticsService.Logs(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get logs", res))
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func clientIP(ctx *fiber.Ctx) string {
	if fwd := ctx.Get(fiber.HeaderXForwardedFor); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if real := strings.TrimSpace(ctx.Get("X-Real-IP")); real != "" {
		return real
	}
	return ctx.IP()
}
