package controller

import (
	"context"
	"strings"

	"cloess-chatbot-be/internal/dto"
	"cloess-chatbot-be/internal/pkg/serverutils"
	"cloess-chatbot-be/internal/service"
	chatws "cloess-chatbot-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatbotService
	hub         *chatws.Hub
}

func NewChatController(chatService service.IChatbotService, hub *chatws.Hub) IChatController {
	return &chatController{
		chatService: chatService,
		hub:         hub,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("", c.Chat)
	h.Get("/history/:session_id", c.History)

	if c.hub != nil {
		h.Use("/ws", func(ctx *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(ctx) {
				return ctx.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		h.Get("/ws", websocket.New(c.serveSocket))
	}
}

// Chat answers one visitor message. The body stays flat so existing
// storefront widgets keep working.
func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Message = strings.TrimSpace(req.Message)

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SendChat(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	res, err := c.chatService.History(ctx.UserContext(), ctx.Params("session_id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) serveSocket(conn *websocket.Conn) {
	sessionID := conn.Query("session_id")
	if sessionID == "" {
		sessionID = service.NewSessionId()
	}

	chatws.ServeWs(c.hub, conn, sessionID, func(ctx context.Context, sid, message string) (string, error) {
		req := dto.ChatRequest{Message: strings.TrimSpace(message), SessionId: sid}
		if err := serverutils.ValidateRequest(req); err != nil {
			return "", err
		}
		res, err := c.chatService.SendChat(ctx, &req)
		if err != nil {
			return "", err
		}
		return res.Response, nil
	})
}
