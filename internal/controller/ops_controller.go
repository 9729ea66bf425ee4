// FILE: internal/controller/ops_controller.go
package controller

import (
	"workalone-be/internal/dto"
	"workalone-be/internal/pkg/logger"
	"workalone-be/internal/pkg/serverutils"
	"workalone-be/internal/service"
	internalWS "workalone-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
)

type IOpsController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Overview(ctx *fiber.Ctx) error
	ListUsers(ctx *fiber.Ctx) error
	UserDetail(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	SessionDetail(ctx *fiber.Ctx) error
	ListMessages(ctx *fiber.Ctx) error
	ListLogs(ctx *fiber.Ctx) error
	LogDetail(ctx *fiber.Ctx) error
	ServeWs(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type opsController struct {
	authService    service.IAuthService
	monitorService service.IMonitorService
	hub            *internalWS.Hub
	logger         logger.ILogger
}

func NewOpsController(
	authService service.IAuthService,
	monitorService service.IMonitorService,
	hub *internalWS.Hub,
	log logger.ILogger,
) IOpsController {
	return &opsController{
		authService:    authService,
		monitorService: monitorService,
		hub:            hub,
		logger:         log,
	}
}

func (c *opsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ops")

	// Public: login, and the feed endpoint whose auth happens inside the
	// handshake (browsers cannot set headers on websocket connections).
	h.Post("/login", c.Login)
	h.Get("/events/ws", c.ServeWs)

	h.Use(serverutils.JwtMiddleware)
	h.Get("/overview", c.Overview)
	h.Get("/users", c.ListUsers)
	h.Get("/users/:id", c.UserDetail)
	h.Get("/sessions", c.ListSessions)
	h.Get("/sessions/:id", c.SessionDetail)
	h.Get("/messages", c.ListMessages)
	h.Get("/logs", c.ListLogs)
	h.Get("/logs/:id", c.LogDetail)
}

func (c *opsController) Login(ctx *fiber.Ctx) error {
	var req dto.OpsLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.authService.LoginOps(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *opsController) Overview(ctx *fiber.Ctx) error {
	res, err := c.monitorService.GetOverview(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get overview", res))
}

func (c *opsController) ListUsers(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)

	res, err := c.monitorService.GetAllUsers(ctx.Context(), page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get users", res))
}

func (c *opsController) UserDetail(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	res, err := c.monitorService.GetUserDetail(ctx.Context(), uint(id))
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get user", res))
}

func (c *opsController) ListSessions(ctx *fiber.Ctx) error {
	status := ctx.Query("status")
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)

	res, err := c.monitorService.GetSessions(ctx.Context(), status, page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get sessions", res))
}

func (c *opsController) SessionDetail(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.monitorService.GetSessionDetail(ctx.Context(), uint(id))
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *opsController) ListMessages(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)

	var userId *uint
	if raw := ctx.QueryInt("user_id", 0); raw > 0 {
		id := uint(raw)
		userId = &id
	}

	res, err := c.monitorService.GetMessages(ctx.Context(), userId, page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}

func (c *opsController) ListLogs(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 50)
	level := ctx.Query("level")

	res, err := c.monitorService.GetSystemLogs(ctx.Context(), page, limit, level)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get logs", res))
}

func (c *opsController) LogDetail(ctx *fiber.Ctx) error {
	res, err := c.monitorService.GetLogDetail(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "log not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get log", res))
}

// ServeWs authenticates the handshake and upgrades it onto the event hub.
func (c *opsController) ServeWs(ctx *fiber.Ctx) error {
	// Priority 1: query param (browser standard)
	tokenStr := ctx.Query("token")

	// Priority 2: Authorization header (tooling)
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token (query 'token' or header 'Authorization')"))
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(serverutils.JwtSecret()), nil
	})
	if err != nil || !token.Valid {
		c.logger.Warn("OPS", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token claims"))
	}
	operator, _ := claims["sub"].(string)

	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			c.logger.Info("OPS", "Dashboard feed started", map[string]interface{}{"operator": operator})
			internalWS.ServeWs(c.hub, conn)
			c.logger.Info("OPS", "Dashboard feed ended", map[string]interface{}{"operator": operator})
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}

// Health is registered at the app root, outside /api and without auth, so
// load balancers can probe it.
func (c *opsController) Health(ctx *fiber.Ctx) error {
	res := c.monitorService.GetHealth(ctx.Context())
	if res.Status != "ok" {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(res)
	}
	return ctx.JSON(res)
}
