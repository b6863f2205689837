// Package router wires URL paths to handlers. Route groups are split
// by exposure: health and public metadata need no token, everything
// touching per-bracelet state sits behind JWT auth.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bracelet-energy/internal/handler"
	"github.com/iliyamo/bracelet-energy/internal/middleware"
)

// RegisterHealth mounts the health check.
func RegisterHealth(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth mounts the account endpoints. Everything except Me is
// reachable without a token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
	e.POST("/v1/logout-all", a.LogoutAll, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic mounts the read-only endpoints that serve static or
// remote data: the leveling table and the bracelet metadata proxy.
// These are the cacheable ones, so the cache middleware goes here.
func RegisterPublic(e *echo.Echo, m *handler.MeritHandler, b *handler.BraceletHandler, cacheMW echo.MiddlewareFunc) {
	e.GET("/v1/merit/levels", m.Levels, cacheMW)
	e.GET("/v1/bracelets/:id/info", b.Info, cacheMW)
	e.GET("/v1/bracelets/:id/status", b.Status)
}

// RegisterBracelet mounts the per-bracelet lifecycle endpoints behind
// JWT auth.
func RegisterBracelet(e *echo.Echo, jwtSecret string,
	en *handler.EnergyHandler, se *handler.SessionHandler,
	me *handler.MeritHandler, co *handler.ConsecrationHandler,
	ad *handler.AdviceHandler) {

	g := e.Group("/v1/bracelets/:id", middleware.JWTAuth(jwtSecret))

	// Energy ledger.
	g.GET("/energy", en.Current)
	g.GET("/energy/history", en.History)
	g.POST("/energy", en.Record)

	// Wearing sessions.
	g.POST("/sessions", se.Start)
	g.GET("/sessions", se.History)
	g.GET("/sessions/current", se.Current)
	g.DELETE("/sessions/current", se.End)

	// Merit.
	g.GET("/merit", me.Record)
	g.POST("/merit", me.Add)
	g.POST("/practice", me.Practice)

	// Consecrations.
	g.GET("/consecrations", co.List)
	g.POST("/consecrations", co.Create)
	g.GET("/consecrations/validate", co.Validate)

	// Analysis.
	g.GET("/trend", ad.Trend)
	g.GET("/advice", ad.Advice)
}
