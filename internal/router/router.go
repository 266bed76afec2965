package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/room-rental-management/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/room-rental-management/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/iliyamo/room-rental-management/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring poll this endpoint.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware. Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotating refresh: exchanges the refresh token for a new pair.
	g.POST("/refresh", a.Refresh)
	// Non-rotating refresh: issues a new access token only.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a Bearer access token (revoke all sessions)
	// or a refresh_token body (revoke one session), so no JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleLandlord, model.RoleTenant))
	auth.GET("/me", a.Me)
}

// RoomRouteDeps bundles everything needed to mount the resource routes:
// the handlers plus the middleware applied to read and write paths.
type RoomRouteDeps struct {
	Rooms     *handler.RoomHandler
	Buildings *handler.BuildingHandler
	Addresses *handler.AddressHandler
	Contracts *handler.ContractHandler
	Payments  *handler.PaymentHandler
	JWTSecret string
	Cache     echo.MiddlewareFunc // response cache for read endpoints (may be nil)
	RateLimit echo.MiddlewareFunc // token bucket for read endpoints (may be nil)
}

// RegisterResources mounts the rental domain endpoints. Reads on rooms
// are public (cached and rate limited); every mutation requires a JWT,
// with landlord-only access on rooms, buildings and addresses.
func RegisterResources(e *echo.Echo, d RoomRouteDeps) {
	reads := e.Group("/v1")
	if d.RateLimit != nil {
		reads.Use(d.RateLimit)
	}
	if d.Cache != nil {
		reads.Use(d.Cache)
	}
	reads.GET("/rooms", d.Rooms.List)
	reads.GET("/rooms/:id", d.Rooms.Get)

	landlord := e.Group("/v1")
	landlord.Use(middleware.JWTAuth(d.JWTSecret))
	landlord.Use(middleware.RequireRole(model.RoleLandlord))
	landlord.POST("/rooms", d.Rooms.Create)
	landlord.PUT("/rooms/:id", d.Rooms.Update)
	landlord.DELETE("/rooms/:id", d.Rooms.Delete)

	landlord.POST("/buildings", d.Buildings.Create)
	landlord.GET("/buildings", d.Buildings.List)
	landlord.GET("/buildings/:id", d.Buildings.Get)
	landlord.PUT("/buildings/:id", d.Buildings.Update)
	landlord.DELETE("/buildings/:id", d.Buildings.Delete)

	landlord.POST("/addresses", d.Addresses.Create)
	landlord.GET("/addresses", d.Addresses.List)
	landlord.GET("/addresses/:id", d.Addresses.Get)
	landlord.PUT("/addresses/:id", d.Addresses.Update)
	landlord.DELETE("/addresses/:id", d.Addresses.Delete)

	landlord.POST("/contracts", d.Contracts.Create)
	landlord.PATCH("/contracts/:id/status", d.Contracts.UpdateStatus)

	// Contracts and payments are visible to both roles; tenants can
	// inspect their own agreements and record payments.
	member := e.Group("/v1")
	member.Use(middleware.JWTAuth(d.JWTSecret))
	member.Use(middleware.RequireRole(model.RoleLandlord, model.RoleTenant))
	member.GET("/contracts", d.Contracts.List)
	member.GET("/contracts/:id", d.Contracts.Get)
	member.GET("/contracts/:id/payments", d.Payments.ListByContract)
	member.POST("/payments", d.Payments.Create)
}
