// Package http exposes the question-answering pipeline over a JSON HTTP API.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewServer builds the echo instance with middleware and routes registered.
func NewServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/", h.Root)
	e.POST("/upload_doc", h.UploadDoc)
	e.POST("/qa", h.QA)
	e.GET("/get_indexes", h.GetIndexes)
	e.GET("/get_convs", h.GetConvs)

	return e
}
