package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/netpointcafe/portal-backend/internal/service"
)

type DocumentHandler struct {
	svc service.DocumentService
}

func NewDocumentHandler(svc service.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// Upload accepts multipart form data with a "file" part and an optional
// "folderPath" field.
func (h *DocumentHandler) Upload(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "file is required"))
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "cannot read file"))
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "cannot read file"))
	}

	var folderPath *string
	if fp := c.FormValue("folderPath"); fp != "" {
		folderPath = &fp
	}
	contentType := fh.Header.Get("Content-Type")

	doc, err := h.svc.Save(c.Request().Context(), uid, fh.Filename, contentType, folderPath, data)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, doc)
}

func (h *DocumentHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListMine(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch documents"))
	}
	return c.JSON(http.StatusOK, list)
}
