package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskflow/internal/apperr"
)

func (s *Server) handleUpload(c echo.Context) error {
	if s.uploader == nil {
		return failWith(c, http.StatusServiceUnavailable, "upload service not configured")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		v := &apperr.ValidationError{}
		return respondError(c, v.Add("file", "no file provided"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer file.Close()

	result, err := s.uploader.Upload(c.Request().Context(), file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, result, "file uploaded successfully")
}
