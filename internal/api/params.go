package api

import (
	"errors"         // Error inspection
	"mime/multipart" // Uploaded file headers
	"net/http"       // Missing file sentinel
	"strconv"        // Parsing path and form values
	"strings"        // Trimming input

	"auction_system/internal/service" // Upload type

	"github.com/gin-gonic/gin" // Gin web framework
)

// pathID parses a positive numeric path parameter
func pathID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// optionalFloat parses a form or query number; empty means "not given"
func optionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, service.ErrInvalidInput
	}
	return &v, nil
}

// optionalBool parses "true"/"false"; anything else that is non-empty counts as false
func optionalBool(s string) *bool {
	if s == "" {
		return nil
	}
	v := s == "true"
	return &v
}

// formUpload opens the multipart file in field. It returns nil when no file was sent.
func formUpload(c *gin.Context, field string) (*service.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return nil, func() {}, service.ErrImageTooLarge
	}
	if err != nil {
		return nil, func() {}, service.ErrInvalidInput
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (*service.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	up := &service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}
	return up, func() { _ = f.Close() }, nil
}
