package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidPage = errors.New("page must be an integer")
	errInvalidID   = errors.New("invalid id")
)

// parsePage reads the 1-indexed page query parameter; it defaults to 1.
// Range checks are left to the feed, which knows the page count.
func parsePage(c *gin.Context) (int, error) {
	raw := c.Query("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errInvalidPage
	}
	return page, nil
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}
