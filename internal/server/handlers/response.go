package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, models.APIResponse{Code: status, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, models.APIResponse{Code: status, Message: err.Error()})
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
