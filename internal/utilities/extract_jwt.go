package utilities

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExtractBearerToken pulls the token out of an "Authorization: Bearer ..."
// header.
func ExtractBearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")

	scheme, token, found := strings.Cut(authHeader, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", fmt.Errorf("Invalid authorization header")
	}

	return token, nil
}
