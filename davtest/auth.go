package davtest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type config struct {
	users map[string]string
}

type Option func(c *config)

// WithUsers makes the stub require basic auth matching one of ak->sk.
func WithUsers(users map[string]string) Option {
	return func(c *config) {
		c.users = users
	}
}

func checkBasicAuth(c *gin.Context, users map[string]string) (string, error) {
	uak, usk, ok := c.Request.BasicAuth()
	if !ok {
		return "", fmt.Errorf("no auth found")
	}
	sk, ok := users[uak]
	if !ok {
		return "", fmt.Errorf("user not found, u:%s", uak)
	}
	if sk != usk {
		return "", fmt.Errorf("sk not match, u:%s", uak)
	}
	return uak, nil
}

func mustAuthMiddleware(users map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := checkBasicAuth(c, users); err != nil {
			c.Header("WWW-Authenticate", `Basic realm="Restricted Area"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
	}
}
