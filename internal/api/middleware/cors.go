package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORS returns cross-origin middleware for the dashboard. An empty origin
// list allows any origin.
func CORS(origins []string) gin.HandlerFunc {
	opts := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Accept", "x-api-key"},
		MaxAge:         600,
	}
	if len(origins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	c := cors.New(opts)

	return func(gc *gin.Context) {
		c.HandlerFunc(gc.Writer, gc.Request)
		// Preflight requests end here; rs/cors has already written the
		// response headers.
		if gc.Request.Method == http.MethodOptions &&
			gc.GetHeader("Access-Control-Request-Method") != "" {
			gc.AbortWithStatus(http.StatusNoContent)
			return
		}
		gc.Next()
	}
}
