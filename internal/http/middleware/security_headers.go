package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders adds security headers. Proxied images stay embeddable from
// other origins so the result can be shown by a separate frontend.
func SecurityHeaders() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Header("X-Frame-Options", "DENY")
		ctx.Header("X-Content-Type-Options", "nosniff")
		ctx.Header("Referrer-Policy", "no-referrer")
		ctx.Header("Cross-Origin-Resource-Policy", "cross-origin")
		ctx.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		ctx.Next()
	}
}
