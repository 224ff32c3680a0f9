package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/auth"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
)

// UserIDKey is the gin context key under which Identify stores the
// authenticated subject id.
const UserIDKey = "userID"

// Identify verifies the bearer credential (signature and expiry) and
// resolves the embedded subject id. Verification failure aborts the
// request; there is no fallback identity.
func Identify(tokens *auth.TokenManager, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Middleware: Authorization header is missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warnf("Middleware: Invalid Authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format"})
			return
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			log.Warnf("Middleware: Token verification failed: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// RequireAdmin authorizes an already-identified subject against its
// stored role. Anything but an admin role, including a failed lookup,
// denies the request before any mutation runs.
func RequireAdmin(users domain.UserRepository, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt(UserIDKey)
		if userID <= 0 {
			log.Error("Middleware: RequireAdmin invoked without an identified subject")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, err := users.GetUserByID(userID)
		if err != nil {
			log.Warnf("Middleware: Role lookup failed for user ID %d: %v", userID, err)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		if user.Role != domain.RoleAdmin {
			log.Warnf("Middleware: User ID %d denied admin access (role %d)", userID, user.Role)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Next()
	}
}

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		entry := logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"remote_ip": c.ClientIP(),
		})
		entry.Info("Incoming request")

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		completedEntry := logger.WithFields(logrus.Fields{
			"status_code": statusCode,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"latency_ms":  latency.Milliseconds(),
		})

		switch {
		case statusCode >= 500:
			completedEntry.Error("Request completed with server error")
		case statusCode >= 400:
			completedEntry.Warn("Request completed with client error")
		default:
			completedEntry.Info("Request completed successfully")
		}
	}
}
