package handler

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"storeit/internal/http/middleware"
	"storeit/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Routes under
// /me, /files and /usage require a valid session cookie.
func RegisterRoutes(app *fiber.App, db *sql.DB, fileSvc service.FileService, authSvc service.AuthService, sessionTTL time.Duration) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/auth/sign-up", SignUp(authSvc))
	app.Post("/auth/sign-in", SignIn(authSvc))
	app.Post("/auth/otp/resend", ResendOTP(authSvc))
	app.Post("/auth/otp/verify", VerifyOTP(authSvc, sessionTTL))
	app.Post("/auth/sign-out", SignOut(authSvc))

	auth := middleware.SessionAuth(authSvc)

	app.Get("/me", auth, Me())

	app.Get("/files", auth, ListFiles(fileSvc))
	app.Post("/files", auth, UploadFile(fileSvc))
	app.Get("/files/:id", auth, GetFile(fileSvc))
	app.Get("/files/:id/download", auth, DownloadFile(fileSvc))
	app.Patch("/files/:id", auth, RenameFile(fileSvc))
	app.Post("/files/:id/share", auth, ShareFile(fileSvc))
	app.Delete("/files/:id/share", auth, UnshareFile(fileSvc))
	app.Delete("/files/:id", auth, DeleteFile(fileSvc))

	app.Get("/usage", auth, StorageUsage(fileSvc))
}
