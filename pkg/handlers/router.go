package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// RouterOptions configures the bridge engine.
type RouterOptions struct {
	AllowedOrigins []string
	SessionSecret  []byte
}

// NewRouter wires middleware and every bridge route.
func NewRouter(a *API, opts RouterOptions) *gin.Engine {
	r := gin.Default()

	allowed := make(map[string]bool, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		allowed[o] = true
	}
	r.Use(cors.New(cors.Config{
		// the webview origin may use a custom scheme such as tauri://
		AllowOriginFunc:  func(origin string) bool { return allowed[origin] },
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	store := cookie.NewStore(opts.SessionSecret)
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("wordma_session", store))

	// --- Auth Routes ---
	r.POST("/auth/handshake", a.Handshake)
	r.GET("/auth/github", a.GithubLogin)
	r.GET("/auth/callback", a.AuthCallback)
	r.POST("/auth/logout", Logout)

	authorized := r.Group("/")
	authorized.Use(a.AuthRequired)
	{
		authorized.POST("/invoke/:command", Invoke)

		api := authorized.Group("/api")
		{
			api.GET("/sites", a.ListSites)
			api.POST("/sites", a.CreateSite)
			api.GET("/sites/exists", a.SiteNameExists)
			api.GET("/sites/any", a.HasSites)
			api.GET("/sites/:id", a.GetSite)

			api.GET("/articles", a.ListArticles)
			api.POST("/articles", a.CreateArticle)
			api.GET("/articles/:id", a.GetArticle)
			api.PUT("/articles/:id", a.SaveArticle)
			api.DELETE("/articles/:id", a.DeleteArticle)

			api.GET("/settings/last-site", a.GetLastSite)
			api.PUT("/settings/last-site", a.SetLastSite)

			api.POST("/content/export", a.ExportContent)

			api.GET("/themes", a.ListThemes)
			api.POST("/themes/:name/build", a.BuildTheme)

			api.GET("/deploy/status", a.DeployStatus)
			api.POST("/deploy/push", a.HandlePublish)
		}
	}

	return r
}
