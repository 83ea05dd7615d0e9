package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"wordma/pkg/models"
	"wordma/pkg/services"
)

// API carries the dependencies of the bridge handlers.
type API struct {
	Store       *services.Store
	Themes      *services.ThemeManager
	Deploy      *services.DeployManager
	ContentDir  string
	BridgeToken string
	OAuth       *oauth2.Config
}

// errorStatus maps service errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrThemeNotFound),
		errors.Is(err, services.ErrDeployMissing):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSiteNameTaken),
		errors.Is(err, services.ErrThemeExists):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrNoPackageJSON),
		errors.Is(err, services.ErrNotProject):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// --- Sites ---

func (a *API) ListSites(c *gin.Context) {
	sites, err := a.Store.ListSites(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sites)
}

func (a *API) CreateSite(c *gin.Context) {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Path        *string `json:"path"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	id, err := a.Store.CreateSite(c.Request.Context(), req.Name, req.Description, req.Path)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (a *API) GetSite(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	site, err := a.Store.GetSite(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, site)
}

func (a *API) SiteNameExists(c *gin.Context) {
	exists, err := a.Store.SiteNameExists(c.Request.Context(), c.Query("name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (a *API) HasSites(c *gin.Context) {
	has, err := a.Store.HasSites(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_sites": has})
}

// --- Articles ---

func (a *API) ListArticles(c *gin.Context) {
	articles, err := a.Store.ListArticles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch articles"})
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (a *API) GetArticle(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	article, err := a.Store.GetArticle(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func (a *API) CreateArticle(c *gin.Context) {
	var art models.Article
	if err := c.ShouldBindJSON(&art); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	art.ID = 0
	if err := a.Store.SaveArticle(c.Request.Context(), &art); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, art)
}

func (a *API) SaveArticle(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var art models.Article
	if err := c.ShouldBindJSON(&art); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	art.ID = id
	if err := a.Store.SaveArticle(c.Request.Context(), &art); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, art)
}

func (a *API) DeleteArticle(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := a.Store.DeleteArticle(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// --- Settings ---

func (a *API) GetLastSite(c *gin.Context) {
	id, err := a.Store.GetLastSiteID(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (a *API) SetLastSite(c *gin.Context) {
	var req struct {
		ID uint `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	if err := a.Store.SetLastSiteID(c.Request.Context(), req.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// --- Content, themes, deploy ---

func (a *API) ExportContent(c *gin.Context) {
	res, err := services.ExportContent(c.Request.Context(), a.Store, a.ContentDir)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (a *API) ListThemes(c *gin.Context) {
	themes, err := a.Themes.List()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, themes)
}

func (a *API) BuildTheme(c *gin.Context) {
	res, err := a.Themes.Build(c.Request.Context(), c.Param("name"))
	if err != nil {
		status := errorStatus(err)
		body := gin.H{"status": "error", "error": err.Error()}
		if res != nil {
			body["log"] = res.Log
		}
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "log": res.Log, "output_dir": res.OutputDir, "moved": res.Moved})
}

func (a *API) DeployStatus(c *gin.Context) {
	files, err := a.Deploy.Status(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dirty": files, "clean": len(files) == 0})
}

func (a *API) HandlePublish(c *gin.Context) {
	token := githubToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "GitHub login required"})
		return
	}
	log, err := a.Deploy.Push(c.Request.Context(), token)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"status": "error", "error": err.Error(), "log": log})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "log": log})
}
