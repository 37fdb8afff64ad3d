package main

import (
	"strings"
	"time"

	"tooltipper/auth"
	"tooltipper/config"
	"tooltipper/db"
	"tooltipper/handlers"
	"tooltipper/logger"
	"tooltipper/models"
	"tooltipper/storage"
	"tooltipper/utils"
	"tooltipper/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	sessionCookieName     = "workspace"
	sessionExpirationTime = 7 * 86400
)

func main() {
	flush := logger.Init(config.DEBUG_MODE)
	defer flush()
	db.Init(config.MYSQL_DSN, config.SQLITE_FILE)
	models.Init()
	storage.Init()
	go auth.StartJanitor(time.Duration(config.WORKSPACE_IDLE_MINUTES) * time.Minute)

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	// HTML templates
	router.LoadHTMLGlob("templates/*.tmpl")

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{Path: "/", MaxAge: sessionExpirationTime, HttpOnly: true})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`^/view/[^/]+/(image|live)$`, `^/photos/`})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	// Photos stored on disk
	for urlPath, dir := range storage.StaticRoutes() {
		router.Group(urlPath, (&utils.CacheRouter{CacheTime: 3600, Public: true}).Handler()).Static("/", dir)
	}
	// Author workspace
	authRouter := &auth.Router{Base: router, NewSession: handlers.NewAnnotationSession}
	authRouter.GET("/photo/state", handlers.PhotoState)
	authRouter.POST("/photo/upload", handlers.PhotoUpload)
	authRouter.POST("/photo/leave", handlers.PhotoLeave)
	authRouter.GET("/photo/share", handlers.PhotoShare)
	authRouter.POST("/tooltip/place", handlers.TooltipPlace)
	authRouter.POST("/tooltip/edit", handlers.TooltipEdit)
	authRouter.POST("/tooltip/text", handlers.TooltipText)
	authRouter.POST("/tooltip/save", handlers.TooltipSave)
	authRouter.POST("/tooltip/cancel", handlers.TooltipCancel)
	authRouter.POST("/tooltip/delete", handlers.TooltipDelete)

	/*
	 *	Web interface
	 */
	router.GET("/", web.AuthorView)
	// Shared photos
	router.GET("/view/:shortId", web.PhotoView)
	router.GET("/view/:shortId/image", web.PhotoImage)
	router.GET("/view/:shortId/live", handlers.ViewerSocket)
	// Misc
	router.GET("/robots.txt", web.DisallowRobots)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	zap.L().Fatal("server stopped", zap.Error(err))
}
