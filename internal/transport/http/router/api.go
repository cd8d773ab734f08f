package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"citydrive-motors/internal/core/auth"
	"citydrive-motors/internal/service"
	"citydrive-motors/internal/storage"
	"citydrive-motors/internal/transport/http/handler"
	mdw "citydrive-motors/internal/transport/http/middleware"
)

type Deps struct {
	Log      *zap.Logger
	JWTer    *auth.JWTer
	Auth     *service.AuthService
	Cars     *service.CarService
	Remarks  *service.RemarkService
	Store    *storage.DiskStore
	MaxFiles int
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(64<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Stored images are plain static files; the API only ever handled
	// their reference strings.
	r.Static(storage.URLPrefix, d.Store.Dir)

	api := r.Group("")
	authed := r.Group("")
	authed.Use(mdw.AuthJWT(d.JWTer))

	handler.NewAuthHandler(d.Auth).Mount(api)
	handler.NewCarHandler(d.Cars, d.Store, d.MaxFiles).Mount(api, authed)
	handler.NewRemarkHandler(d.Remarks).Mount(api, authed)

	return r
}
