package routers

import (
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/app"
	"github.com/haierkeys/projectforge-office-service/internal/middleware"
	"github.com/haierkeys/projectforge-office-service/internal/routers/api_router"
	"github.com/haierkeys/projectforge-office-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// newMethodLimiters 登录和注册按实例限流，每分钟 perMinute 次
func newMethodLimiters(perMinute int64) limiter.Face {
	l := limiter.NewMethodLimiter()
	if perMinute <= 0 {
		return l
	}
	for _, key := range []string{"/api/user/login", "/api/user/register"} {
		l.AddBuckets(limiter.BucketRule{
			Key:          key,
			FillInterval: time.Minute / time.Duration(perMinute),
			Capacity:     perMinute,
			Quantum:      1,
		})
	}
	return l
}

// NewRouter 创建公开的 HTTP 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()

	r := gin.New()
	r.Use(middleware.AppInfo(app.Name, appContainer.Version().Version))
	r.Use(middleware.TraceMiddleware(cfg.Tracer.Header)) // Trace ID 中间件
	if cfg.Tracer.Enabled {
		r.Use(middleware.Tracing(appContainer.Tracer()))
	}
	r.Use(middleware.RecoveryWithLogger(appContainer.Logger(), appContainer.ReportPanic))
	r.Use(middleware.Cors(cfg.Server.CorsAllowOrigins))
	r.Use(middleware.LangWithTranslator(uni))
	r.Use(middleware.AccessLog(appContainer.Logger()))

	api := r.Group("/api")
	{
		api.Use(middleware.RateLimiter(newMethodLimiters(cfg.Security.LoginRateLimit)))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))

		// 创建 Handlers（注入 App Container）
		userHandler := api_router.NewUserHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)
		contractHandler := api_router.NewContractHandler(appContainer)

		api.POST("/user/register", userHandler.Register)
		api.POST("/user/login", userHandler.Login)

		// 无需认证
		api.GET("/health", healthHandler.Check)
		api.GET("/version", versionHandler.ServerVersion)

		auth := api.Group("", middleware.UserAuthToken(appContainer.TokenManager))
		auth.GET("/user/info", userHandler.Info)
		auth.POST("/user/change-password", userHandler.ChangePassword)

		mountEntity(auth, "contract", contractHandler)
		auth.GET("/contract/next-number", contractHandler.NextNumber)
		mountEntity(auth, "outgoing-mail", api_router.NewOutgoingMailHandler(appContainer))
		mountEntity(auth, "incoming-mail", api_router.NewIncomingMailHandler(appContainer))
		mountEntity(auth, "visitorbook", api_router.NewVisitorbookHandler(appContainer))
	}

	r.NoRoute(middleware.NoFound())
	r.NoMethod(middleware.NoFound())

	return r
}

// mountEntity 挂载实体的列表页和编辑页路由，列表为复数形式 /{name}s
func mountEntity(g *gin.RouterGroup, name string, h api_router.EntityRoutes) {
	g.GET("/"+name+"s", h.List)
	g.GET("/"+name, h.Get)
	g.GET("/"+name+"/edit", h.Edit)
	g.POST("/"+name, h.Save)
	g.DELETE("/"+name, h.Delete)
	g.PUT("/"+name+"/undelete", h.Undelete)
	g.GET("/"+name+"/years", h.Years)
	g.GET("/"+name+"/autocomplete", h.Autocomplete)
	g.GET("/"+name+"/history", h.History)
	g.GET("/"+name+"/filter", h.Filter)
	g.DELETE("/"+name+"/filter", h.ResetFilter)
}
