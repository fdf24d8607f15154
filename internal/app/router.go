package app

import (
	"portfolio_backend/docs"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/middleware"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/util"
	"portfolio_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	src := middleware.TokenSource{Secret: cfg.JWT.Secret, CookieName: cfg.JWT.CookieName}
	optional := middleware.OptionalAuth(src)
	perUser := a.userLimiter.Middleware(util.RequestUserKey)

	// 1. 认证与用户
	a.registerPersonRoutes(router, c, src)

	// 2. 娱乐：21点与流水
	a.registerCasinoRoutes(router, c)

	// 3. 学习进度类
	a.registerLearningRoutes(router, c, optional)

	// 4. 评价与统计
	a.registerEvaluationRoutes(router, c, optional, perUser)

	// 5. 多人地图与小组聊天
	a.registerSocialRoutes(router, c, src, optional)

	// 6. AI、GitHub与代码运行（按用户限流）
	a.registerExternalRoutes(router, c, optional, perUser)
}

func (a *App) registerPersonRoutes(router *gin.Engine, c *controllers, src middleware.TokenSource) {
	router.POST("/authenticate", c.person.Authenticate)

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)
		api.POST("/person", c.person.Register)
		api.POST("/person/reset/start", c.person.ResetStart)
		api.POST("/person/reset/check", c.person.ResetCheck)
	}

	authed := router.Group("/api/person")
	authed.Use(middleware.AuthMiddleware(src))
	{
		authed.GET("/me", c.person.Me)
		authed.GET("/:uid", middleware.RoleMiddleware(model.RoleTeacher), c.person.GetPerson)
	}
}

func (a *App) registerCasinoRoutes(router *gin.Engine, c *controllers) {
	blackjack := router.Group("/api/casino/blackjack")
	{
		blackjack.POST("/start", c.blackjack.Start)
		blackjack.POST("/hit", c.blackjack.Hit)
		blackjack.POST("/stand", c.blackjack.Stand)
	}

	game := router.Group("/game")
	{
		game.GET("/combined/:personId", c.game.Combined)
		game.POST("", c.game.Create)
		game.GET("/:id", c.game.Get)
		game.PUT("/:id", c.game.Update)
		game.DELETE("/:id", c.game.Delete)
	}
}

func (a *App) registerLearningRoutes(router *gin.Engine, c *controllers, optional gin.HandlerFunc) {
	plant := router.Group("/api/plant")
	{
		plant.GET("/all", c.plant.All)
		plant.POST("/add", c.plant.Add)
		plant.GET("/stage/:uid", c.plant.Stage)
		plant.GET("/user/:uid", c.plant.Get)
		plant.POST("/user/:uid/next", c.plant.NextStage)
		plant.POST("/user/:uid/reset", c.plant.Reset)
		plant.DELETE("/user/:uid", c.plant.Delete)
	}

	progress := router.Group("/api/progress")
	{
		progress.POST("/update", c.progress.Update)
		progress.GET("/:userId", c.progress.Get)
		progress.POST("/:userId/increment", c.progress.Increment)
	}

	lesson := router.Group("/api/lesson-progress")
	{
		lesson.GET("", c.lessonProgress.List)
		lesson.POST("", c.lessonProgress.Create)
		lesson.GET("/:userId/:lessonKey", c.lessonProgress.GetOrCreate)
		lesson.PUT("/:id", c.lessonProgress.Update)
		lesson.DELETE("/:id", c.lessonProgress.Delete)
	}

	quests := router.Group("/api/quests")
	{
		quests.GET("", c.quest.List)
		quests.POST("/create", c.quest.Create)
		quests.PUT("/update/:id", c.quest.Update)
		quests.GET("/:id", c.quest.Get)
		quests.DELETE("/:id", c.quest.Delete)
	}

	quiz := router.Group("/api/quiz")
	{
		quiz.POST("/score", c.quiz.Submit)
		quiz.GET("/top", c.quiz.Top)
		quiz.GET("/user/:username", c.quiz.ByUser)
	}

	resume := router.Group("/api/resume")
	resume.Use(optional)
	{
		resume.GET("/me", c.resume.Get)
		resume.POST("/me", c.resume.Save)
	}
}

func (a *App) registerEvaluationRoutes(router *gin.Engine, c *controllers, optional, perUser gin.HandlerFunc) {
	rubrics := router.Group("/api/rubrics")
	{
		rubrics.GET("", c.rubric.Get)
		rubrics.POST("", c.rubric.Upsert)
		rubrics.GET("/student/:uid", c.rubric.ByStudent)
		rubrics.GET("/assignment/:assignment", c.rubric.ByAssignment)
		rubrics.DELETE("/:id", c.rubric.Delete)
	}

	admin := router.Group("/api/admin-evaluation")
	{
		admin.POST("/post", c.evaluation.CreateAdmin)
		admin.GET("/get", c.evaluation.ListAdmin)
	}

	student := router.Group("/api/student-evaluation")
	{
		student.POST("/post", c.evaluation.CreateStudent)
		student.GET("/get/:user_id", c.evaluation.GetStudent)
		student.PUT("/update/:user_id", c.evaluation.UpdateStudent)
		student.DELETE("/delete/:user_id", c.evaluation.DeleteStudent)
	}

	stats := router.Group("/api/stats")
	{
		stats.GET("", c.stats.List)
		stats.POST("", c.stats.Create)
		stats.PUT("", c.stats.Update)
		stats.DELETE("", c.stats.Delete)
		stats.POST("/grade", optional, perUser, c.stats.Grade)
	}
}

func (a *App) registerSocialRoutes(router *gin.Engine, c *controllers, src middleware.TokenSource, optional gin.HandlerFunc) {
	players := router.Group("/api/players")
	{
		players.GET("/current", middleware.AuthMiddleware(src), c.player.Current)
		players.POST("/connect", c.player.Connect)
		players.GET("/online", c.player.Online)
		players.PUT("/status", c.player.UpdateStatus)
		players.POST("/disconnect", c.player.Disconnect)
		players.PUT("/location", c.player.UpdateLocation)
		players.PUT("/level", c.player.UpdateLevel)
		players.GET("/locations", c.player.Locations)
		players.GET("/ws", optional, c.player.WebSocket)
	}

	chat := router.Group("/api/chat")
	chat.Use(middleware.AuthMiddleware(src))
	{
		chat.GET("/:groupId", c.groupChat.History)
		chat.POST("/:groupId", c.groupChat.Post)
	}
}

func (a *App) registerExternalRoutes(router *gin.Engine, c *controllers, optional, perUser gin.HandlerFunc) {
	router.POST("/api/chat", optional, perUser, c.gemini.Chat)

	gemini := router.Group("/api/gemini")
	{
		gemini.GET("/history/:userId", c.gemini.History)
		gemini.POST("/grade", optional, perUser, c.gemini.Grade)
	}

	events := router.Group("/api/events/github")
	{
		events.POST("/sync", c.userEvent.Sync)
		events.GET("/rate-limit", c.userEvent.RateLimit)
		events.GET("/:login", c.userEvent.List)
	}

	router.POST("/run/java", optional, perUser, c.runner.RunJava)
	router.POST("/api/run", optional, perUser, c.runner.Run)
}
