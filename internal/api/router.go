package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wfunc/last-crusade/internal/config"
	"github.com/wfunc/last-crusade/internal/database"
	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/middleware"
	"github.com/wfunc/last-crusade/internal/service"
	"github.com/wfunc/last-crusade/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Banner 根路径返回的欢迎信息
const Banner = "This is the web service of Arthur's Last Crusade"

// Options 路由依赖
type Options struct {
	DB       *gorm.DB
	Services *service.Services
	Auth     *middleware.APIKeyMiddleware
	// Events 为空时不注册事件推送路由
	Events *websocket.Handler
	Config *config.Config
	Logger *zap.Logger
}

// Router API路由器
type Router struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	auth   *middleware.APIKeyMiddleware
	events *websocket.Handler

	world   *WorldHandler
	guild   *GuildHandler
	dungeon *DungeonHandler
	hero    *HeroHandler
	monster *MonsterHandler

	log *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(opts Options) *Router {
	gin.SetMode(ginMode(opts.Config.Server.Mode))
	registerJSONTagNames()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger())
	if opts.Config.Metrics.Enabled {
		engine.Use(middleware.Metrics())
	}

	log := opts.Logger.Named("api")
	r := &Router{
		engine:  engine,
		db:      opts.DB,
		cfg:     opts.Config,
		auth:    opts.Auth,
		events:  opts.Events,
		world:   NewWorldHandler(opts.Services.World, log),
		guild:   NewGuildHandler(opts.Services.Guild, log),
		dungeon: NewDungeonHandler(opts.Services.Dungeon, log),
		hero:    NewHeroHandler(opts.Services.Hero, log),
		monster: NewMonsterHandler(opts.Services.Monster, log),
		log:     log,
	}

	r.setupRoutes()
	return r
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	r.engine.GET("/", r.banner)
	r.engine.GET("/health", r.healthCheck)
	if r.cfg.Metrics.Enabled {
		path := r.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(promhttp.Handler()))
	}
	registerSwaggerRoutes(r.engine)

	// 游戏接口需要API Key
	game := r.engine.Group("")
	game.Use(r.auth.RequireAPIKey())

	world := game.Group("/world")
	{
		world.POST("/create_hero/:world_id", r.world.CreateHero)
		world.GET("/view_heroes/:world_id", r.world.ViewHeroes)
		world.GET("/get_quests/:world_id", r.world.GetQuests)
		world.POST("/age_hero/:hero_id", r.world.AgeHero)
	}

	guild := game.Group("/guild")
	{
		guild.POST("/create_guild/:world_id", r.guild.CreateGuild)
		guild.POST("/recruit_hero/:guild_id", r.guild.RecruitHero)
		guild.GET("/available_heroes/:guild_id", r.guild.AvailableHeroes)
		guild.POST("/remove_heroes/:guild_id", r.guild.RemoveHeroes)
		guild.POST("/send_party/:guild_id", r.guild.SendParty)
		guild.GET("/leaderboard", r.guild.Leaderboard)
	}

	dungeon := game.Group("/dungeon")
	{
		dungeon.POST("/create_dungeon/:world_id", r.dungeon.CreateDungeon)
		dungeon.POST("/create_monster/:dungeon_id", r.dungeon.CreateMonster)
		dungeon.POST("/collect_bounty/:guild_id", r.dungeon.CollectBounty)
		dungeon.GET("/assess_damage/:dungeon_id", r.dungeon.AssessDamage)
	}

	hero := game.Group("/hero")
	{
		hero.POST("/attack_monster/:hero_id", r.hero.AttackMonster)
		hero.POST("/run_away/:hero_id", r.hero.RunAway)
		hero.POST("/die/:hero_id", r.hero.Die)
		hero.GET("/find_monsters/:dungeon_id", r.hero.FindMonsters)
		hero.GET("/monster_interactions/:hero_id", r.hero.MonsterInteractions)
		hero.GET("/check_xp/:hero_id", r.hero.CheckXP)
		hero.POST("/check_xp/:hero_id", r.hero.CheckXP)
		hero.POST("/raise_level/:hero_id", r.hero.RaiseLevel)
		hero.GET("/check_health/:hero_id", r.hero.CheckHealth)
		hero.GET("/view_pending_requests/:hero_id", r.hero.ViewPendingRequests)
		hero.POST("/accept_request/:hero_id", r.hero.AcceptRequest)
	}

	monster := game.Group("/monster")
	{
		monster.GET("/find_heroes/:dungeon_id", r.monster.FindHeroes)
		monster.POST("/attack_hero/:monster_id", r.monster.AttackHero)
		monster.POST("/die/:monster_id", r.monster.Die)
	}

	if r.events != nil {
		path := r.cfg.WebSocket.Path
		if path == "" {
			path = "/ws/events"
		}
		game.GET(path, r.events.ServeWS)
	}

	registerOpenAPIRoutes(r.engine)

	r.engine.NoRoute(func(c *gin.Context) {
		middleware.RenderError(c, apperrors.New(apperrors.ErrNotFound, "接口不存在"))
	})
}

// ginMode 将运行模式映射为gin模式，未知值按debug处理
func ginMode(mode string) string {
	switch mode {
	case "production", "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (r *Router) banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": Banner})
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, r.db); err != nil {
		r.log.Warn("健康检查失败", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"message": "数据库ping失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
	})
}

// Run 运行服务器
func (r *Router) Run(addr string) error {
	r.log.Info("Starting API server", zap.String("address", addr))
	return r.engine.Run(addr)
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
