package main

import (
	"MiniFlush/config"
	"MiniFlush/internal/auth"
	"MiniFlush/internal/game/engine"
	"MiniFlush/internal/game/table"
	"MiniFlush/internal/middleware"
	"MiniFlush/internal/records"
	"MiniFlush/internal/storage"
	"MiniFlush/internal/utils"
	"MiniFlush/internal/websocket"
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()
	utils.Init()

	//-------------------------------------------------------
	// 1. 初始化赢局记录存储（启动时必须可达，否则直接退出）
	//-------------------------------------------------------
	backend := config.C.Records.Backend
	if backend == "" {
		backend = "redis"
	}

	var repo records.Repo
	switch backend {
	case "redis":
		if err := storage.InitRedis(
			config.C.Redis.Addr,
			config.C.Redis.Password,
			config.C.Redis.DB,
		); err != nil {
			utils.Error.Fatalf("Redis init failed: %v", err)
		}
		repo = records.NewRedisRepo(storage.Rdb)

	case "postgres":
		if err := storage.InitPostgres(config.C.Database.DSN); err != nil {
			utils.Error.Fatalf("Postgres init failed: %v", err)
		}
		var err error
		repo, err = records.NewPostgresRepo(storage.DB)
		if err != nil {
			utils.Error.Fatalf("Postgres schema init failed: %v", err)
		}

	case "memory":
		repo = records.NewMemoryRepo()

	default:
		utils.Error.Fatalf("unknown records backend %q", backend)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := repo.Ping(pingCtx); err != nil {
		utils.Error.Fatalf("record store unreachable: %v", err)
	}
	cancel()
	utils.Print.Info("record store ready", "backend", backend)

	//-------------------------------------------------------
	// 2. 初始化 Gin + CORS
	//-------------------------------------------------------
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	//-------------------------------------------------------
	// 3. 初始化 Hub（必须最先启动）
	//-------------------------------------------------------
	hub := websocket.NewHub()
	go hub.Run()

	//-------------------------------------------------------
	// 4. 初始化单桌状态机
	//-------------------------------------------------------
	st := table.New(config.C.Table.MinBet, config.C.Table.MaxBet, config.C.Table.Number)
	eng := engine.NewEngine(st, hub, repo)
	hub.OnIncoming = eng.Enqueue
	hub.OnConnect = eng.SyncClient
	eng.Start()

	//-------------------------------------------------------
	// 5. 荷官控制台登录
	//-------------------------------------------------------
	ah := auth.NewHandler(config.C.Auth.OperatorKey, config.C.JWT.Secret)
	r.POST("/auth/login", ah.Login)

	//-------------------------------------------------------
	// 6. WebSocket 入口 + 赢局记录查询
	//-------------------------------------------------------
	secret := ([]byte)(config.C.JWT.Secret)
	guarded := r.Group("/", middleware.JwtAuthMiddleware(secret))
	{
		guarded.GET("/ws", websocket.ServeWS(hub))

		rh := records.NewHandler(repo)
		guarded.GET("/records/wins", rh.ListWins)
	}

	//-------------------------------------------------------
	// 7. 启动服务器
	//-------------------------------------------------------
	utils.Print.Info("Mini Flush server running", "addr", config.C.Server.Port, "table", config.C.Table.Number)
	r.Run(config.C.Server.Port)
}
