package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"dispatch_backend/internal/app/router"
	authadapters "dispatch_backend/internal/feature/auth/adapters"
	authhandler "dispatch_backend/internal/feature/auth/transport/handler"
	authusecase "dispatch_backend/internal/feature/auth/usecase"
	taskadapters "dispatch_backend/internal/feature/tasks/adapters"
	taskhandler "dispatch_backend/internal/feature/tasks/transport/handler"
	taskusecase "dispatch_backend/internal/feature/tasks/usecase"
	"dispatch_backend/internal/platform/cache"
	"dispatch_backend/internal/platform/db"
	jwtmw "dispatch_backend/internal/platform/jwt"
	infraredis "dispatch_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	// db
	gormDB := db.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserMySQL(gormDB)
	taskRepo := taskadapters.NewTaskMySQL(gormDB)

	// Redisキャッシュでラップ
	cachedTaskRepo := cache.NewCachingTaskRepository(rdb, 0, taskRepo, "tasks")

	// Token generator
	tokenGen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), jwtmw.SessionTTL)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, tokenGen)
	taskUC := taskusecase.NewTaskUsecase(cachedTaskRepo)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	taskH := taskhandler.NewTaskHandler(taskUC)

	// 認証ミドルウェア用のユーザー解決
	userFinder := authadapters.NewTokenUserFinder(userRepo)

	// ルータ生成
	r := router.NewRouter(authH, taskH, userFinder)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
