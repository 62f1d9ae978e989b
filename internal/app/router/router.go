package router

import (
	authhandler "dispatch_backend/internal/feature/auth/transport/handler"
	taskhandler "dispatch_backend/internal/feature/tasks/transport/handler"
	"dispatch_backend/internal/platform/http/handler"
	jwtmw "dispatch_backend/internal/platform/jwt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(authHandler *authhandler.AuthHandler, tasks *taskhandler.TaskHandler,
	users jwtmw.UserFinder) *gin.Engine {
	r := gin.Default()

	// CORS追加（別オリジンのフロントエンド用）
	// ルート登録前に適用しないと既存ルートに効かない
	r.Use(cors.Default())

	// 認証不要
	// 導通確認用
	r.GET("/health", handler.Health)

	user := r.Group("/user")
	{
		// 新規ユーザー登録
		user.POST("/signup", authHandler.Signup)
		// ログイン（セッションクッキー発行）
		user.POST("/login", authHandler.Login)
		// ログアウト（クッキー削除、冪等）
		user.POST("/logout", authHandler.Logout)
		// 自分自身の情報取得（認証必須）
		user.GET("/me", jwtmw.AuthRequired(users), authHandler.Me)
	}

	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストにセッションクッキーが必要になる
	taskRoutes := r.Group("/tasks")
	taskRoutes.Use(jwtmw.AuthRequired(users))
	{
		taskRoutes.POST("", tasks.Create)
		taskRoutes.GET("", tasks.List)
		taskRoutes.GET("/:id", tasks.Get)
		taskRoutes.PUT("/:id", tasks.Update)
		taskRoutes.DELETE("/:id", tasks.Delete)
	}

	return r
}
