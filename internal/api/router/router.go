package router

import (
	"cliptube/internal/api/handler"
	"cliptube/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Setup 注册所有业务路由
func Setup(
	r *gin.Engine,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	videoHandler *handler.VideoHandler,
	commentHandler *handler.CommentHandler,
	likeHandler *handler.LikeHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	playlistHandler *handler.PlaylistHandler,
	postHandler *handler.PostHandler,
	searchHandler *handler.SearchHandler,
) {
	v1 := r.Group("/api/v1")

	// --- 认证模块 ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		authRequired := auth.Group("", middleware.AuthRequired())
		{
			authRequired.POST("/logout", authHandler.Logout)
			authRequired.PUT("/password", authHandler.ChangePassword)
			authRequired.GET("/me", authHandler.Me)
		}
	}

	// --- 频道（公开读，可选登录计算订阅状态） ---
	channels := v1.Group("/channels", middleware.AuthOptional())
	{
		channels.GET("/:username", userHandler.GetChannelProfile)
	}

	// --- 用户模块 ---
	users := v1.Group("/users")
	{
		usersAuth := users.Group("", middleware.AuthRequired())
		{
			usersAuth.PATCH("/me", userHandler.UpdateProfile)
			usersAuth.PATCH("/me/avatar", userHandler.UpdateAvatar)
			usersAuth.PATCH("/me/cover", userHandler.UpdateCoverImage)
			usersAuth.GET("/me/history", userHandler.GetWatchHistory)
			// 订阅者名单只对频道主本人开放
			usersAuth.GET("/:id/subscribers", subscriptionHandler.ListSubscribers)
		}

		usersPublic := users.Group("", middleware.AuthOptional())
		{
			usersPublic.GET("/:id/playlists", playlistHandler.ListByOwner)
			usersPublic.GET("/:id/posts", postHandler.ListByAuthor)
		}
	}

	// --- 订阅模块 ---
	subscriptions := v1.Group("/subscriptions", middleware.AuthRequired())
	{
		subscriptions.POST("/:id", subscriptionHandler.Toggle)
		subscriptions.GET("", subscriptionHandler.ListSubscribedChannels)
	}

	// --- 视频模块 ---
	videos := v1.Group("/videos")
	{
		videosPublic := videos.Group("", middleware.AuthOptional())
		{
			videosPublic.GET("", videoHandler.GetFeed)
			videosPublic.GET("/:id", videoHandler.GetDetail)
			videosPublic.GET("/:id/comments", commentHandler.ListByVideo)
		}

		videosAuth := videos.Group("", middleware.AuthRequired())
		{
			videosAuth.POST("", videoHandler.Create)
			videosAuth.GET("/mine", videoHandler.ListMine)
			videosAuth.PATCH("/:id", videoHandler.Update)
			videosAuth.PATCH("/:id/publish", videoHandler.TogglePublish)
			videosAuth.DELETE("/:id", videoHandler.Delete)
			videosAuth.POST("/:id/comments", commentHandler.Create)
		}
	}

	// --- 评论模块 ---
	comments := v1.Group("/comments", middleware.AuthRequired())
	{
		comments.PATCH("/:id", commentHandler.Update)
		comments.DELETE("/:id", commentHandler.Delete)
	}

	// --- 点赞模块 ---
	likes := v1.Group("/likes", middleware.AuthRequired())
	{
		likes.GET("/videos", likeHandler.ListLikedVideos)
		likes.POST("/:type/:id", likeHandler.Toggle)
		likes.GET("/:type/:id", likeHandler.GetStatus)
	}

	// --- 播放列表模块 ---
	playlists := v1.Group("/playlists")
	{
		playlists.GET("/:id", playlistHandler.GetDetail)

		playlistsAuth := playlists.Group("", middleware.AuthRequired())
		{
			playlistsAuth.POST("", playlistHandler.Create)
			playlistsAuth.PATCH("/:id", playlistHandler.Update)
			playlistsAuth.DELETE("/:id", playlistHandler.Delete)
			playlistsAuth.POST("/:id/videos/:videoId", playlistHandler.AddVideo)
			playlistsAuth.DELETE("/:id/videos/:videoId", playlistHandler.RemoveVideo)
		}
	}

	// --- 动态模块 ---
	posts := v1.Group("/posts", middleware.AuthRequired())
	{
		posts.POST("", postHandler.Create)
		posts.PATCH("/:id", postHandler.Update)
		posts.DELETE("/:id", postHandler.Delete)
	}

	// --- 搜索模块 ---
	search := v1.Group("/search")
	{
		search.GET("/videos", searchHandler.SearchVideos)
	}
}
