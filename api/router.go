// Package api exposes the services over HTTP with gin.
package api

import (
	"context"

	"tikclone/auth"
	"tikclone/notification"
	"tikclone/pkg/logging"
	"tikclone/social"
	"tikclone/users"
	"tikclone/video"

	"github.com/gin-gonic/gin"
)

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Tokens        TokenVerifier
	Auth          *auth.Service
	Users         *users.Service
	Videos        *video.Service
	Likes         *social.Likes
	Follows       *social.Follows
	Comments      *social.Comments
	Notifications *notification.Service
	DB            Pinger
	Log           logging.Logger
	// MediaDir is served under /media when media is stored on local disk.
	MediaDir string
	// MaxUploadBytes caps the whole multipart body of a video upload.
	MaxUploadBytes int64
}

type handlers struct {
	Deps
	log logging.Logger
}

func SetupRoutes(r *gin.Engine, d Deps) {
	h := &handlers{Deps: d, log: d.Log}
	if h.log == nil {
		h.log = logging.Discard()
	}
	token := RequireToken(d.Tokens)
	active := RequireActive()
	admin := RequireAdmin()

	r.GET("/health", h.health)
	if d.MediaDir != "" {
		r.Static("/media", d.MediaDir)
	}

	a := r.Group("/auth")
	a.POST("/register", h.register)
	a.POST("/login", h.login)
	a.POST("/refresh-token", h.refreshToken)
	a.POST("/send-verification-email", token, h.sendVerificationEmail)
	a.POST("/verify-email", h.verifyEmail)
	a.POST("/send-reset-email", h.sendResetEmail)
	a.POST("/reset-password", h.resetPassword)

	u := r.Group("/user")
	u.GET("", h.getUser)
	u.GET("/me", token, h.me)
	u.PUT("", token, active, h.updateUser)

	v := r.Group("/video")
	v.POST("", token, active, h.createVideo)
	v.GET("/random", h.randomVideos)
	v.GET("/following", token, h.followingFeed)
	v.GET("/user/:userId", h.userVideos)
	v.GET("/:path", h.videoByPath)
	v.DELETE("/:id", token, active, h.deleteVideo)

	l := r.Group("/like")
	l.POST("/add", token, active, h.addLike)
	l.POST("/remove", token, active, h.removeLike)
	l.GET("/count", h.countLikes)
	l.GET("/video-user", token, h.likedByMe)
	l.GET("/list", token, h.likedVideos)

	f := r.Group("/follow", token)
	f.POST("/followUser", active, h.follow)
	f.POST("/unfollowUser", active, h.unfollow)
	f.GET("/getFollowers", h.followers)
	f.GET("/getFollowing", h.following)
	f.GET("/countFollowers", h.countFollowers)
	f.GET("/countFollowing", h.countFollowing)

	c := r.Group("/comment")
	c.POST("/create", token, active, h.createComment)
	c.POST("/delete", token, active, h.deleteComment)
	c.GET("/list", h.listComments)
	c.GET("/count", h.countComments)

	n := r.Group("/notification")
	n.GET("/active", h.activeNotification)
	na := n.Group("", token, admin)
	na.POST("/create", h.createNotification)
	na.POST("/update/:id", h.updateNotification)
	na.POST("/delete/:id", h.deleteNotification)
	na.POST("/update-active/:id", h.setNotificationActive)
	na.GET("/get-all", h.listNotifications)
}
