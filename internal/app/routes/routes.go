package routes

import (
	"net/http"

	"github.com/bizlink/alliance/internal/app/controllers"
	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers groups every HTTP controller of the API
type Controllers struct {
	Auth      *controllers.AuthController
	Events    *controllers.EventController
	Directory *controllers.DirectoryController
	Messages  *controllers.MessageController
	Community *controllers.CommunityController
	Admin     *controllers.AdminController
	Members   *controllers.MemberController
	Outreach  *controllers.OutreachController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", c.Auth.SignUp)
		auth.POST("/signin", c.Auth.SignIn)
		auth.POST("/refresh", c.Auth.RefreshToken)
	}

	// --- Routes open to visitors; a valid token personalizes the answer ---
	optional := v1.Group("")
	optional.Use(authMiddleware.OptionalAuth())
	{
		optional.GET("/events", c.Events.ListEvents)
		optional.GET("/events/upcoming", c.Events.UpcomingEvents)

		optional.GET("/directory", c.Directory.Search)
		optional.GET("/directory/industries", c.Directory.Industries)

		optional.GET("/community/posts", c.Community.ListPosts)
	}

	// Outreach (public)
	v1.POST("/waitlist", c.Outreach.JoinWaitlist)
	v1.POST("/registrations/free", c.Outreach.RegisterFree)
	v1.GET("/integrations", c.Outreach.Integrations)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/signout", c.Auth.SignOut)
		authenticated.GET("/auth/session", c.Auth.GetSession)
		authenticated.PATCH("/auth/user", c.Auth.UpdateUser)

		authenticated.POST("/events", c.Events.CreateEvent)
		authenticated.PUT("/events/:id", c.Events.UpdateEvent)
		authenticated.DELETE("/events/:id", c.Events.DeleteEvent)

		authenticated.POST("/directory/:id/connect", c.Directory.Connect)

		conversations := authenticated.Group("/conversations")
		{
			conversations.GET("", c.Messages.ListConversations)
			conversations.POST("", c.Messages.OpenConversation)
			conversations.GET("/live", c.Messages.Live)
			conversations.POST("/:id/messages", c.Messages.SendMessage)
		}

		posts := authenticated.Group("/community/posts")
		{
			posts.POST("", c.Community.CreatePost)
			posts.POST("/:id/like", c.Community.LikePost)
			posts.POST("/:id/comments", c.Community.AddComment)
		}

		profile := authenticated.Group("/profile/me")
		{
			profile.GET("", c.Members.GetProfile)
			profile.PUT("", c.Members.UpdateProfile)
			profile.GET("/events", c.Events.MyEvents)
		}

		authenticated.POST("/membership/upgrade", c.Members.ChangeMembership)
		authenticated.POST("/membership/elevate", c.Members.Elevate)

		authenticated.POST("/suggestions", c.Admin.SubmitSuggestion)

		// Board-only console
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.BoardRequired())
		{
			admin.GET("/overview", c.Admin.Overview)

			admin.GET("/members", c.Admin.ListMembers)
			admin.POST("/members", c.Admin.AddMember)
			admin.POST("/members/:id/action", c.Admin.MemberAction)

			admin.GET("/events", c.Admin.ListEvents)
			admin.DELETE("/events/:id", c.Admin.DeleteEvent)

			admin.GET("/chat", c.Admin.ListChat)
			admin.POST("/chat", c.Admin.PostChat)

			admin.GET("/meetings", c.Admin.ListMeetings)
			admin.POST("/meetings", c.Admin.ScheduleMeeting)

			admin.GET("/suggestions", c.Admin.ListSuggestions)
			admin.DELETE("/suggestions/:id", c.Admin.DeleteSuggestion)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
	})
}
