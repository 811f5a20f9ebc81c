package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/internal/middleware"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/services"
	"gorm.io/gorm"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth    *services.AuthService
	Project *services.ProjectService
	Task    *services.TaskService
	Team    *services.TeamService
	User    *services.UserService
	Report  *services.ReportService
}

// RegisterRoutes mounts the API on r. Session middleware must already be
// installed on r.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, svc Services) {
	healthHandler := NewHealthHandler(db)
	authHandler := NewAuthHandler(svc.Auth)
	projectHandler := NewProjectHandler(svc.Project, svc.Task, svc.Team)
	taskHandler := NewTaskHandler(svc.Task)
	teamHandler := NewTeamHandler(svc.Team)
	userHandler := NewUserHandler(svc.User, svc.Team)
	reportHandler := NewReportHandler(svc.Report)

	requireAuth := middleware.RequireAuth(svc.Auth)
	loadProject := middleware.LoadProject(svc.Project)
	loadTask := middleware.LoadTask(svc.Task)

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	{
		// Auth routes (public except me and password)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
			auth.POST("/password", requireAuth, authHandler.ChangePassword)
		}

		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", middleware.RequirePermission(models.PermissionManageProjects), projectHandler.CreateProject)
			projects.GET("/:id", loadProject, projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.GET("/:id/teams", projectHandler.ListTeams)
			projects.POST("/:id/generate-tasks", projectHandler.GenerateTasks)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/recent-activity", taskHandler.RecentActivity)
			tasks.GET("/:id", loadTask, taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.PUT("/:id/status", taskHandler.ChangeStatus)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/assign", taskHandler.AssignTask)
			tasks.POST("/:id/unassign", taskHandler.UnassignTask)
			tasks.GET("/:id/activity", taskHandler.ListActivity)
		}

		teams := api.Group("/teams")
		teams.Use(requireAuth)
		{
			manageTeams := middleware.RequirePermission(models.PermissionManageTeams)
			teams.POST("", manageTeams, teamHandler.CreateTeam)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PUT("/:id", manageTeams, teamHandler.UpdateTeam)
			teams.DELETE("/:id", manageTeams, teamHandler.DeleteTeam)
			teams.GET("/:id/members", teamHandler.ListMembers)
			teams.POST("/:id/members", manageTeams, teamHandler.AddMember)
			teams.DELETE("/:id/members/:user_id", manageTeams, teamHandler.RemoveMember)
			teams.POST("/:id/leader", manageTeams, teamHandler.SetLeader)
		}

		api.GET("/roles", requireAuth, userHandler.ListRoles)
		api.GET("/groups", requireAuth, userHandler.ListGroups)
		api.POST("/groups", requireAuth, middleware.RequirePermission(models.PermissionManageUsers), userHandler.CreateGroup)

		me := api.Group("/me")
		me.Use(requireAuth)
		{
			me.GET("/settings", userHandler.GetMySettings)
			me.PUT("/settings", userHandler.UpdateMySettings)
		}

		users := api.Group("/users")
		users.Use(requireAuth, middleware.RequirePermission(models.PermissionManageUsers))
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
			users.PUT("/:id/team", userHandler.MoveUser)
		}

		reports := api.Group("/reports")
		reports.Use(requireAuth, middleware.RequirePermission(models.PermissionExportReports))
		{
			reports.GET("", reportHandler.ListReports)
			reports.GET("/summary", reportHandler.ProjectSummary)
			reports.POST("", reportHandler.ExportReport)
			reports.GET("/:id/download", reportHandler.DownloadReport)
			reports.DELETE("/:id", reportHandler.DeleteReport)
		}
	}
}
