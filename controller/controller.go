package controller

import (
	"context"
	"disasterlink-backend/middelware"
	"disasterlink-backend/models"
	"disasterlink-backend/services"
	"disasterlink-backend/utils/logger"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	Teams       *TeamController
	Rescuers    *RescuerController
	Victims     *VictimController
	Incidents   *IncidentController
	Shelters    *ShelterController
	Assignments *AssignmentController
	SMS         *SMSController
	Operators   *OperatorController

	jwtManager *middelware.JWTManager
	logger     logger.Logger
}

func NewController(ctx context.Context, svc *services.Service, jwtManager *middelware.JWTManager, statusReader SweepStatusReader, log logger.Logger) *Controller {
	return &Controller{
		Teams:       NewTeamController(ctx, svc.Teams, log),
		Rescuers:    NewRescuerController(ctx, svc.Rescuers, log),
		Victims:     NewVictimController(ctx, svc.Victims, log),
		Incidents:   NewIncidentController(ctx, svc.Incidents, log),
		Shelters:    NewShelterController(ctx, svc.Shelters, log),
		Assignments: NewAssignmentController(ctx, svc.Coordinator, statusReader, log),
		SMS:         NewSMSController(ctx, svc.SMS, log),
		Operators:   NewOperatorController(ctx, svc.Operators, jwtManager, log),
		jwtManager:  jwtManager,
		logger:      log,
	}
}

// RegisterRoutes wires every endpoint onto the engine and runs the HTTP
// server. The SMS webhook and gateway poller stay outside operator auth
// because the devices calling them cannot hold a JWT.
func (c *Controller) RegisterRoutes(ctx context.Context, config *models.Config, r *gin.Engine, basePath string) error {
	v1 := r.Group(basePath)
	auth := c.jwtManager.AuthMiddleware()

	// Health check endpoint (no auth required)
	v1.GET("/health", func(g *gin.Context) {
		g.JSON(200, gin.H{
			"status":  "healthy",
			"version": config.AppVersion,
			"service": config.AppName,
		})
	})

	// Operator accounts
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", c.Operators.Register)
	authGroup.POST("/login", c.Operators.Login)
	authGroup.POST("/validate", c.Operators.Validate)
	authGroup.POST("/logout", auth, c.Operators.Logout)

	// Rescue teams
	teams := v1.Group("/teams", auth)
	teams.POST("", c.Teams.CreateTeam)
	teams.GET("", c.Teams.GetTeams)
	teams.GET("/:id", c.Teams.GetTeam)
	teams.PATCH("/:id", c.Teams.UpdateTeam)
	teams.DELETE("/:id", c.Teams.DeleteTeam)
	teams.GET("/:id/members", c.Teams.GetRoster)
	teams.POST("/:id/members/:memberId", c.Teams.AddMember)
	teams.DELETE("/:id/members/:memberId", c.Teams.RemoveMember)
	teams.POST("/:id/assign", c.Assignments.AssignTeam)
	teams.POST("/:id/unassign", c.Assignments.UnassignTeam)

	// Rescue members
	rescuers := v1.Group("/rescuers", auth)
	rescuers.POST("", c.Rescuers.CreateRescuer)
	rescuers.GET("", c.Rescuers.GetRescuers)
	rescuers.GET("/:id", c.Rescuers.GetRescuer)
	rescuers.PATCH("/:id", c.Rescuers.UpdateRescuer)
	rescuers.DELETE("/:id", c.Rescuers.DeleteRescuer)

	// Assignment engine
	assign := v1.Group("/assign", auth)
	assign.POST("/sweep", c.Assignments.RunSweep)
	assign.GET("/sweep/status", c.Assignments.SweepStatus)

	// Victims
	victims := v1.Group("/victims", auth)
	victims.POST("", c.Victims.RegisterVictim)
	victims.GET("", c.Victims.GetVictims)
	victims.GET("/:phone", c.Victims.GetVictim)
	victims.PATCH("/:phone/status", c.Victims.UpdateStatus)
	victims.PATCH("/:phone/location", c.Victims.UpdateLocation)

	// Incidents
	incidents := v1.Group("/incidents", auth)
	incidents.POST("", c.Incidents.CreateIncident)
	incidents.GET("", c.Incidents.GetIncidents)
	incidents.GET("/:id", c.Incidents.GetIncident)
	incidents.PATCH("/:id", c.Incidents.UpdateIncident)
	incidents.POST("/:id/auto-assign", c.Assignments.AutoAssignIncident)

	// Shelters
	shelters := v1.Group("/shelters", auth)
	shelters.POST("", c.Shelters.CreateShelter)
	shelters.GET("", c.Shelters.GetShelters)
	shelters.GET("/nearest", c.Shelters.NearestShelters)
	shelters.GET("/:id", c.Shelters.GetShelter)
	shelters.PATCH("/:id", c.Shelters.UpdateShelter)
	shelters.DELETE("/:id", c.Shelters.DeleteShelter)
	shelters.POST("/:id/checkin", c.Shelters.Checkin)

	// SMS surface: webhook + gateway poller are unauthenticated by design
	sms := v1.Group("/sms")
	sms.POST("/receive", c.SMS.Receive)
	sms.GET("/next", c.SMS.Next)
	sms.POST("/queue", auth, c.SMS.Queue)

	srv := &http.Server{
		Addr:    config.AppHost + ":" + config.AppPort,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		c.logger.Infof("Starting server on %s:%s", config.AppHost, config.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		c.logger.Info("Shutdown signal received, draining in-flight requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}
