package rest

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"vetclinic/config"
	"vetclinic/internal/service"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.corsMiddleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.POST("/refresh", h.refreshTokens)
			auth.POST("/logout", h.logout)
		}

		users := api.Group("/users")
		users.Use(h.authMiddleware())
		{
			users.GET("/me", h.getCurrentUser)
			users.GET("/:id", h.getUserByID)
			users.PUT("/:id", h.updateUser)
			users.PUT("/:id/password", h.updatePassword)

			admin := users.Group("/")
			admin.Use(h.adminMiddleware())
			{
				admin.POST("/", h.createUser)
				admin.GET("/", h.getUsers)
				admin.DELETE("/:id", h.deleteUser)
			}
		}

		animals := api.Group("/animals")
		animals.Use(h.authMiddleware())
		{
			animals.POST("/", h.createAnimal)
			animals.GET("/", h.getAnimals)
			animals.GET("/:id", h.getAnimalByID)
			animals.PUT("/:id", h.updateAnimal)
			animals.DELETE("/:id", h.deleteAnimal)

			animals.POST("/:id/photo", h.uploadAnimalPhoto)
			animals.DELETE("/:id/photo", h.deleteAnimalPhoto)
		}

		api.GET("/species", h.getSpecies)
		api.GET("/breeds", h.getBreeds)
		api.GET("/sexes", h.getSexes)

		veterinarians := api.Group("/veterinarians")
		{
			veterinarians.GET("/:id/available-slots", h.getAvailableSlots)
			veterinarians.GET("/:id/schedule", h.getVeterinarianSchedule)
			veterinarians.POST("/:id/schedule", h.authMiddleware(), h.staffMiddleware(), h.createScheduleBlock)
		}

		blocks := api.Group("/schedule-blocks")
		blocks.Use(h.authMiddleware(), h.staffMiddleware())
		{
			blocks.GET("/:id", h.getScheduleBlockByID)
			blocks.PUT("/:id", h.updateScheduleBlock)
			blocks.DELETE("/:id", h.deleteScheduleBlock)
		}

		appointments := api.Group("/appointments")
		{
			appointments.GET("/statuses", h.getAppointmentStatuses)
			appointments.GET("/types", h.getAppointmentTypes)

			auth := appointments.Group("/")
			auth.Use(h.authMiddleware())
			{
				auth.GET("/", h.getAppointments)
				auth.GET("/:id", h.getAppointmentByID)

				staff := auth.Group("/")
				staff.Use(h.staffMiddleware())
				{
					staff.POST("/", h.createAppointment)
					staff.PUT("/:id", h.updateAppointment)
					staff.DELETE("/:id", h.deleteAppointment)
				}
			}
		}
	}
}
