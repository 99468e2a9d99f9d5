package connection

import (
	"context"
	"log"

	"salonbook/config"
	"salonbook/controller/appointment"
	"salonbook/controller/auth"
	"salonbook/scheduler"
	"salonbook/services"
	"salonbook/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func StartServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	FB, err := FBConnection(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Firestore client: %v", err)
	}

	otpStore := store.NewFirestoreOTPStore(FB)
	appointmentStore := store.NewFirestoreAppointmentStore(FB)
	mailer := services.NewSMTPMailer(cfg)
	otpService := services.NewOTPService(otpStore, mailer, cfg)

	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})

	router.Use(cors.Default())

	auth.AuthController(router, cfg, otpService)
	appointment.AppointmentController(router, cfg, appointmentStore)

	if _, err := scheduler.StartScheduler(otpStore); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	router.Run()
}
