package appointment

import (
	"errors"
	"log"
	"net/http"
	"time"

	"salonbook/config"
	"salonbook/dto"
	"salonbook/middleware"
	"salonbook/model"
	"salonbook/security"
	"salonbook/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func AppointmentController(router *gin.Engine, cfg *config.Config, appointments store.AppointmentStore) {
	routes := router.Group("/api", middleware.RequireSession(cfg.CookieName))
	{
		routes.GET("/my-appointments", func(c *gin.Context) {
			MyAppointments(c, appointments)
		})
		routes.POST("/appointment-action", func(c *gin.Context) {
			AppointmentAction(c, appointments)
		})
		routes.POST("/book", func(c *gin.Context) {
			Book(c, appointments)
		})
	}
}

// requireOwnership compares an appointment's recorded owner with the
// session identity. Both sides are normalized before the exact match;
// a mismatch is Forbidden regardless of any other attribute.
func requireOwnership(ownerEmail, sessionEmail string) bool {
	if sessionEmail == "" {
		return false
	}
	return security.NormalizeEmail(ownerEmail) == security.NormalizeEmail(sessionEmail)
}

func sessionEmail(c *gin.Context) string {
	return c.GetString(middleware.SessionEmailKey)
}

func MyAppointments(c *gin.Context, appointments store.AppointmentStore) {
	email := sessionEmail(c)

	slug := c.Query("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slug required"})
		return
	}

	ctx := c.Request.Context()
	salon, err := appointments.SalonBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrSalonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Salon not found"})
			return
		}
		log.Printf("my-appointments salon lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	list, err := appointments.AppointmentsByEmail(ctx, salon.ID, email)
	if err != nil {
		log.Printf("my-appointments query error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	out := make([]gin.H, 0, len(list))
	for _, appt := range list {
		out = append(out, gin.H{
			"id":          appt.ID,
			"clientName":  appt.ClientName,
			"clientEmail": appt.ClientEmail,
			"service":     appt.Service,
			"staff":       appt.Staff,
			"date":        appt.Date.Format(time.RFC3339),
			"status":      appt.Status,
		})
	}
	c.JSON(http.StatusOK, gin.H{"appointments": out})
}

func AppointmentAction(c *gin.Context, appointments store.AppointmentStore) {
	email := sessionEmail(c)

	var req dto.AppointmentActionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Slug == "" || req.AppointmentID == "" || req.Action == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	ctx := c.Request.Context()
	salon, err := appointments.SalonBySlug(ctx, req.Slug)
	if err != nil {
		if errors.Is(err, store.ErrSalonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Salon not found"})
			return
		}
		log.Printf("appointment-action salon lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	appt, err := appointments.Appointment(ctx, salon.ID, req.AppointmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
			return
		}
		log.Printf("appointment-action read error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	if !requireOwnership(appt.OwnerEmail(), email) {
		log.Printf("access denied: %s tried to modify %s's appointment", email, security.MaskEmail(appt.OwnerEmail()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: You do not own this appointment"})
		return
	}

	switch req.Action {
	case "reschedule":
		if req.NewDate == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "New date required"})
			return
		}
		newDate, err := time.Parse(time.RFC3339, req.NewDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "New date required"})
			return
		}
		if err := appointments.RescheduleAppointment(ctx, salon.ID, appt.ID, newDate); err != nil {
			log.Printf("reschedule error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Rescheduled successfully"})

	case "cancel":
		if err := appointments.CancelAppointment(ctx, salon.ID, appt.ID); err != nil {
			log.Printf("cancel error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Appointment cancelled"})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
	}
}

func Book(c *gin.Context, appointments store.AppointmentStore) {
	email := sessionEmail(c)

	var req dto.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Slug == "" || req.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	ctx := c.Request.Context()
	salon, err := appointments.SalonBySlug(ctx, req.Slug)
	if err != nil {
		if errors.Is(err, store.ErrSalonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Salon not found"})
			return
		}
		log.Printf("book salon lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	appt := model.Appointment{
		ID:          uuid.NewString(),
		ClientName:  req.ClientName,
		ClientEmail: security.NormalizeEmail(email),
		Service:     req.Service,
		Staff:       req.Staff,
		Date:        date,
		Status:      model.AppointmentConfirmed,
		CreatedAt:   time.Now(),
	}
	if err := appointments.CreateAppointment(ctx, salon.ID, appt); err != nil {
		log.Printf("book create error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": appt.ID})
}
