package appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"salonbook/config"
	"salonbook/controller/auth"
	"salonbook/model"
	"salonbook/services"
	"salonbook/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		OTPLength:       6,
		OTPExpiry:       300 * time.Second,
		OTPMaxAttempts:  5,
		RateLimitMax:    3,
		RateLimitWindow: 600 * time.Second,
		CookieName:      "appointment_auth_token",
		CookieMaxAge:    86400,
		OTPSecret:       []byte("test-secret"),
		AppEnv:          "development",
	}
}

func seedStore(t *testing.T) *store.MemoryAppointmentStore {
	t.Helper()
	appts := store.NewMemoryAppointmentStore()
	appts.PutSalon(model.Salon{ID: "salon1", Name: "Glow Studio", Slug: "glow"})

	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	seed := []model.Appointment{
		{ID: "a1", ClientName: "Alice", ClientEmail: "alice@x.com", Service: "Cut", Date: base, Status: model.AppointmentConfirmed},
		{ID: "a2", ClientName: "Alice", ClientEmail: "alice@x.com", Service: "Color", Date: base.Add(48 * time.Hour), Status: model.AppointmentConfirmed},
		{ID: "b1", ClientName: "Bob", ClientEmail: "bob@y.com", Service: "Trim", Date: base, Status: model.AppointmentConfirmed},
		// Older document shape: owner only under the legacy field.
		{ID: "l1", ClientName: "Alice", LegacyEmail: "alice@x.com", Service: "Blowout", Date: base, Status: model.AppointmentConfirmed},
	}
	for _, appt := range seed {
		require.NoError(t, appts.CreateAppointment(context.Background(), "salon1", appt))
	}
	return appts
}

func newRouter(t *testing.T, appts store.AppointmentStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	AppointmentController(router, testConfig(), appts)
	return router
}

func doJSON(router *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func aliceCookie() *http.Cookie {
	return &http.Cookie{Name: "appointment_auth_token", Value: "alice@x.com"}
}

func TestActionsRequireSession(t *testing.T) {
	router := newRouter(t, seedStore(t))

	w := doJSON(router, http.MethodPost, "/api/appointment-action", `{"slug":"glow","appointmentId":"a1","action":"cancel"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/api/my-appointments?slug=glow", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/api/book", `{"slug":"glow","date":"2026-04-05T10:00:00Z"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCancelOwnAppointment(t *testing.T) {
	appts := seedStore(t)
	router := newRouter(t, appts)

	w := doJSON(router, http.MethodPost, "/api/appointment-action",
		`{"slug":"glow","appointmentId":"a1","action":"cancel"}`, aliceCookie())
	require.Equal(t, http.StatusOK, w.Code)

	appt, err := appts.Appointment(context.Background(), "salon1", "a1")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentCancelled, appt.Status)
}

func TestCancelForeignAppointmentForbidden(t *testing.T) {
	appts := seedStore(t)
	router := newRouter(t, appts)

	w := doJSON(router, http.MethodPost, "/api/appointment-action",
		`{"slug":"glow","appointmentId":"b1","action":"cancel"}`, aliceCookie())
	assert.Equal(t, http.StatusForbidden, w.Code)

	appt, err := appts.Appointment(context.Background(), "salon1", "b1")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentConfirmed, appt.Status)
}

func TestLegacyOwnerFieldStillOwns(t *testing.T) {
	appts := seedStore(t)
	router := newRouter(t, appts)

	w := doJSON(router, http.MethodPost, "/api/appointment-action",
		`{"slug":"glow","appointmentId":"l1","action":"cancel"}`, aliceCookie())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRescheduleReconfirms(t *testing.T) {
	appts := seedStore(t)
	router := newRouter(t, appts)

	// Cancel first, then reschedule; the appointment must come back
	// confirmed on the new date.
	doJSON(router, http.MethodPost, "/api/appointment-action",
		`{"slug":"glow","appointmentId":"a1","action":"cancel"}`, aliceCookie())

	w := doJSON(router, http.MethodPost, "/api/appointment-action",
		`{"slug":"glow","appointmentId":"a1","action":"reschedule","newDate":"2026-04-10T14:30:00Z"}`, aliceCookie())
	require.Equal(t, http.StatusOK, w.Code)

	appt, err := appts.Appointment(context.Background(), "salon1", "a1")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentConfirmed, appt.Status)
	assert.Equal(t, time.Date(2026, 4, 10, 14, 30, 0, 0, time.UTC), appt.Date.UTC())
}

func TestRescheduleNeedsDate(t *testing.T) {
	router := newRouter(t, seedStore(t))

	w := doJSON(router, http.MethodPost, "/api/appointment-action",
		`{"slug":"glow","appointmentId":"a1","action":"reschedule"}`, aliceCookie())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/appointment-action",
		`{"slug":"glow","appointmentId":"a1","action":"reschedule","newDate":"next tuesday"}`, aliceCookie())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActionValidation(t *testing.T) {
	router := newRouter(t, seedStore(t))

	w := doJSON(router, http.MethodPost, "/api/appointment-action",
		`{"slug":"glow","appointmentId":"a1","action":"shred"}`, aliceCookie())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/appointment-action",
		`{"slug":"glow","action":"cancel"}`, aliceCookie())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/appointment-action",
		`{"slug":"nowhere","appointmentId":"a1","action":"cancel"}`, aliceCookie())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodPost, "/api/appointment-action",
		`{"slug":"glow","appointmentId":"missing","action":"cancel"}`, aliceCookie())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMyAppointmentsListsOwnNewestFirst(t *testing.T) {
	router := newRouter(t, seedStore(t))

	w := doJSON(router, http.MethodGet, "/api/my-appointments?slug=glow", "", aliceCookie())
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Appointments []struct {
			ID          string `json:"id"`
			ClientEmail string `json:"clientEmail"`
			Date        string `json:"date"`
		} `json:"appointments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Only documents with clientEmail populated are queryable by owner,
	// newest first.
	require.Len(t, resp.Appointments, 2)
	assert.Equal(t, "a2", resp.Appointments[0].ID)
	assert.Equal(t, "a1", resp.Appointments[1].ID)
	for _, appt := range resp.Appointments {
		assert.Equal(t, "alice@x.com", appt.ClientEmail)
	}
}

func TestMyAppointmentsRequiresSlug(t *testing.T) {
	router := newRouter(t, seedStore(t))

	w := doJSON(router, http.MethodGet, "/api/my-appointments", "", aliceCookie())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookCreatesOwnedAppointment(t *testing.T) {
	appts := seedStore(t)
	router := newRouter(t, appts)

	w := doJSON(router, http.MethodPost, "/api/book",
		`{"slug":"glow","clientName":"Alice","service":"Manicure","staff":"Mia","date":"2026-04-06T11:00:00Z"}`, aliceCookie())
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)

	appt, err := appts.Appointment(context.Background(), "salon1", resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", appt.ClientEmail)
	assert.Equal(t, model.AppointmentConfirmed, appt.Status)
	assert.Equal(t, "Manicure", appt.Service)
}

func TestRequireOwnership(t *testing.T) {
	assert.True(t, requireOwnership("alice@x.com", "alice@x.com"))
	assert.True(t, requireOwnership("Alice@X.com", "alice@x.com"))
	assert.False(t, requireOwnership("bob@y.com", "alice@x.com"))
	assert.False(t, requireOwnership("alice@x.com", ""))
	assert.False(t, requireOwnership("", ""))
}

// Full flow: OTP login produces the cookie that authorizes appointment
// actions for that identity only.
func TestEndToEndVerifyThenCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	mailer := &captureMailer{}
	otpService := services.NewOTPService(store.NewMemoryOTPStore(), mailer, cfg)
	appts := seedStore(t)

	router := gin.New()
	auth.AuthController(router, cfg, otpService)
	AppointmentController(router, cfg, appts)

	w := doJSON(router, http.MethodPost, "/api/send-otp", `{"email":"alice@x.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/verify-otp", `{"email":"alice@x.com","otp":"`+mailer.code+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	res := w.Result()
	var session *http.Cookie
	for _, ck := range res.Cookies() {
		if ck.Name == cfg.CookieName {
			session = ck
		}
	}
	require.NotNil(t, session)
	// gin url-escapes cookie values on write and unescapes on read.
	unescaped, err := url.QueryUnescape(session.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", unescaped)

	// The issued cookie authorizes Alice's appointment...
	sessionCookie := &http.Cookie{Name: session.Name, Value: session.Value}
	w = doJSON(router, http.MethodPost, "/api/appointment-action",
		`{"slug":"glow","appointmentId":"a1","action":"cancel"}`, sessionCookie)
	assert.Equal(t, http.StatusOK, w.Code)

	// ...but not Bob's.
	w = doJSON(router, http.MethodPost, "/api/appointment-action",
		`{"slug":"glow","appointmentId":"b1","action":"cancel"}`, sessionCookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

type captureMailer struct {
	code string
}

func (m *captureMailer) SendOTP(ctx context.Context, to, code string, expiresIn time.Duration) error {
	m.code = code
	return nil
}
