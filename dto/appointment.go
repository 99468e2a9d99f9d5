package dto

type AppointmentActionRequest struct {
	Slug          string `json:"slug"`
	AppointmentID string `json:"appointmentId"`
	Action        string `json:"action"`
	NewDate       string `json:"newDate"`
}

type BookAppointmentRequest struct {
	Slug       string `json:"slug"`
	ClientName string `json:"clientName"`
	Service    string `json:"service"`
	Staff      string `json:"staff"`
	Date       string `json:"date"`
}
