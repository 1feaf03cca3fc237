package update_appointment_status

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string  `json:"status"` // confirmed, completed, no_show
	Reason *string `json:"reason,omitempty"`
}
