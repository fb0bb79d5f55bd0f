package admin_cancel_booking

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	ID            int64  `json:"id"`
	EmployeeEmail string `json:"employeeEmail"`
	BookingDate   string `json:"bookingDate"`
	Message       string `json:"message"`
}
