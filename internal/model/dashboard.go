package model

// AppointmentCounts summarizes appointments by status.
type AppointmentCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Completed int `json:"completed"`
	Rejected  int `json:"rejected"`
	Cancelled int `json:"cancelled"`
}

type AdminDashboard struct {
	Doctors struct {
		Total    int `json:"total"`
		Approved int `json:"approved"`
		Pending  int `json:"pending"`
	} `json:"doctors"`
	Patients struct {
		Total int `json:"total"`
	} `json:"patients"`
	Appointments struct {
		Total   int `json:"total"`
		Pending int `json:"pending"`
	} `json:"appointments"`
	Predictions PredictionStats `json:"predictions"`
}

type DoctorDashboard struct {
	Appointments AppointmentCounts `json:"appointments"`
	Predictions  struct {
		Total         int `json:"total"`
		PendingReview int `json:"pending_review"`
		Reviewed      int `json:"reviewed"`
	} `json:"predictions"`
}

type PatientDashboard struct {
	Appointments    AppointmentCounts  `json:"appointments"`
	NextAppointment *AppointmentDetail `json:"next_appointment,omitempty"`
	Predictions     struct {
		Total  int          `json:"total"`
		Recent []Prediction `json:"recent"`
	} `json:"predictions"`
}
