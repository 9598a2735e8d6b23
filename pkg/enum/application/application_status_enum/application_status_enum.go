package application_status_enum

const (
	Pending  = "pending"
	Reviewed = "reviewed"
	Accepted = "accepted"
	Rejected = "rejected"
)
