package dto

type ReviewRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Comments string `json:"comments"`
}

// ReviewResult reports the outcome of an officer decision. RoutingWarning
// is set when an approval found no active lecturer for the unit, so the
// officer can arrange manual assignment.
type ReviewResult struct {
	ApplicationID    string  `json:"application_id"`
	Status           string  `json:"status"`
	Decision         string  `json:"decision"`
	AssignedLecturer *string `json:"assigned_lecturer,omitempty"`
	RoutingWarning   string  `json:"routing_warning,omitempty"`
}
