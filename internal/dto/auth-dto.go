package dto

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type AuthClaims struct {
	UserID uint
	Email  string
	Role   string
	Expiry float64
	Iat    float64
}

// ActorProfile is the resolved identity for GET /auth/me: exactly one of
// the profile pointers is set, matching Role.
type ActorProfile struct {
	UserID   uint        `json:"user_id"`
	Email    string      `json:"email"`
	Role     string      `json:"role"`
	Student  interface{} `json:"student,omitempty"`
	Officer  interface{} `json:"officer,omitempty"`
	Lecturer interface{} `json:"lecturer,omitempty"`
}
