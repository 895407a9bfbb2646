package httpserver

const (
	ErrInvalidJSON  = "invalid json"
	ErrInvalidImage = "profileImage is not valid base64"
	ErrStorage      = "contact storage unavailable"
	ErrInternal     = "internal error"
	ErrNoAvatars    = "avatar provider not configured"
	ErrAvatarFetch  = "avatar provider error"
)
