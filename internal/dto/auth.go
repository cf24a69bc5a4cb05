package dto

type LoginRequest struct {
	Nombre   string `json:"nombre"`
	Password string `json:"password"`
}

type PhoneLoginRequest struct {
	Telefono string `json:"telefono"`
}

type AuthResponse struct {
	Token  string `json:"token"`
	Nombre string `json:"nombre"`
	Rol    string `json:"rol"`
}
