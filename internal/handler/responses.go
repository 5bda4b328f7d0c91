package handler

type ErrorResponse struct {
	Error string `json:"error" example:"에러 원인 및 설명"`
}

type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	SessionID string `json:"session_id" example:"3f1c..."`
	Connected bool   `json:"connected"`
}

type PairResponse struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	SensorURL string `json:"sensor_url" example:"http://192.168.0.10:8090/sensor?token=..."`
	ExpiresIn int    `json:"expires_in" example:"600"`
}
