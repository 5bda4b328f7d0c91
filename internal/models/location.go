package models

// GPS 좌표
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// /api/location/preview 응답
type AddressPreview struct {
	Address      string `json:"address"`
	Dong         string `json:"dong"`
	BuildingName string `json:"buildingName"`
}

// /api/location/verify 요청
type LocationVerifyRequest struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	BuildingName string  `json:"buildingName,omitempty"`
}

// /api/location/verify 응답
type LocationVerifyResponse struct {
	Verified bool   `json:"gpsVerified"`
	Dong     string `json:"dong"`
	Address  string `json:"address"`
	Message  string `json:"message"`
}
