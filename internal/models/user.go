package models

// 회원가입 요청 (/member/create)
type SignupRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"password123"`
	Nickname string `json:"nickname" example:"세입자"`
}

// 로그인 요청 (/member/doLogin)
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"password123"`
}

// 로그인 응답, token 이 비어 있으면 실패로 취급
type LoginResponse struct {
	ID    int64  `json:"id"`
	Token string `json:"token"`
}

// 서버가 보관하는 사용자 프로필 (/member/profile)
type Profile struct {
	ID                  int64  `json:"id"`
	Email               string `json:"email"`
	Nickname            string `json:"nickname"`
	Dong                string `json:"dong"`
	Building            string `json:"building"`
	BuildingType        string `json:"buildingType"`
	ContractType        string `json:"contractType"`
	SecurityDeposit     int64  `json:"security"`
	MonthlyRent         int64  `json:"rent"`
	MaintenanceFee      int64  `json:"maintenanceFee"`
	GPSVerified         bool   `json:"gpsVerified"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
	DiagnosisCompleted  bool   `json:"diagnosisCompleted"`
}

// 프로필 수정 요청 (/member/profile, /member/profile/setting)
type ProfileUpdate struct {
	Nickname        string `json:"nickname,omitempty"`
	Dong            string `json:"dong,omitempty"`
	Building        string `json:"building,omitempty"`
	BuildingType    string `json:"buildingType,omitempty"`
	ContractType    string `json:"contractType,omitempty"`
	SecurityDeposit int64  `json:"security"`
	MonthlyRent     int64  `json:"rent"`
	MaintenanceFee  int64  `json:"maintenanceFee"`
}

// 백엔드 공통 메시지 응답
type MessageResponse struct {
	Message string `json:"message"`
}
