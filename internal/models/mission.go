package models

// 주간 미션 문항
type MissionQuestion struct {
	QuestionID int64    `json:"questionId"`
	Text       string   `json:"questionText"`
	Options    []string `json:"options,omitempty"`
}

// /mission/weekly/current 응답
type WeeklyMission struct {
	MissionID    int64             `json:"missionId"`
	Category     string            `json:"category"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	StartDate    string            `json:"startDate"`
	EndDate      string            `json:"endDate"`
	Participated bool              `json:"participated"`
	Questions    []MissionQuestion `json:"questions"`
}

// /mission/weekly/{id}/participate 요청
type MissionParticipation struct {
	Responses []Answer `json:"responses"`
}

// /mission/weekly/{id}/result 응답
type MissionResult struct {
	MissionID        int64   `json:"missionId"`
	MyScore          float64 `json:"myScore"`
	BuildingAverage  float64 `json:"buildingAverage"`
	NeighborhoodAvg  float64 `json:"neighborhoodAverage"`
	ParticipantCount int     `json:"participantCount"`
	Comment          string  `json:"comment,omitempty"`
}
