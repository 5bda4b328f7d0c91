package models

// 진단 문항 (1~5 척도)
type Question struct {
	QuestionID   int64  `json:"questionId"`
	CategoryID   int64  `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Text         string `json:"questionText"`
	SubText      string `json:"subText,omitempty"`
}

// /api/v1/diagnosis/questions 응답
type QuestionList struct {
	Questions []Question `json:"questions"`
}

// 문항별 응답
type Answer struct {
	QuestionID int64 `json:"questionId"`
	Score      int   `json:"score"`
}

// /api/v1/diagnosis/responses/bulk 요청
type BulkAnswers struct {
	Responses []Answer `json:"responses"`
}

// 카테고리별 점수
type CategoryScore struct {
	CategoryID   int64   `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	MyScore      float64 `json:"myScore"`
	BuildingAvg  float64 `json:"buildingAverage"`
	NeighborAvg  float64 `json:"neighborhoodAverage"`
}

// /api/v1/diagnosis/result 응답
type DiagnosisResult struct {
	TotalScore     float64         `json:"totalScore"`
	Grade          string          `json:"grade"`
	Participants   int             `json:"participantCount"`
	Categories     []CategoryScore `json:"categoryDetails"`
	ResponseCount  int             `json:"responseCount"`
	Recommendation string          `json:"recommendation,omitempty"`
}

// 시세 요약 (market data)
type MarketData struct {
	Dong               string  `json:"dong"`
	BuildingType       string  `json:"buildingType"`
	AverageDeposit     int64   `json:"avgDeposit"`
	AverageMonthlyRent int64   `json:"avgMonthlyRent"`
	TransactionCount   int     `json:"transactionCount"`
	RentDiffPercent    float64 `json:"rentDiffPercent"`
}
