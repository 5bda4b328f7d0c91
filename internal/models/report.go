package models

// /report/create 요청
type ReportRequest struct {
	ReportContent string `json:"reportContent,omitempty"`
	ReportType    string `json:"reportType"`
}

// /report/create 응답
type ReportCreated struct {
	ReportID int64  `json:"reportId"`
	URL      string `json:"reportUrl,omitempty"`
}

// 협상 카드
type NegotiationCard struct {
	Priority    int    `json:"priority"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Alternative string `json:"alternative,omitempty"`
}

// /public/report/{id} 응답
type Report struct {
	ReportID         int64             `json:"reportId"`
	Type             string            `json:"reportType"`
	Header           string            `json:"primaryNegotiationCard,omitempty"`
	UserNickname     string            `json:"nickname"`
	Address          string            `json:"address"`
	ContractType     string            `json:"contractType"`
	DiagnosisScore   float64           `json:"totalScore"`
	Market           *MarketData       `json:"marketData,omitempty"`
	Cards            []NegotiationCard `json:"negotiationCards"`
	PremiumAvailable bool              `json:"isPremium"`
	CreatedAt        string            `json:"createdAt"`
}
