/**
* Name: 			pair_handler.go
* Description: 		릴레이 상태 확인, 페어링 토큰 발급, 센서 페이지 제공
 */
package handler

import (
	"log"
	"net/http"
	"time"

	"RentalNegotiator/internal/auth"
	"RentalNegotiator/internal/relay"

	"github.com/gin-gonic/gin"
)

type PairHandler struct {
	Hub       *relay.Hub
	Tokens    *auth.TokenManager
	PublicURL string
	TTL       time.Duration
}

// Health godoc
// @Summary      릴레이 상태 확인
// @Description  측정 세션 ID 와 기기 연결 여부를 반환합니다.
// @Tags         Relay
// @Produce      json
// @Success      200 {object} handler.HealthResponse
// @Router       /health [get]
func (h *PairHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", SessionID: h.Hub.SessionID(), Connected: h.Hub.Connected()})
}

// Pair godoc
// @Summary      페어링 토큰 발급
// @Description  휴대폰 센서 페이지가 WebSocket 연결에 사용할 토큰과 URL 을 발급합니다. 로컬에서만 호출 가능합니다.
// @Tags         Relay
// @Produce      json
// @Success      200 {object} handler.PairResponse
// @Failure      403 {object} handler.ErrorResponse "로컬 요청이 아님"
// @Failure      500 {object} handler.ErrorResponse "토큰 생성 실패"
// @Router       /pair [post]
func (h *PairHandler) Pair(c *gin.Context) {
	token, err := h.Tokens.GenerateToken(h.Hub.SessionID(), []string{relay.ToolNoise, relay.ToolLevel})
	if err != nil {
		log.Printf("[ERROR] Pair(): failed to generate pairing token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, PairResponse{
		Token:     token,
		SensorURL: SensorURL(h.PublicURL, token),
		ExpiresIn: int(h.TTL.Seconds()),
	})
}

// SensorPage godoc
// @Summary      센서 페이지
// @Description  휴대폰 브라우저에서 마이크/방향 센서 값을 릴레이로 보내는 페이지입니다.
// @Tags         Relay
// @Produce      html
// @Param        token query string true "페어링 토큰"
// @Success      200 {string} string "HTML"
// @Router       /sensor [get]
func (h *PairHandler) SensorPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", relay.SensorPage)
}

func SensorURL(publicURL, token string) string {
	return publicURL + "/sensor?token=" + token
}
