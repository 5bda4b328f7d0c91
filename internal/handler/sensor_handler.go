package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"RentalNegotiator/internal/relay"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	writeWait  = 10 * time.Second
)

// 센서 페이지는 같은 릴레이에서 제공되지만 휴대폰 IP 로 접속하므로 Origin 검사는 토큰으로 대신한다.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type SensorHandler struct {
	Hub *relay.Hub
}

// HandleSensor godoc
// @Summary      센서 WebSocket 연결
// @Description  휴대폰 센서 페이지가 스펙트럼/방향 프레임을 보내는 WebSocket 입니다.
// @Description  <br>
// @Description  **참고: 이것은 표준 HTTP API가 아닙니다.**
// @Description  인증은 쿼리 파라미터('token')의 페어링 토큰으로 수행됩니다.
// @Tags         WebSocket (Sensor)
// @Param        token query string true "페어링 토큰"
// @Success      101 {string} string "101 Switching Protocols"
// @Failure      401 {object} handler.ErrorResponse "토큰 누락 또는 다른 세션의 토큰"
// @Failure      409 {object} handler.ErrorResponse "이미 다른 기기가 연결됨"
// @Router       /ws/sensor [get]
func (h *SensorHandler) HandleSensor(c *gin.Context) {
	sessionID := c.GetString("session_id")
	if sessionID != h.Hub.SessionID() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token belongs to another session"})
		return
	}
	if h.Hub.Connected() {
		c.JSON(http.StatusConflict, gin.H{"error": relay.ErrPeerAttached.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("HandleSensor(): failed to upgrade to WebSocket for session %s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	control, detach, err := h.Hub.Attach()
	if err != nil {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
		return
	}
	defer detach()
	log.Printf("HandleSensor(): sensor connected for session %s from %s", sessionID, c.ClientIP())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)

	// 기기 -> 릴레이, 읽기 전담
	go func() {
		defer wg.Done()
		defer cancel()
		sensorReadPump(conn, h.Hub, ctx)
	}()

	// 릴레이 -> 기기, 쓰기 전담
	go func() {
		defer wg.Done()
		defer cancel()
		sensorWritePump(conn, control, ctx)
	}()

	wg.Wait()
	log.Printf("HandleSensor(): sensor session %s ended", sessionID)
}

func sensorReadPump(conn *websocket.Conn, hub *relay.Hub, ctx context.Context) {
	conn.SetReadLimit(64 * 1024)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("sensorReadPump(): read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		switch messageType {
		case websocket.BinaryMessage:
			// getByteFrequencyData 결과를 그대로 보낸 경우
			bins := make([]uint8, len(message))
			copy(bins, message)
			hub.PushSpectrum(bins)
		case websocket.TextMessage:
			frame, err := relay.DecodeFrame(message)
			if err != nil {
				log.Printf("sensorReadPump(): dropping malformed frame: %v", err)
				continue
			}
			hub.Deliver(frame)
		}
	}
}

func sensorWritePump(conn *websocket.Conn, control <-chan relay.Control, ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case msg := <-control:
			payload, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("sensorWritePump(): failed to send control: %v", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
