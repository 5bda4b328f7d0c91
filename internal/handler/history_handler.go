package handler

import (
	"log"
	"net/http"
	"strconv"

	"RentalNegotiator/internal/storage"

	"github.com/gin-gonic/gin"
)

// GetHistory godoc
// @Summary      측정 기록 조회
// @Description  이 컴퓨터에 저장된 측정 결과를 최신순으로 반환합니다.
// @Tags         History
// @Produce      json
// @Param        limit query int false "최대 개수 (기본 50)"
// @Success      200 {array} models.MeasurementRecord
// @Failure      400 {object} handler.ErrorResponse "잘못된 limit"
// @Failure      500 {object} handler.ErrorResponse "DB 조회 실패"
// @Router       /api/history [get]
func GetHistory(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = v
	}

	records, err := storage.GetMeasurements(limit)
	if err != nil {
		log.Printf("GetHistory(): failed to load measurements: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, records)
}
