package measure

import (
	"fmt"
	"strings"

	"RentalNegotiator/internal/models"
)

type Tool struct {
	Kind        models.MeasurementKind
	Name        string
	Description string
}

// 측정 순서는 소음 -> 수평 -> 인터넷으로 고정
var catalog = []Tool{
	{
		Kind:        models.KindNoise,
		Name:        "소음 측정",
		Description: "마이크로 주변 소음을 15초간 측정해 평균/최소/최대 데시벨을 구합니다.",
	},
	{
		Kind:        models.KindLevel,
		Name:        "수평 측정",
		Description: "기기를 바닥에 두고 3초간 기울기를 측정합니다.",
	},
	{
		Kind:        models.KindInternet,
		Name:        "인터넷 속도 측정",
		Description: "지연 시간, 다운로드, 업로드 속도를 차례로 측정합니다.",
	},
}

func GetTool(key string) (Tool, bool) {
	for _, t := range catalog {
		if string(t.Kind) == key {
			return t, true
		}
	}
	return Tool{}, false
}

func Tools() []Tool {
	out := make([]Tool, len(catalog))
	copy(out, catalog)
	return out
}

// ParseTools 는 입력 순서와 상관없이 고정 순서로 정렬하고 중복을 없앤다.
// 빈 목록이면 전체 도구.
func ParseTools(keys []string) ([]models.MeasurementKind, error) {
	if len(keys) == 0 {
		kinds := make([]models.MeasurementKind, 0, len(catalog))
		for _, t := range catalog {
			kinds = append(kinds, t.Kind)
		}
		return kinds, nil
	}

	want := map[models.MeasurementKind]bool{}
	for _, k := range keys {
		k = strings.TrimSpace(strings.ToLower(k))
		if k == "" {
			continue
		}
		t, ok := GetTool(k)
		if !ok {
			return nil, fmt.Errorf("unknown measurement tool %q", k)
		}
		want[t.Kind] = true
	}

	var kinds []models.MeasurementKind
	for _, t := range catalog {
		if want[t.Kind] {
			kinds = append(kinds, t.Kind)
		}
	}
	return kinds, nil
}
