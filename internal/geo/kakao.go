/**
* Name: 			kakao.go
* Description: 		카카오 로컬 API 좌표 -> 주소 변환
* Workflow: 		백엔드 미리보기 실패 시 대체 경로로 사용
 */
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"RentalNegotiator/internal/models"
)

const kakaoBaseURL = "https://dapi.kakao.com"

var (
	ErrNoAPIKey  = errors.New("kakao api key is not configured")
	ErrNoAddress = errors.New("no address found for coordinate")
)

type KakaoClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewKakaoClient(apiKey string) *KakaoClient {
	return &KakaoClient{
		apiKey:  apiKey,
		baseURL: kakaoBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL 은 테스트 서버를 가리키게 할 때 쓴다.
func (k *KakaoClient) WithBaseURL(u string) *KakaoClient {
	k.baseURL = u
	return k
}

type coord2AddressResponse struct {
	Documents []struct {
		Address *struct {
			AddressName string `json:"address_name"`
			Region3     string `json:"region_3depth_name"`
		} `json:"address"`
		RoadAddress *struct {
			AddressName  string `json:"address_name"`
			BuildingName string `json:"building_name"`
		} `json:"road_address"`
	} `json:"documents"`
}

// CoordToAddress 는 좌표를 지번/도로명 주소로 바꾼다.
func (k *KakaoClient) CoordToAddress(ctx context.Context, coord models.Coordinate) (models.AddressPreview, error) {
	if k.apiKey == "" {
		return models.AddressPreview{}, ErrNoAPIKey
	}

	q := url.Values{}
	q.Set("x", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	q.Set("y", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.baseURL+"/v2/local/geo/coord2address.json?"+q.Encode(), nil)
	if err != nil {
		return models.AddressPreview{}, err
	}
	req.Header.Set("Authorization", "KakaoAK "+k.apiKey)

	resp, err := k.http.Do(req)
	if err != nil {
		return models.AddressPreview{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.AddressPreview{}, fmt.Errorf("kakao coord2address failed with status: %s", resp.Status)
	}

	var body coord2AddressResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.AddressPreview{}, err
	}
	if len(body.Documents) == 0 {
		return models.AddressPreview{}, ErrNoAddress
	}

	doc := body.Documents[0]
	var p models.AddressPreview
	if doc.Address != nil {
		p.Address = doc.Address.AddressName
		p.Dong = doc.Address.Region3
	}
	if doc.RoadAddress != nil {
		if p.Address == "" {
			p.Address = doc.RoadAddress.AddressName
		}
		p.BuildingName = doc.RoadAddress.BuildingName
	}
	if p.Address == "" {
		return models.AddressPreview{}, ErrNoAddress
	}
	return p, nil
}
