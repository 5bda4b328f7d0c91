// Package docs 는 센서 릴레이 API 의 Swagger 문서.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "측정 세션 ID 와 기기 연결 여부를 반환합니다.",
                "produces": ["application/json"],
                "tags": ["Relay"],
                "summary": "릴레이 상태 확인",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}
                }
            }
        },
        "/pair": {
            "post": {
                "description": "휴대폰 센서 페이지가 WebSocket 연결에 사용할 토큰과 URL 을 발급합니다. 로컬에서만 호출 가능합니다.",
                "produces": ["application/json"],
                "tags": ["Relay"],
                "summary": "페어링 토큰 발급",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.PairResponse"}},
                    "403": {"description": "로컬 요청이 아님", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "토큰 생성 실패", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/sensor": {
            "get": {
                "description": "휴대폰 브라우저에서 마이크/방향 센서 값을 릴레이로 보내는 페이지입니다.",
                "produces": ["text/html"],
                "tags": ["Relay"],
                "summary": "센서 페이지",
                "parameters": [
                    {"type": "string", "description": "페어링 토큰", "name": "token", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "HTML", "schema": {"type": "string"}}
                }
            }
        },
        "/ws/sensor": {
            "get": {
                "description": "휴대폰 센서 페이지가 스펙트럼/방향 프레임을 보내는 WebSocket 입니다.<br>**참고: 이것은 표준 HTTP API가 아닙니다.** 인증은 쿼리 파라미터('token')의 페어링 토큰으로 수행됩니다.",
                "tags": ["WebSocket (Sensor)"],
                "summary": "센서 WebSocket 연결",
                "parameters": [
                    {"type": "string", "description": "페어링 토큰", "name": "token", "in": "query", "required": true}
                ],
                "responses": {
                    "101": {"description": "101 Switching Protocols", "schema": {"type": "string"}},
                    "401": {"description": "토큰 누락 또는 다른 세션의 토큰", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "409": {"description": "이미 다른 기기가 연결됨", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/history": {
            "get": {
                "description": "이 컴퓨터에 저장된 측정 결과를 최신순으로 반환합니다.",
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "측정 기록 조회",
                "parameters": [
                    {"type": "integer", "description": "최대 개수 (기본 50)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.MeasurementRecord"}}},
                    "400": {"description": "잘못된 limit", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "DB 조회 실패", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string", "example": "에러 원인 및 설명"}}
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "connected": {"type": "boolean"},
                "session_id": {"type": "string"},
                "status": {"type": "string", "example": "ok"}
            }
        },
        "handler.PairResponse": {
            "type": "object",
            "properties": {
                "expires_in": {"type": "integer", "example": 600},
                "sensor_url": {"type": "string"},
                "token": {"type": "string"}
            }
        },
        "models.MeasurementRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "session_id": {"type": "string"},
                "kind": {"type": "string"},
                "average": {"type": "number"},
                "min": {"type": "number"},
                "max": {"type": "number"},
                "detail": {"type": "string"},
                "created_at": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "RentCheck Sensor Relay API",
	Description:      "휴대폰 센서 값을 측정 CLI 로 중계하는 로컬 릴레이",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
