package relay

import _ "embed"

// SensorPage 는 휴대폰 브라우저에서 여는 센서 페이지.
//
//go:embed static/sensor.html
var SensorPage []byte
