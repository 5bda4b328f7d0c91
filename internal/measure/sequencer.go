/**
* Name: 			sequencer.go
* Description: 		스마트 진단 측정 순차 실행기
* Workflow: 		idle -> noise -> level -> internet -> done (취소 시 cancelled)
 */
package measure

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"RentalNegotiator/internal/models"
	"RentalNegotiator/internal/notice"
	"RentalNegotiator/internal/probe"
	"RentalNegotiator/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type State string

const (
	StateIdle      State = "idle"
	StateNoise     State = "noise"
	StateLevel     State = "level"
	StateInternet  State = "internet"
	StateDone      State = "done"
	StateCancelled State = "cancelled"
)

var ErrAlreadyRunning = errors.New("measurement sequence already running")

// Reporter 는 백엔드 측정 세션 기록이다. *apiclient.Client 가 구현한다.
type Reporter interface {
	StartSmart(ctx context.Context, kind models.MeasurementKind) (models.SmartSession, error)
	RealtimeSmart(ctx context.Context, kind models.MeasurementKind, r models.SmartRealtime) error
	CompleteSmart(ctx context.Context, kind models.MeasurementKind, r models.SmartComplete) error
}

// Sources 는 기기 센서 스트림을 연다. 휴대폰이 연결될 때까지 기다릴 수 있다.
type Sources interface {
	Spectrum(ctx context.Context) (probe.SpectrumSource, error)
	Orientation(ctx context.Context) (probe.OrientationSource, error)
}

type Event struct {
	State   State
	Kind    models.MeasurementKind
	Value   float64
	Message string
}

type Result struct {
	SessionID string
	Noise     *probe.NoiseResult
	Level     *probe.LevelResult
	Speed     *probe.SpeedResult
	Errors    map[models.MeasurementKind]error
}

type Sequencer struct {
	// SessionID 가 비어 있으면 실행마다 새로 만든다.
	SessionID string
	Noise     probe.NoiseProbe
	Level     probe.LevelProbe
	Speed     probe.SpeedProbe
	Sources   Sources
	Reporter  Reporter
	Notifier  notice.Notifier
	Limiter   *rate.Limiter
	Observer  func(Event)

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
}

func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == "" {
		return StateIdle
	}
	return s.state
}

// Cancel 은 진행 중인 측정을 중단한다. 소스 정리는 각 probe 가 한다.
func (s *Sequencer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Run 은 kinds 를 고정 순서로 하나씩 실행한다. 병렬 실행하지 않는다.
// 개별 도구 실패는 Result.Errors 에 남기고 다음 도구로 넘어간다.
func (s *Sequencer) Run(parent context.Context, kinds []models.MeasurementKind) (Result, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return Result{}, ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
	}()

	res := Result{
		SessionID: s.SessionID,
		Errors:    map[models.MeasurementKind]error{},
	}
	if res.SessionID == "" {
		res.SessionID = uuid.New().String()
	}
	log.Printf("Sequencer.Run(): started session %s, tools=%v", res.SessionID, kinds)

	for _, kind := range kinds {
		var err error
		switch kind {
		case models.KindNoise:
			s.transition(StateNoise, kind, "")
			err = s.runNoise(ctx, &res)
		case models.KindLevel:
			s.transition(StateLevel, kind, "")
			err = s.runLevel(ctx, &res)
		case models.KindInternet:
			s.transition(StateInternet, kind, "")
			err = s.runInternet(ctx, &res)
		default:
			err = fmt.Errorf("unknown measurement tool %q", kind)
		}

		if ctx.Err() != nil {
			s.transition(StateCancelled, kind, "측정이 취소되었습니다.")
			log.Printf("Sequencer.Run(): session %s cancelled during %s", res.SessionID, kind)
			return res, ctx.Err()
		}
		if err != nil {
			res.Errors[kind] = err
			s.notifyFailure(kind, err)
			log.Printf("[WARN] Sequencer.Run(): %s failed: %v", kind, err)
		}
	}

	s.transition(StateDone, "", "")
	log.Printf("Sequencer.Run(): session %s finished with %d failure(s)", res.SessionID, len(res.Errors))
	return res, nil
}

func (s *Sequencer) runNoise(ctx context.Context, res *Result) error {
	src, err := s.Sources.Spectrum(ctx)
	if err != nil {
		return err
	}
	backendID := s.startBackend(ctx, models.KindNoise)
	rt := s.startRealtime(ctx, models.KindNoise, backendID)

	out, err := s.Noise.Run(ctx, src, func(v float64) {
		rt.push(v)
		s.emit(Event{State: StateNoise, Kind: models.KindNoise, Value: v})
	})
	rt.stop()
	if err != nil {
		s.completeBackend(ctx, models.KindNoise, models.SmartComplete{SessionID: backendID, Failed: true})
		return err
	}

	res.Noise = &out
	s.completeBackend(ctx, models.KindNoise, models.SmartComplete{
		SessionID: backendID,
		Average:   out.Average,
		Min:       out.Min,
		Max:       out.Max,
		Samples:   out.Samples,
	})
	s.persist(res.SessionID, models.MeasurementRecord{
		Kind: models.KindNoise, Average: out.Average, Min: out.Min, Max: out.Max,
		Detail: fmt.Sprintf("grade=%s samples=%d", out.Grade, out.Samples),
	})
	return nil
}

func (s *Sequencer) runLevel(ctx context.Context, res *Result) error {
	src, err := s.Sources.Orientation(ctx)
	if err != nil {
		return err
	}
	backendID := s.startBackend(ctx, models.KindLevel)
	rt := s.startRealtime(ctx, models.KindLevel, backendID)

	out, err := s.Level.Run(ctx, src, func(v float64) {
		rt.push(v)
		s.emit(Event{State: StateLevel, Kind: models.KindLevel, Value: v})
	})
	rt.stop()
	if err != nil {
		s.completeBackend(ctx, models.KindLevel, models.SmartComplete{SessionID: backendID, Failed: true})
		return err
	}

	res.Level = &out
	s.completeBackend(ctx, models.KindLevel, models.SmartComplete{
		SessionID: backendID,
		Average:   out.Tilt,
		Min:       out.Tilt,
		Max:       out.Tilt,
		Samples:   out.Samples,
		Extra: map[string]float64{
			"alpha": out.Average.Alpha,
			"beta":  out.Average.Beta,
			"gamma": out.Average.Gamma,
		},
	})
	s.persist(res.SessionID, models.MeasurementRecord{
		Kind: models.KindLevel, Average: out.Tilt, Min: out.Tilt, Max: out.Tilt,
		Detail: fmt.Sprintf("alpha=%.2f beta=%.2f gamma=%.2f grade=%s", out.Average.Alpha, out.Average.Beta, out.Average.Gamma, out.Grade),
	})
	return nil
}

func (s *Sequencer) runInternet(ctx context.Context, res *Result) error {
	backendID := s.startBackend(ctx, models.KindInternet)

	out, err := s.Speed.Run(ctx, func(step string) {
		s.emit(Event{State: StateInternet, Kind: models.KindInternet, Message: step})
	})
	if err != nil {
		return err
	}
	res.Speed = &out

	complete := speedComplete(backendID, out)
	s.completeBackend(ctx, models.KindInternet, complete)

	// 다운로드가 대표값이므로 실패하면 기록하지 않는다.
	if out.DownloadErr == nil {
		s.persist(res.SessionID, models.MeasurementRecord{
			Kind: models.KindInternet, Average: out.DownloadBPS, Min: out.DownloadBPS, Max: out.DownloadBPS,
			Detail: speedDetail(out),
		})
	}
	// 일부 항목만 실패한 경우도 실패로 보고한다.
	return out.Err()
}

// speedComplete 는 성공한 항목만 값으로 싣고, 실패한 항목은 FailedMetrics 로 알린다.
func speedComplete(backendID string, out probe.SpeedResult) models.SmartComplete {
	c := models.SmartComplete{SessionID: backendID, Extra: map[string]float64{}}
	if out.LatencyErr == nil {
		c.Extra["latencyMs"] = out.LatencyMS
	} else {
		c.FailedMetrics = append(c.FailedMetrics, "latency")
	}
	if out.DownloadErr == nil {
		c.Average, c.Min, c.Max = out.DownloadBPS, out.DownloadBPS, out.DownloadBPS
		c.Samples = 1
	} else {
		c.FailedMetrics = append(c.FailedMetrics, "download")
	}
	if out.UploadErr == nil {
		c.Extra["uploadBps"] = out.UploadBPS
	} else {
		c.FailedMetrics = append(c.FailedMetrics, "upload")
	}
	c.Failed = len(c.FailedMetrics) > 0
	if len(c.Extra) == 0 {
		c.Extra = nil
	}
	return c
}

func speedDetail(out probe.SpeedResult) string {
	latency := "failed"
	if out.LatencyErr == nil {
		latency = fmt.Sprintf("%.1f", out.LatencyMS)
	}
	upload := "failed"
	if out.UploadErr == nil {
		upload = fmt.Sprintf("%.0f", out.UploadBPS)
	}
	return fmt.Sprintf("latency_ms=%s upload_bps=%s", latency, upload)
}

func (s *Sequencer) startBackend(ctx context.Context, kind models.MeasurementKind) string {
	if s.Reporter == nil {
		return ""
	}
	session, err := s.Reporter.StartSmart(ctx, kind)
	if err != nil {
		log.Printf("[WARN] Sequencer: backend start for %s failed, measuring locally only: %v", kind, err)
		return ""
	}
	return session.SessionID
}

func (s *Sequencer) completeBackend(ctx context.Context, kind models.MeasurementKind, c models.SmartComplete) {
	if s.Reporter == nil || c.SessionID == "" || ctx.Err() != nil {
		return
	}
	if err := s.Reporter.CompleteSmart(ctx, kind, c); err != nil {
		log.Printf("[WARN] Sequencer: backend complete for %s failed: %v", kind, err)
	}
}

func (s *Sequencer) persist(sessionID string, r models.MeasurementRecord) {
	if !storage.Ready() {
		return
	}
	r.SessionID = sessionID
	r.CreatedAt = time.Now()
	if _, err := storage.CreateMeasurement(r); err != nil {
		log.Printf("[ERROR] Sequencer: failed to save %s measurement: %v", r.Kind, err)
	}
}

func (s *Sequencer) notifyFailure(kind models.MeasurementKind, err error) {
	if s.Notifier == nil {
		return
	}
	switch {
	case errors.Is(err, probe.ErrPermissionDenied) && kind == models.KindNoise:
		s.Notifier.Error(notice.MsgMicDenied)
	case errors.Is(err, probe.ErrPermissionDenied):
		s.Notifier.Error(notice.MsgOrientDenied)
	case errors.Is(err, probe.ErrUnsupported):
		s.Notifier.Error(notice.MsgOrientUnsupported)
	case kind == models.KindInternet:
		s.Notifier.Error(notice.MsgSpeedFailed)
	default:
		s.Notifier.Error(fmt.Sprintf("%s에 실패했습니다.", toolName(kind)))
	}
}

func (s *Sequencer) transition(state State, kind models.MeasurementKind, msg string) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.emit(Event{State: state, Kind: kind, Message: msg})
}

func (s *Sequencer) emit(e Event) {
	if s.Observer != nil {
		s.Observer(e)
	}
}

func toolName(kind models.MeasurementKind) string {
	if t, ok := GetTool(string(kind)); ok {
		return t.Name
	}
	return string(kind)
}

// realtime 은 측정 루프를 막지 않도록 실시간 값을 별도 고루틴에서 보낸다.
// 큐가 가득 차거나 limiter 가 거부하면 값을 버린다.
type realtime struct {
	ch    chan models.SmartRealtime
	wg    sync.WaitGroup
	start time.Time
	id    string
	lim   *rate.Limiter
}

func (s *Sequencer) startRealtime(ctx context.Context, kind models.MeasurementKind, backendID string) *realtime {
	rt := &realtime{start: time.Now(), id: backendID, lim: s.Limiter}
	if s.Reporter == nil || backendID == "" {
		return rt
	}
	rt.ch = make(chan models.SmartRealtime, 8)
	rt.wg.Add(1)
	go func() {
		defer rt.wg.Done()
		for r := range rt.ch {
			if ctx.Err() != nil {
				continue
			}
			if err := s.Reporter.RealtimeSmart(ctx, kind, r); err != nil {
				log.Printf("[WARN] Sequencer: realtime %s report failed: %v", kind, err)
			}
		}
	}()
	return rt
}

func (rt *realtime) push(v float64) {
	if rt.ch == nil {
		return
	}
	if rt.lim != nil && !rt.lim.Allow() {
		return
	}
	select {
	case rt.ch <- models.SmartRealtime{SessionID: rt.id, Value: v, Elapsed: time.Since(rt.start).Milliseconds()}:
	default:
	}
}

func (rt *realtime) stop() {
	if rt.ch == nil {
		return
	}
	close(rt.ch)
	rt.wg.Wait()
}
