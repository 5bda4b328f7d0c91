package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"RentalNegotiator/internal/auth"
	"RentalNegotiator/internal/handler"
	"RentalNegotiator/internal/measure"
	"RentalNegotiator/internal/models"
	"RentalNegotiator/internal/probe"
	"RentalNegotiator/internal/relay"
	"RentalNegotiator/internal/server"
	"RentalNegotiator/internal/storage"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

const pairingTTL = 10 * time.Minute

var (
	toolKeys     []string
	pairWait     time.Duration
	historyLimit int
)

var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "휴대폰 센서로 소음, 수평, 인터넷 속도 측정",
	Long: `릴레이 서버를 띄우고 휴대폰에서 열 센서 페이지 주소를 출력합니다.
휴대폰이 연결되면 소음 -> 수평 -> 인터넷 순서로 하나씩 측정합니다. Ctrl+C 로 취소합니다.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds, err := measure.ParseTools(toolKeys)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		hub := relay.NewHub(uuid.New().String())
		if needsPhone(kinds) {
			if err := startRelay(ctx, hub, kinds); err != nil {
				return err
			}
			waitCtx, cancel := context.WithTimeout(ctx, pairWait)
			err := hub.WaitPeer(waitCtx)
			cancel()
			if err != nil {
				return fmt.Errorf("휴대폰이 %s 안에 연결되지 않았습니다", pairWait)
			}
			fmt.Fprintln(out, "휴대폰이 연결되었습니다.")
		}

		seq := newSequencer(hub)
		res, err := seq.Run(ctx, kinds)
		printResult(res)
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(out, "측정이 취소되었습니다.")
			return nil
		}
		return err
	},
}

var speedCmd = &cobra.Command{
	Use:   "speed",
	Short: "인터넷 속도만 측정",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		seq := newSequencer(nil)
		res, err := seq.Run(ctx, []models.MeasurementKind{models.KindInternet})
		printResult(res)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "저장된 측정 기록 조회",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !storage.Ready() {
			return errors.New("측정 기록 저장소를 열 수 없어 기록을 보여줄 수 없습니다")
		}
		records, err := storage.GetMeasurements(historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "측정 기록이 없습니다.")
			return nil
		}
		for _, r := range records {
			fmt.Fprintf(out, "%s  %-8s %s  [%s]\n", r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Kind, formatRecord(r), shortID(r.SessionID))
		}
		return nil
	},
}

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "센서 릴레이 서버만 실행",
	Long:  `측정 없이 릴레이만 띄웁니다. /health, /api/history, /swagger/index.html 로 상태를 확인할 수 있습니다.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		hub := relay.NewHub(uuid.New().String())
		tokens := auth.NewTokenManager(cfg.RelayJWTSecret, pairingTTL)
		return server.Serve(ctx, server.Options{
			Addr: cfg.RelayAddr, PublicURL: publicURL(), Hub: hub, Tokens: tokens, TokenTTL: pairingTTL,
		})
	},
}

func startRelay(ctx context.Context, hub *relay.Hub, kinds []models.MeasurementKind) error {
	tokens := auth.NewTokenManager(cfg.RelayJWTSecret, pairingTTL)
	base := publicURL()
	opts := server.Options{Addr: cfg.RelayAddr, PublicURL: base, Hub: hub, Tokens: tokens, TokenTTL: pairingTTL}

	ln, err := net.Listen("tcp", cfg.RelayAddr)
	if err != nil {
		return fmt.Errorf("릴레이 주소 %s 를 열 수 없습니다: %w", cfg.RelayAddr, err)
	}
	go func() {
		if err := server.ServeListener(ctx, ln, opts); err != nil {
			notices.Error(fmt.Sprintf("릴레이 서버 오류: %v", err))
		}
	}()

	tools := make([]string, 0, len(kinds))
	for _, k := range kinds {
		tools = append(tools, string(k))
	}
	token, err := tokens.GenerateToken(hub.SessionID(), tools)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "휴대폰 브라우저에서 아래 주소를 열어 주세요 (%s 동안 유효):\n  %s\n", pairingTTL, handler.SensorURL(base, token))
	return nil
}

func newSequencer(hub *relay.Hub) *measure.Sequencer {
	seq := &measure.Sequencer{
		Noise: probe.NoiseProbe{Duration: cfg.NoiseDuration},
		Level: probe.LevelProbe{Duration: cfg.LevelDuration},
		Speed: probe.SpeedProbe{
			HTTP:          &http.Client{Timeout: cfg.RequestTimeout},
			PingURL:       cfg.SpeedPingURL,
			DownloadURL:   cfg.SpeedDownloadURL,
			UploadURL:     cfg.SpeedUploadURL,
			DownloadBytes: cfg.SpeedDownloadBytes,
			UploadBytes:   cfg.SpeedUploadBytes,
		},
		Notifier: notices,
		Limiter:  rate.NewLimiter(rate.Limit(cfg.RealtimePerSec), 1),
		Observer: printEvent,
	}
	if hub != nil {
		seq.SessionID = hub.SessionID()
		seq.Sources = hub
	}
	// 로그인하지 않았으면 백엔드 기록 없이 로컬에만 남긴다.
	if sessions.Load().HasToken() {
		seq.Reporter = api
	}
	return seq
}

var lastState = measure.StateIdle

func printEvent(e measure.Event) {
	if e.State != lastState {
		lastState = e.State
		if t, ok := measure.GetTool(string(e.Kind)); ok && e.State != measure.StateCancelled {
			fmt.Fprintf(out, "▶ %s: %s\n", t.Name, t.Description)
		}
		if e.State == measure.StateDone {
			fmt.Fprintln(out, "측정이 끝났습니다.")
		}
		return
	}
	if e.State == measure.StateInternet && e.Message != "" {
		fmt.Fprintf(out, "  %s\n", e.Message)
	}
}

func printResult(res measure.Result) {
	if res.Noise != nil {
		fmt.Fprintf(out, "소음: 평균 %.1f dB (최소 %.1f, 최대 %.1f) %s\n", res.Noise.Average, res.Noise.Min, res.Noise.Max, res.Noise.Grade)
	}
	if res.Level != nil {
		fmt.Fprintf(out, "수평: 기울기 %.2f° %s\n", res.Level.Tilt, res.Level.Grade)
	}
	if res.Speed != nil {
		s := res.Speed
		fmt.Fprintf(out, "인터넷: 지연 %s, 다운로드 %s, 업로드 %s (%s)\n",
			orFailed(s.LatencyErr, fmt.Sprintf("%.0f ms", s.LatencyMS)),
			orFailed(s.DownloadErr, fmt.Sprintf("%.1f Mbps", probe.Mbps(s.DownloadBPS))),
			orFailed(s.UploadErr, fmt.Sprintf("%.1f Mbps", probe.Mbps(s.UploadBPS))),
			s.Grade())
	}
	for kind, err := range res.Errors {
		fmt.Fprintf(out, "%s 실패: %v\n", kind, err)
	}
}

func orFailed(err error, v string) string {
	if err != nil {
		return "측정 실패"
	}
	return v
}

func formatRecord(r models.MeasurementRecord) string {
	switch r.Kind {
	case models.KindNoise:
		return fmt.Sprintf("평균 %.1f dB (%.1f~%.1f)", r.Average, r.Min, r.Max)
	case models.KindLevel:
		return fmt.Sprintf("기울기 %.2f° %s", r.Average, r.Detail)
	case models.KindInternet:
		return fmt.Sprintf("다운로드 %.1f Mbps %s", probe.Mbps(r.Average), r.Detail)
	}
	return fmt.Sprintf("%.2f", r.Average)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func needsPhone(kinds []models.MeasurementKind) bool {
	for _, k := range kinds {
		if k == models.KindNoise || k == models.KindLevel {
			return true
		}
	}
	return false
}

// publicURL 은 휴대폰이 접속할 릴레이 주소다. 지정하지 않으면 LAN IP 를 쓴다.
func publicURL() string {
	if cfg.RelayPublicURL != "" {
		return cfg.RelayPublicURL
	}
	host, port, err := net.SplitHostPort(cfg.RelayAddr)
	if err != nil {
		return "http://localhost" + cfg.RelayAddr
	}
	if host == "" || host == "0.0.0.0" {
		host = lanIP()
	}
	return "http://" + net.JoinHostPort(host, port)
}

func lanIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "localhost"
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil && !strings.HasPrefix(ip4.String(), "169.254.") {
			return ip4.String()
		}
	}
	return "localhost"
}

func init() {
	measureCmd.Flags().StringSliceVar(&toolKeys, "tools", nil, "측정할 도구 (noise,level,internet). 기본: 전부")
	measureCmd.Flags().DurationVar(&pairWait, "wait", 3*time.Minute, "휴대폰 연결 대기 시간")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "최대 개수")
}
