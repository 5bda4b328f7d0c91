// rentcheck 는 임대 진단 백엔드를 쓰는 CLI 와 휴대폰 센서 릴레이다.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"RentalNegotiator/internal/apiclient"
	"RentalNegotiator/internal/config"
	"RentalNegotiator/internal/controller"
	"RentalNegotiator/internal/geo"
	"RentalNegotiator/internal/notice"
	"RentalNegotiator/internal/session"
	"RentalNegotiator/internal/storage"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	dbPath  string

	cfg      config.Config
	sessions *session.Manager
	api      *apiclient.Client
	ctrl     *controller.Controller
	notices  notice.Notifier
	out      io.Writer = os.Stdout
)

const msgStorageUnavailable = "세션 저장소를 열 수 없습니다. 이번 실행 동안만 세션이 유지됩니다."

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:           "rentcheck",
	Short:         "전월세 집 상태 진단 및 협상 리포트 CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			log.SetOutput(io.Discard)
		}
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if dbPath != "" {
			cfg.SessionDBPath = dbPath
		}
		notices = notice.NewConsole(os.Stderr)
		// 저장소가 없으면 세션은 이번 실행 메모리에만 남는다.
		if err := storage.InitDB(cfg.SessionDBPath); err != nil {
			log.Printf("[WARN] rentcheck: session storage unavailable, using memory only: %v", err)
			notices.Error(msgStorageUnavailable)
		}

		sessions = session.NewManager(cfg.SessionSecret)
		api = apiclient.New(cfg.APIBaseURL, sessions,
			apiclient.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
			apiclient.WithNotifier(notices),
			apiclient.WithRedirect(func(path string) {
				fmt.Fprintf(os.Stderr, "→ %s (rentcheck login 으로 다시 로그인하세요)\n", path)
			}),
		)

		var kakao *geo.KakaoClient
		if cfg.KakaoAPIKey != "" {
			kakao = geo.NewKakaoClient(cfg.KakaoAPIKey)
		}
		ctrl = controller.New(api, sessions, kakao)

		if dropped, err := ctrl.DropExpired(); err != nil {
			return err
		} else if dropped {
			notices.Error(notice.MsgSessionExpired)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return storage.CloseDB()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Session database path (default: SESSION_DB_PATH or ./rentcheck_session.db)")

	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, statusCmd)
	rootCmd.AddCommand(onboardingCmd, profileCmd)
	rootCmd.AddCommand(diagnosisCmd, marketCmd, reportCmd, missionCmd)
	rootCmd.AddCommand(measureCmd, speedCmd, historyCmd, relayCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "오류:", apiclient.UserMessage(err))
		os.Exit(1)
	}
}

// commandContext 는 요청 하나에 쓸 컨텍스트다.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(cmd.Context(), timeout)
}
