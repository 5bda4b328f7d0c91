package main

import (
	"fmt"

	"RentalNegotiator/internal/flow"
	"RentalNegotiator/internal/forms"

	"github.com/spf13/cobra"
)

var (
	email           string
	password        string
	passwordConfirm string
	nickname        string
	statusPage      string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "회원가입",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		confirm := passwordConfirm
		if confirm == "" {
			confirm = password
		}
		err := ctrl.Register(ctx, forms.Registration{
			Email: email, Password: password, PasswordConfirm: confirm, Nickname: nickname,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "회원가입이 완료되었습니다. rentcheck login 으로 로그인하세요.")
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "로그인하고 세션을 저장",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		next, err := ctrl.Login(ctx, email, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "로그인되었습니다. 다음 단계: %s\n", next.Path())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "저장된 세션 삭제",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ctrl.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(out, "로그아웃되었습니다.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "현재 진행 단계 확인",
	Long: `백엔드 프로필(실패 시 로컬 세션)로 지금 있어야 할 단계를 알려줍니다.
--page 를 주면 해당 페이지에 들어갈 수 있는지도 확인합니다.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		page := flow.StepLogin
		if statusPage != "" {
			p, ok := flow.StepForPath(statusPage)
			if !ok {
				return fmt.Errorf("알 수 없는 페이지: %s", statusPage)
			}
			page = p
		}
		d := ctrl.Resolve(ctx, page)
		s := sessions.Load()
		if s.HasToken() {
			if sessions.TakeJustLoggedIn() {
				fmt.Fprintln(out, "환영합니다!")
			}
			fmt.Fprintf(out, "로그인: %s (%s)\n", s.Email, s.Nickname)
		} else {
			fmt.Fprintln(out, "로그인: 안 됨")
		}
		fmt.Fprintf(out, "다음 단계: %s (%s)\n", d.Next, d.Next.Path())
		if statusPage != "" {
			if d.Allow {
				fmt.Fprintf(out, "%s: 접근 가능\n", statusPage)
			} else {
				fmt.Fprintf(out, "%s: 접근 불가, %s 로 이동\n", statusPage, d.Redirect.Path())
			}
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{signupCmd, loginCmd} {
		c.Flags().StringVar(&email, "email", "", "이메일")
		c.Flags().StringVar(&password, "password", "", "비밀번호")
	}
	signupCmd.Flags().StringVar(&passwordConfirm, "password-confirm", "", "비밀번호 확인 (기본: --password)")
	signupCmd.Flags().StringVar(&nickname, "nickname", "", "닉네임")
	statusCmd.Flags().StringVar(&statusPage, "page", "", "확인할 페이지 경로 (예: /report)")
}
