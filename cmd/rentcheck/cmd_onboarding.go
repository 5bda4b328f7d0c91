package main

import (
	"fmt"

	"RentalNegotiator/internal/forms"
	"RentalNegotiator/internal/models"

	"github.com/spf13/cobra"
)

var (
	latitude     float64
	longitude    float64
	buildingName string
	profileInput forms.ProfileInput
	editNickname string
)

var onboardingCmd = &cobra.Command{
	Use:   "onboarding",
	Short: "위치 인증 및 프로필 등록",
}

var onboardingLocationCmd = &cobra.Command{
	Use:   "location",
	Short: "GPS 좌표로 거주지 인증",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		res, next, err := ctrl.VerifyLocation(ctx, models.Coordinate{Latitude: latitude, Longitude: longitude}, buildingName)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "주소: %s (%s)\n", res.Preview.Address, res.Preview.Dong)
		if !res.Verified {
			msg := res.Message
			if msg == "" {
				msg = "위치 인증에 실패했습니다."
			}
			fmt.Fprintln(out, msg)
			return nil
		}
		fmt.Fprintf(out, "위치 인증 완료. 다음 단계: %s\n", next.Path())
		return nil
	},
}

var onboardingProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "계약 정보 등록",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		next, err := ctrl.SaveProfile(ctx, profileInput)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "프로필이 저장되었습니다. 다음 단계: %s\n", next.Path())
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "내 프로필 조회/수정",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "프로필 조회",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		in, err := ctrl.LoadProfileForEdit(ctx)
		if err != nil {
			return err
		}
		s := sessions.Load()
		fmt.Fprintf(out, "닉네임: %s\n이메일: %s\n", s.Nickname, s.Email)
		printProfile(in)
		return nil
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "프로필 수정 (지정하지 않은 항목은 기존 값 유지)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		current, err := ctrl.LoadProfileForEdit(ctx)
		if err != nil {
			return err
		}
		merged := mergeProfile(current, profileInput, cmd)
		if _, err := ctrl.EditProfile(ctx, editNickname, merged); err != nil {
			return err
		}
		fmt.Fprintln(out, "프로필이 수정되었습니다.")
		printProfile(merged)
		return nil
	},
}

func printProfile(in forms.ProfileInput) {
	fmt.Fprintf(out, "동: %s\n건물: %s (%s)\n계약: %s\n보증금: %s\n월세: %s\n관리비: %s\n",
		in.Dong, in.Building, in.BuildingType, in.ContractType, in.SecurityDeposit, in.Rent, in.MaintenanceFee)
}

// mergeProfile 은 명시한 플래그만 덮어쓴다.
func mergeProfile(current, edit forms.ProfileInput, cmd *cobra.Command) forms.ProfileInput {
	set := func(flag string, dst *string, v string) {
		if cmd.Flags().Changed(flag) {
			*dst = v
		}
	}
	set("dong", &current.Dong, edit.Dong)
	set("building", &current.Building, edit.Building)
	set("building-type", &current.BuildingType, edit.BuildingType)
	set("contract-type", &current.ContractType, edit.ContractType)
	set("deposit", &current.SecurityDeposit, edit.SecurityDeposit)
	set("rent", &current.Rent, edit.Rent)
	set("maintenance-fee", &current.MaintenanceFee, edit.MaintenanceFee)
	return current
}

func profileFlags(c *cobra.Command) {
	c.Flags().StringVar(&profileInput.Dong, "dong", "", "동")
	c.Flags().StringVar(&profileInput.Building, "building", "", "건물명")
	c.Flags().StringVar(&profileInput.BuildingType, "building-type", "", "건물 유형 (아파트, 빌라, 오피스텔 등)")
	c.Flags().StringVar(&profileInput.ContractType, "contract-type", "", "계약 유형 (전세, 월세)")
	c.Flags().StringVar(&profileInput.SecurityDeposit, "deposit", "", "보증금 (만원)")
	c.Flags().StringVar(&profileInput.Rent, "rent", "", "월세 (만원)")
	c.Flags().StringVar(&profileInput.MaintenanceFee, "maintenance-fee", "", "관리비 (만원)")
}

func init() {
	onboardingLocationCmd.Flags().Float64Var(&latitude, "lat", 0, "위도")
	onboardingLocationCmd.Flags().Float64Var(&longitude, "lng", 0, "경도")
	onboardingLocationCmd.Flags().StringVar(&buildingName, "building", "", "건물명 (기본: 주소 조회 결과)")
	onboardingLocationCmd.MarkFlagRequired("lat")
	onboardingLocationCmd.MarkFlagRequired("lng")

	profileFlags(onboardingProfileCmd)
	profileFlags(profileEditCmd)
	profileEditCmd.Flags().StringVar(&editNickname, "nickname", "", "닉네임")

	onboardingCmd.AddCommand(onboardingLocationCmd, onboardingProfileCmd)
	profileCmd.AddCommand(profileShowCmd, profileEditCmd)
}
