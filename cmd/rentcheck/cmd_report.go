package main

import (
	"fmt"
	"strconv"

	"RentalNegotiator/internal/models"

	"github.com/spf13/cobra"
)

var (
	reportType    string
	reportContent string
	premium       bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "협상 리포트 생성/조회",
}

var reportCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "진단 결과로 협상 리포트 생성",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		r, err := ctrl.CreateReport(ctx, models.ReportRequest{ReportType: reportType, ReportContent: reportContent})
		if err != nil {
			return err
		}
		printReport(r)
		return nil
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show <reportId>",
	Short: "리포트 조회 (로그인 불필요)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("리포트 번호가 올바르지 않습니다: %s", args[0])
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		r, err := ctrl.Report(ctx, id, premium)
		if err != nil {
			return err
		}
		printReport(r)
		return nil
	},
}

var missionCmd = &cobra.Command{
	Use:   "mission",
	Short: "주간 미션",
}

var missionCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "이번 주 미션 조회",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		view, err := ctrl.WeeklyMission(ctx)
		if err != nil {
			return err
		}
		m := view.Mission
		fmt.Fprintf(out, "#%d [%s] %s (%s ~ %s)\n%s\n", m.MissionID, m.Category, m.Title, m.StartDate, m.EndDate, m.Description)
		for _, q := range m.Questions {
			fmt.Fprintf(out, "  %d. %s\n", q.QuestionID, q.Text)
		}
		if view.Result != nil {
			printMissionResult(*view.Result)
		}
		return nil
	},
}

var missionParticipateCmd = &cobra.Command{
	Use:   "participate",
	Short: "이번 주 미션 참여 (--answer 1=3 ...)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		view, err := ctrl.WeeklyMission(ctx)
		if err != nil {
			return err
		}
		answers, err := parseAnswers(answerFlags)
		if err != nil {
			return err
		}
		res, err := ctrl.ParticipateMission(ctx, view.Mission, answers)
		if err != nil {
			return err
		}
		printMissionResult(res)
		return nil
	},
}

var missionResultCmd = &cobra.Command{
	Use:   "result <missionId>",
	Short: "미션 결과 조회",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("미션 번호가 올바르지 않습니다: %s", args[0])
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		res, err := api.MissionResult(ctx, id)
		if err != nil {
			return err
		}
		printMissionResult(res)
		return nil
	},
}

func printReport(r models.Report) {
	fmt.Fprintf(out, "리포트 #%d (%s)\n", r.ReportID, r.Type)
	fmt.Fprintf(out, "%s | %s | 진단 점수 %.1f\n", r.Address, r.ContractType, r.DiagnosisScore)
	if r.Header != "" {
		fmt.Fprintf(out, "핵심: %s\n", r.Header)
	}
	if r.Market != nil {
		fmt.Fprintf(out, "시세: 평균 보증금 %d만원, 평균 월세 %d만원\n", r.Market.AverageDeposit, r.Market.AverageMonthlyRent)
	}
	for _, c := range r.Cards {
		fmt.Fprintf(out, "%d. %s\n   %s\n", c.Priority, c.Title, c.Content)
		if c.Alternative != "" {
			fmt.Fprintf(out, "   대안: %s\n", c.Alternative)
		}
	}
	fmt.Fprintf(out, "공유 URL: %s/public/report/%d\n", cfg.APIBaseURL, r.ReportID)
}

func printMissionResult(r models.MissionResult) {
	fmt.Fprintf(out, "내 점수 %.1f | 건물 평균 %.1f | 동네 평균 %.1f (참여 %d명)\n",
		r.MyScore, r.BuildingAverage, r.NeighborhoodAvg, r.ParticipantCount)
	if r.Comment != "" {
		fmt.Fprintln(out, r.Comment)
	}
}

func init() {
	reportCreateCmd.Flags().StringVar(&reportType, "type", "free", "리포트 유형 (free, premium)")
	reportCreateCmd.Flags().StringVar(&reportContent, "content", "", "추가로 전달할 내용")
	reportShowCmd.Flags().BoolVar(&premium, "premium", false, "프리미엄 리포트 조회")
	reportCmd.AddCommand(reportCreateCmd, reportShowCmd)

	missionParticipateCmd.Flags().StringToIntVar(&answerFlags, "answer", nil, "문항번호=점수")
	missionCmd.AddCommand(missionCurrentCmd, missionParticipateCmd, missionResultCmd)
}
