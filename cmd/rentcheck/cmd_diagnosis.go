package main

import (
	"fmt"
	"strconv"

	"RentalNegotiator/internal/forms"
	"RentalNegotiator/internal/models"

	"github.com/spf13/cobra"
)

var answerFlags map[string]int

var diagnosisCmd = &cobra.Command{
	Use:   "diagnosis",
	Short: "집 상태 진단 설문",
}

var diagnosisQuestionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "진단 문항 조회",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		questions, err := ctrl.Questions(ctx)
		if err != nil {
			return err
		}
		if sessions.TakeDiagnosisPrompt() {
			fmt.Fprintln(out, "온보딩이 끝났습니다. 문항마다 1~5 점으로 답한 뒤 diagnosis submit 으로 제출하세요.")
		}
		for _, group := range forms.GroupByCategory(questions) {
			fmt.Fprintf(out, "[%s]\n", group[0].CategoryName)
			for _, q := range group {
				fmt.Fprintf(out, "  %d. %s\n", q.QuestionID, q.Text)
				if q.SubText != "" {
					fmt.Fprintf(out, "     %s\n", q.SubText)
				}
			}
		}
		return nil
	},
}

var diagnosisAnswerCmd = &cobra.Command{
	Use:   "answer <questionId> <score>",
	Short: "문항 하나에 응답 (1~5)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("문항 번호가 올바르지 않습니다: %s", args[0])
		}
		score, err := strconv.Atoi(args[1])
		if err != nil || score < forms.MinScore || score > forms.MaxScore {
			return fmt.Errorf("점수는 %d~%d 사이여야 합니다", forms.MinScore, forms.MaxScore)
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		if err := api.SubmitAnswer(ctx, models.Answer{QuestionID: id, Score: score}); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d번 문항 응답이 저장되었습니다.\n", id)
		return nil
	},
}

var diagnosisSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "전체 응답 제출 (--answer 1=3 --answer 2=5 ...)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		questions, err := ctrl.Questions(ctx)
		if err != nil {
			return err
		}
		answers, err := parseAnswers(answerFlags)
		if err != nil {
			return err
		}
		progress, next, err := ctrl.SubmitDiagnosis(ctx, questions, answers)
		if err != nil {
			if len(progress.Invalid) > 0 {
				fmt.Fprintf(out, "범위를 벗어난 응답: %v\n", progress.Invalid)
			}
			return err
		}
		fmt.Fprintf(out, "진단이 제출되었습니다. 다음 단계: %s\n", next.Path())
		return nil
	},
}

var diagnosisResultCmd = &cobra.Command{
	Use:   "result",
	Short: "진단 결과 조회",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		res, err := ctrl.Results(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "총점: %.1f (%s), 참여자 %d명\n", res.TotalScore, res.Grade, res.Participants)
		for _, c := range res.Categories {
			fmt.Fprintf(out, "  %-10s 내 점수 %.1f | 건물 평균 %.1f | 동네 평균 %.1f\n", c.CategoryName, c.MyScore, c.BuildingAvg, c.NeighborAvg)
		}
		if res.Recommendation != "" {
			fmt.Fprintln(out, res.Recommendation)
		}
		return nil
	},
}

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "우리 동네 시세 조회",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		m, err := ctrl.Market(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s 평균 보증금 %d만원, 평균 월세 %d만원 (거래 %d건)\n",
			m.Dong, m.BuildingType, m.AverageDeposit, m.AverageMonthlyRent, m.TransactionCount)
		if m.RentDiffPercent != 0 {
			fmt.Fprintf(out, "내 월세는 시세 대비 %+.1f%%\n", m.RentDiffPercent)
		}
		return nil
	},
}

func parseAnswers(raw map[string]int) (map[int64]int, error) {
	answers := make(map[int64]int, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("문항 번호가 올바르지 않습니다: %s", k)
		}
		answers[id] = v
	}
	return answers, nil
}

func init() {
	diagnosisSubmitCmd.Flags().StringToIntVar(&answerFlags, "answer", nil, "문항번호=점수")
	diagnosisCmd.AddCommand(diagnosisQuestionsCmd, diagnosisAnswerCmd, diagnosisSubmitCmd, diagnosisResultCmd)
}
