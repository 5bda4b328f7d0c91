package forms

import (
	"errors"
	"strings"
	"testing"

	"RentalNegotiator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	var fe FieldErrors
	require.True(t, errors.As(err, &fe), "expected FieldErrors, got %v", err)
	return fe
}

func TestValidateRegistrationPasswordLength(t *testing.T) {
	base := Registration{Email: "a@b.com", Nickname: "n"}

	short := base
	short.Password = strings.Repeat("a", 7)
	short.PasswordConfirm = short.Password
	assert.Equal(t, "비밀번호는 8자 이상이어야 합니다.", fieldErrors(t, ValidateRegistration(short))["password"])

	long := base
	long.Password = strings.Repeat("a", 21)
	long.PasswordConfirm = long.Password
	assert.Equal(t, "비밀번호는 20자 이하여야 합니다.", fieldErrors(t, ValidateRegistration(long))["password"])

	for _, n := range []int{8, 20} {
		ok := base
		ok.Password = strings.Repeat("a", n)
		ok.PasswordConfirm = ok.Password
		assert.NoError(t, ValidateRegistration(ok), "length %d", n)
	}
}

func TestValidateRegistrationFields(t *testing.T) {
	fe := fieldErrors(t, ValidateRegistration(Registration{Email: "not-mail", Password: "password1", PasswordConfirm: "password2"}))
	assert.Contains(t, fe, "email")
	assert.Contains(t, fe, "passwordConfirm")
	assert.Contains(t, fe, "nickname")
	assert.NotContains(t, fe, "password")
	assert.Equal(t, "email: 올바른 이메일 형식이 아닙니다.; nickname: 닉네임을 입력해주세요.; passwordConfirm: 비밀번호가 일치하지 않습니다.", fe.Error())
}

func TestValidateLogin(t *testing.T) {
	assert.NoError(t, ValidateLogin("a@b.c", "x"))
	fe := fieldErrors(t, ValidateLogin(" ", ""))
	assert.Len(t, fe, 2)
}

func TestValidateProfile(t *testing.T) {
	ok := ProfileInput{Dong: "역삼동", Building: "101동", BuildingType: "아파트", ContractType: "월세", SecurityDeposit: "1,000", Rent: "50"}
	assert.NoError(t, ValidateProfile(ok))

	bad := ok
	bad.SecurityDeposit = ""
	bad.Rent = "-5"
	bad.MaintenanceFee = "abc"
	fe := fieldErrors(t, ValidateProfile(bad))
	assert.Contains(t, fe, "security")
	assert.Contains(t, fe, "rent")
	assert.Contains(t, fe, "maintenanceFee")

	n, err := ParseAmount(" 1,500 ")
	require.NoError(t, err)
	assert.EqualValues(t, 1500, n)
}

func TestDiagnosisProgress(t *testing.T) {
	qs := []models.Question{{QuestionID: 1}, {QuestionID: 2}, {QuestionID: 3}}

	p := DiagnosisProgress(qs, map[int64]int{1: 3, 2: 5, 3: 1})
	assert.True(t, p.CanSubmit)
	assert.Zero(t, p.Remaining)
	assert.Equal(t, "진단 결과 보기", p.Label())

	p = DiagnosisProgress(qs, map[int64]int{1: 3})
	assert.False(t, p.CanSubmit)
	assert.Equal(t, 2, p.Remaining)
	assert.Equal(t, "2개 문항이 남았습니다", p.Label())

	p = DiagnosisProgress(qs, map[int64]int{1: 3, 2: 0, 3: 6})
	assert.False(t, p.CanSubmit)
	assert.Equal(t, 2, p.Remaining)
	assert.Equal(t, []int64{2, 3}, p.Invalid)

	assert.False(t, DiagnosisProgress(nil, nil).CanSubmit)
}

func TestAnswersAndGrouping(t *testing.T) {
	qs := []models.Question{
		{QuestionID: 1, CategoryID: 10}, {QuestionID: 2, CategoryID: 20}, {QuestionID: 3, CategoryID: 10},
	}
	assert.Equal(t, []models.Answer{{QuestionID: 1, Score: 4}, {QuestionID: 3, Score: 2}},
		Answers(qs, map[int64]int{3: 2, 1: 4}))

	groups := GroupByCategory(qs)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 2)
	assert.EqualValues(t, 2, groups[1][0].QuestionID)
}

func TestValidateTrimsBeforeChecking(t *testing.T) {
	fe := fieldErrors(t, ValidateRegistration(Registration{Email: "  ", Password: "password1", PasswordConfirm: "password1", Nickname: "  "}))
	assert.Equal(t, "이메일을 입력해주세요.", fe["email"])
	assert.Equal(t, "닉네임을 입력해주세요.", fe["nickname"])

	assert.NoError(t, ValidateRegistration(Registration{Email: " a@b.com ", Password: "비밀번호여덟글자", PasswordConfirm: "비밀번호여덟글자", Nickname: "n"}))

	fe = fieldErrors(t, ValidateProfile(ProfileInput{Dong: " ", Building: "A", BuildingType: "빌라", ContractType: "전세", SecurityDeposit: " 1,000 "}))
	assert.Equal(t, FieldErrors{"dong": "동을 입력해주세요."}, fe)
}
