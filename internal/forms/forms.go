// Package forms 는 네트워크 호출 전에 수행하는 입력 검증을 모은다.
package forms

import (
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors 는 필드 이름 -> 사용자에게 보일 메시지.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return strings.Join(parts, "; ")
}

func (f FieldErrors) OrNil() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

// "필드.태그" -> 메시지
var messages = map[string]string{
	"email.required":          "이메일을 입력해주세요.",
	"email.email":             "올바른 이메일 형식이 아닙니다.",
	"password.required":       "비밀번호를 입력해주세요.",
	"password.min":            "비밀번호는 8자 이상이어야 합니다.",
	"password.max":            "비밀번호는 20자 이하여야 합니다.",
	"passwordConfirm.eqfield": "비밀번호가 일치하지 않습니다.",
	"nickname.required":       "닉네임을 입력해주세요.",
	"dong.required":           "동을 입력해주세요.",
	"building.required":       "건물명을 입력해주세요.",
	"buildingType.required":   "건물 유형을 선택해주세요.",
	"contractType.required":   "계약 유형을 선택해주세요.",
	"security.required":       "금액을 입력해주세요.",
	"security.amount":         "0 이상의 숫자를 입력해주세요.",
	"rent.amount":             "0 이상의 숫자를 입력해주세요.",
	"maintenanceFee.amount":   "0 이상의 숫자를 입력해주세요.",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	// 콤마 허용, 0 이상 정수
	v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		n, err := ParseAmount(fl.Field().String())
		return err == nil && n >= 0
	})
	return v
}

// check 는 validator 오류를 필드별 메시지로 바꾼다.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := FieldErrors{}
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		errs[fe.Field()] = msg
	}
	return errs.OrNil()
}

type Registration struct {
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=8,max=20"`
	PasswordConfirm string `form:"passwordConfirm" validate:"eqfield=Password"`
	Nickname        string `form:"nickname" validate:"required"`
}

func ValidateRegistration(r Registration) error {
	r.Email = strings.TrimSpace(r.Email)
	r.Nickname = strings.TrimSpace(r.Nickname)
	return check(r)
}

type loginInput struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func ValidateLogin(email, password string) error {
	return check(loginInput{Email: strings.TrimSpace(email), Password: password})
}

// ProfileInput 은 온보딩 프로필 폼 값 그대로다.
type ProfileInput struct {
	Dong            string `form:"dong" validate:"required"`
	Building        string `form:"building" validate:"required"`
	BuildingType    string `form:"buildingType" validate:"required"`
	ContractType    string `form:"contractType" validate:"required"`
	SecurityDeposit string `form:"security" validate:"required,amount"`
	Rent            string `form:"rent" validate:"omitempty,amount"`
	MaintenanceFee  string `form:"maintenanceFee" validate:"omitempty,amount"`
}

// ValidateProfile 은 공백을 걷어낸 사본을 검사한다. 원본 문자열은 그대로 캐시된다.
func ValidateProfile(p ProfileInput) error {
	p.Dong = strings.TrimSpace(p.Dong)
	p.Building = strings.TrimSpace(p.Building)
	p.BuildingType = strings.TrimSpace(p.BuildingType)
	p.ContractType = strings.TrimSpace(p.ContractType)
	p.SecurityDeposit = strings.TrimSpace(p.SecurityDeposit)
	p.Rent = strings.TrimSpace(p.Rent)
	p.MaintenanceFee = strings.TrimSpace(p.MaintenanceFee)
	return check(p)
}

// ParseAmount 는 비어 있으면 0, 콤마는 무시한다.
func ParseAmount(v string) (int64, error) {
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", "")
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}
