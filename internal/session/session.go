/**
* Name: 			session.go
* Description: 		페이지 간 세션 상태를 하나의 타입으로 관리
* Workflow: 		Load -> Update/Save -> Clear (401, 로그아웃)
 */
package session

import (
	"log"
	"strconv"
	"sync"

	"RentalNegotiator/internal/storage"
)

// 저장 키. 기존 브라우저 localStorage 키 이름을 그대로 쓴다.
const (
	KeySchemaVersion       = "session_schema"
	KeyToken               = "jwtToken"
	KeyLoggedIn            = "isLoggedIn"
	KeyEmail               = "userEmail"
	KeyNickname            = "userNickname"
	KeyUserID              = "userId"
	KeyOnboardingCompleted = "onboarding_completed"
	KeyDiagnosisCompleted  = "diagnosis_completed"
	KeyShowDiagnosisPrompt = "show_diagnosis_prompt"
	KeyJustLoggedIn        = "just_logged_in"
	KeyDong                = "userDong"
	KeyBuilding            = "userBuilding"
	KeyBuildingType        = "userBuildingType"
	KeyContractType        = "userContractType"
	KeySecurityDeposit     = "userSecurityDeposit"
	KeyRent                = "userRent"
	KeyMaintenanceFee      = "userMaintenanceFee"
	KeyGPSVerified         = "userGpsVerified"
)

const schemaVersion = "1"

// 캐시된 프로필 필드. 입력 문자열을 변형 없이 보관한다.
type CachedProfile struct {
	Dong            string
	Building        string
	BuildingType    string
	ContractType    string
	SecurityDeposit string
	Rent            string
	MaintenanceFee  string
}

type Session struct {
	Token               string
	LoggedIn            bool
	Email               string
	Nickname            string
	UserID              string
	OnboardingCompleted bool
	DiagnosisCompleted  bool
	ShowDiagnosisPrompt bool
	JustLoggedIn        bool
	GPSVerified         bool
	Profile             CachedProfile
}

// HasToken 은 인증이 필요한 요청을 보낼 수 있는 상태인지 알려준다.
func (s Session) HasToken() bool {
	return s.Token != ""
}

// Manager 는 세션 읽기/쓰기의 유일한 경계다.
// storage 가 초기화되지 않았으면 프로세스 메모리에만 보관한다.
type Manager struct {
	mu     sync.Mutex
	sealer *sealer
	memory map[string]string
}

func NewManager(secret string) *Manager {
	m := &Manager{memory: make(map[string]string)}
	if secret != "" {
		m.sealer = newSealer(secret)
	}
	return m
}

func (m *Manager) Load() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *Manager) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(s)
}

// Update 는 현재 세션을 읽어 fn 으로 수정한 뒤 저장한다.
func (m *Manager) Update(fn func(*Session)) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.load()
	fn(&s)
	return s, m.save(s)
}

// Clear 는 모든 세션 플래그를 지운다.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memory = make(map[string]string)
	if !storage.Ready() {
		return nil
	}
	return storage.ClearValues()
}

// Token 은 저장된 bearer 토큰만 읽는다.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openToken(m.value(KeyToken))
}

// TakeJustLoggedIn 은 로그인 직후 한 번만 true 를 돌려준다.
func (m *Manager) TakeJustLoggedIn() bool {
	return m.take(KeyJustLoggedIn)
}

// TakeDiagnosisPrompt 는 진단 안내를 한 번만 보여주기 위한 플래그다.
func (m *Manager) TakeDiagnosisPrompt() bool {
	return m.take(KeyShowDiagnosisPrompt)
}

// take 는 단일 플래그를 읽고 지운다.
func (m *Manager) take(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !parseBool(m.value(key)) {
		return false
	}
	if !storage.Ready() {
		delete(m.memory, key)
		return true
	}
	if err := storage.DeleteValues(key); err != nil {
		log.Printf("[WARN] session.take(): failed to delete %s: %v", key, err)
	}
	return true
}

func (m *Manager) value(key string) string {
	if !storage.Ready() {
		return m.memory[key]
	}
	v, _, err := storage.GetValue(key)
	if err != nil {
		log.Printf("[WARN] session.value(): failed to read %s: %v", key, err)
		return ""
	}
	return v
}

func (m *Manager) openToken(token string) string {
	if token == "" || m.sealer == nil {
		return token
	}
	plain, err := m.sealer.open(token)
	if err != nil {
		log.Printf("[WARN] session.Load(): stored token could not be decrypted: %v", err)
		return ""
	}
	return plain
}

func (m *Manager) load() Session {
	values := m.readAll()

	return Session{
		Token:               m.openToken(values[KeyToken]),
		LoggedIn:            parseBool(values[KeyLoggedIn]),
		Email:               values[KeyEmail],
		Nickname:            values[KeyNickname],
		UserID:              values[KeyUserID],
		OnboardingCompleted: parseBool(values[KeyOnboardingCompleted]),
		DiagnosisCompleted:  parseBool(values[KeyDiagnosisCompleted]),
		ShowDiagnosisPrompt: parseBool(values[KeyShowDiagnosisPrompt]),
		JustLoggedIn:        parseBool(values[KeyJustLoggedIn]),
		GPSVerified:         parseBool(values[KeyGPSVerified]),
		Profile: CachedProfile{
			Dong:            values[KeyDong],
			Building:        values[KeyBuilding],
			BuildingType:    values[KeyBuildingType],
			ContractType:    values[KeyContractType],
			SecurityDeposit: values[KeySecurityDeposit],
			Rent:            values[KeyRent],
			MaintenanceFee:  values[KeyMaintenanceFee],
		},
	}
}

func (m *Manager) save(s Session) error {
	token := s.Token
	if token != "" && m.sealer != nil {
		sealed, err := m.sealer.seal(token)
		if err != nil {
			return err
		}
		token = sealed
	}

	values := map[string]string{
		KeySchemaVersion:       schemaVersion,
		KeyToken:               token,
		KeyLoggedIn:            strconv.FormatBool(s.LoggedIn),
		KeyEmail:               s.Email,
		KeyNickname:            s.Nickname,
		KeyUserID:              s.UserID,
		KeyOnboardingCompleted: strconv.FormatBool(s.OnboardingCompleted),
		KeyDiagnosisCompleted:  strconv.FormatBool(s.DiagnosisCompleted),
		KeyShowDiagnosisPrompt: strconv.FormatBool(s.ShowDiagnosisPrompt),
		KeyJustLoggedIn:        strconv.FormatBool(s.JustLoggedIn),
		KeyGPSVerified:         strconv.FormatBool(s.GPSVerified),
		KeyDong:                s.Profile.Dong,
		KeyBuilding:            s.Profile.Building,
		KeyBuildingType:        s.Profile.BuildingType,
		KeyContractType:        s.Profile.ContractType,
		KeySecurityDeposit:     s.Profile.SecurityDeposit,
		KeyRent:                s.Profile.Rent,
		KeyMaintenanceFee:      s.Profile.MaintenanceFee,
	}

	if !storage.Ready() {
		for k, v := range values {
			m.memory[k] = v
		}
		return nil
	}
	return storage.SetValues(values)
}

func (m *Manager) readAll() map[string]string {
	if !storage.Ready() {
		out := make(map[string]string, len(m.memory))
		for k, v := range m.memory {
			out[k] = v
		}
		return out
	}
	values, err := storage.GetAllValues()
	if err != nil {
		log.Printf("[WARN] session.Load(): failed to read session storage: %v", err)
		return map[string]string{}
	}
	return values
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
