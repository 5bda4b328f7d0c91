package controller

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"RentalNegotiator/internal/flow"
	"RentalNegotiator/internal/forms"
	"RentalNegotiator/internal/models"
	"RentalNegotiator/internal/session"
)

type LocationResult struct {
	Preview  models.AddressPreview
	Verified bool
	Message  string
}

// PreviewAddress 는 백엔드 미리보기를 먼저 쓰고, 실패하면 Kakao 로 직접 조회한다.
func (c *Controller) PreviewAddress(ctx context.Context, coord models.Coordinate) (models.AddressPreview, error) {
	preview, err := c.API.PreviewAddress(ctx, coord)
	if err == nil {
		return preview, nil
	}
	if c.Geo == nil || ctx.Err() != nil {
		return models.AddressPreview{}, err
	}
	log.Printf("[WARN] PreviewAddress(): backend preview failed, trying kakao: %v", err)
	fallback, kerr := c.Geo.CoordToAddress(ctx, coord)
	if kerr != nil {
		return models.AddressPreview{}, fmt.Errorf("%w (kakao: %v)", err, kerr)
	}
	return fallback, nil
}

// VerifyLocation 은 GPS 인증 결과와 동/건물명을 세션에 남긴다.
func (c *Controller) VerifyLocation(ctx context.Context, coord models.Coordinate, buildingName string) (LocationResult, flow.Step, error) {
	if err := c.guard(ctx, flow.StepOnboardingLocation); err != nil {
		return LocationResult{}, redirectStep(err, flow.StepOnboardingLocation), err
	}
	preview, err := c.PreviewAddress(ctx, coord)
	if err != nil {
		return LocationResult{}, flow.StepOnboardingLocation, err
	}
	if buildingName == "" {
		buildingName = preview.BuildingName
	}

	resp, err := c.API.VerifyLocation(ctx, models.LocationVerifyRequest{
		Latitude:     coord.Latitude,
		Longitude:    coord.Longitude,
		BuildingName: buildingName,
	})
	if err != nil {
		return LocationResult{Preview: preview}, flow.StepOnboardingLocation, err
	}
	if resp.Dong != "" {
		preview.Dong = resp.Dong
	}
	if resp.Address != "" {
		preview.Address = resp.Address
	}
	res := LocationResult{Preview: preview, Verified: resp.Verified, Message: resp.Message}
	if !resp.Verified {
		return res, flow.StepOnboardingLocation, nil
	}

	_, err = c.Session.Update(func(s *session.Session) {
		s.GPSVerified = true
		s.Profile.Dong = preview.Dong
		if buildingName != "" {
			s.Profile.Building = buildingName
		}
	})
	if err != nil {
		return res, flow.StepOnboardingLocation, err
	}
	return res, flow.StepOnboardingProfile, nil
}

// SaveProfile 은 온보딩 프로필을 저장한다. 캐시에는 입력 문자열을 그대로 둔다.
func (c *Controller) SaveProfile(ctx context.Context, in forms.ProfileInput) (flow.Step, error) {
	update, err := profileUpdate(in)
	if err != nil {
		return flow.StepOnboardingProfile, err
	}
	if err := c.guard(ctx, flow.StepOnboardingProfile); err != nil {
		return redirectStep(err, flow.StepOnboardingProfile), err
	}
	if err := c.API.ProfileSetting(ctx, update); err != nil {
		return flow.StepOnboardingProfile, err
	}

	_, err = c.Session.Update(func(s *session.Session) {
		s.Profile = cachedProfile(in)
		s.OnboardingCompleted = true
		s.ShowDiagnosisPrompt = true
	})
	if err != nil {
		return flow.StepOnboardingProfile, err
	}
	return flow.StepDiagnosis, nil
}

// LoadProfileForEdit 은 편집 폼 초기값을 만든다. 캐시가 비어 있으면 서버 프로필로 채운다.
func (c *Controller) LoadProfileForEdit(ctx context.Context) (forms.ProfileInput, error) {
	if err := c.guard(ctx, flow.StepProfile); err != nil {
		return forms.ProfileInput{}, err
	}
	s := c.Session.Load()
	if s.Profile != (session.CachedProfile{}) {
		p := s.Profile
		return forms.ProfileInput{
			Dong:            p.Dong,
			Building:        p.Building,
			BuildingType:    p.BuildingType,
			ContractType:    p.ContractType,
			SecurityDeposit: p.SecurityDeposit,
			Rent:            p.Rent,
			MaintenanceFee:  p.MaintenanceFee,
		}, nil
	}
	profile, err := c.API.Profile(ctx)
	if err != nil {
		return forms.ProfileInput{}, err
	}
	in := forms.ProfileInput{
		Dong:            profile.Dong,
		Building:        profile.Building,
		BuildingType:    profile.BuildingType,
		ContractType:    profile.ContractType,
		SecurityDeposit: strconv.FormatInt(profile.SecurityDeposit, 10),
		Rent:            strconv.FormatInt(profile.MonthlyRent, 10),
		MaintenanceFee:  strconv.FormatInt(profile.MaintenanceFee, 10),
	}
	if _, err := c.Session.Update(func(s *session.Session) { s.Profile = cachedProfile(in) }); err != nil {
		log.Printf("[WARN] LoadProfileForEdit(): failed to cache profile: %v", err)
	}
	return in, nil
}

// EditProfile 은 프로필 페이지의 수정 저장이다.
func (c *Controller) EditProfile(ctx context.Context, nickname string, in forms.ProfileInput) (models.Profile, error) {
	update, err := profileUpdate(in)
	if err != nil {
		return models.Profile{}, err
	}
	if err := c.guard(ctx, flow.StepProfile); err != nil {
		return models.Profile{}, err
	}
	update.Nickname = nickname

	profile, err := c.API.UpdateProfile(ctx, update)
	if err != nil {
		return models.Profile{}, err
	}
	_, err = c.Session.Update(func(s *session.Session) {
		s.Profile = cachedProfile(in)
		if nickname != "" {
			s.Nickname = nickname
		}
	})
	return profile, err
}

func profileUpdate(in forms.ProfileInput) (models.ProfileUpdate, error) {
	if err := forms.ValidateProfile(in); err != nil {
		return models.ProfileUpdate{}, err
	}
	// 검증을 통과했으므로 파싱 오류는 없다.
	deposit, _ := forms.ParseAmount(in.SecurityDeposit)
	rent, _ := forms.ParseAmount(in.Rent)
	fee, _ := forms.ParseAmount(in.MaintenanceFee)
	return models.ProfileUpdate{
		Dong:            in.Dong,
		Building:        in.Building,
		BuildingType:    in.BuildingType,
		ContractType:    in.ContractType,
		SecurityDeposit: deposit,
		MonthlyRent:     rent,
		MaintenanceFee:  fee,
	}, nil
}

func cachedProfile(in forms.ProfileInput) session.CachedProfile {
	return session.CachedProfile{
		Dong:            in.Dong,
		Building:        in.Building,
		BuildingType:    in.BuildingType,
		ContractType:    in.ContractType,
		SecurityDeposit: in.SecurityDeposit,
		Rent:            in.Rent,
		MaintenanceFee:  in.MaintenanceFee,
	}
}
