package service

import (
	"errors"

	"adchain/config"
	"adchain/internal/auth"
	"adchain/internal/models"
	"adchain/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists  = errors.New("email already registered")
	ErrInvalidCreds = errors.New("invalid email or password")
)

type AuthService struct {
	cfg            *config.Config
	advertiserRepo *repository.AdvertiserRepository
}

func NewAuthService(cfg *config.Config, advertiserRepo *repository.AdvertiserRepository) *AuthService {
	return &AuthService{cfg: cfg, advertiserRepo: advertiserRepo}
}

func (s *AuthService) Register(email, password, displayName, description string) (*models.Advertiser, string, string, error) {
	_, err := s.advertiserRepo.GetByEmail(email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	a := &models.Advertiser{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Description:  description,
	}
	if err := s.advertiserRepo.Create(a); err != nil {
		return nil, "", "", err
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, a.ID, a.Email)
	if err != nil {
		return a, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, a.ID)
	if err != nil {
		return a, access, "", err
	}
	return a, access, refresh, nil
}

func (s *AuthService) Login(email, password string) (*models.Advertiser, string, string, error) {
	a, err := s.advertiserRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, _ := auth.GenerateAccessToken(&s.cfg.JWT, a.ID, a.Email)
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, a.ID)
	return a, access, refresh, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	id, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", err
	}
	a, err := s.advertiserRepo.GetByID(id)
	if err != nil {
		return "", err
	}
	return auth.GenerateAccessToken(&s.cfg.JWT, a.ID, a.Email)
}

func (s *AuthService) ChangePassword(advertiserID uint, oldPassword, newPassword string) error {
	a, err := s.advertiserRepo.GetByID(advertiserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCreds
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return s.advertiserRepo.Update(a)
}

// LoginWithGoogle creates or links an advertiser by Google ID and returns
// tokens plus an isNew flag for onboarding.
func (s *AuthService) LoginWithGoogle(googleID, email, name string) (*models.Advertiser, string, string, bool, error) {
	a, err := s.advertiserRepo.GetByGoogleID(googleID)
	if err == nil {
		access, _ := auth.GenerateAccessToken(&s.cfg.JWT, a.ID, a.Email)
		refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, a.ID)
		return a, access, refresh, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", false, err
	}
	// Link Google to an existing email account if one exists.
	existing, _ := s.advertiserRepo.GetByEmail(email)
	if existing != nil {
		gid := googleID
		existing.GoogleID = &gid
		if err := s.advertiserRepo.Update(existing); err != nil {
			return nil, "", "", false, err
		}
		access, _ := auth.GenerateAccessToken(&s.cfg.JWT, existing.ID, existing.Email)
		refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, existing.ID)
		return existing, access, refresh, false, nil
	}
	gid := googleID
	a = &models.Advertiser{
		Email:       email,
		DisplayName: name,
		GoogleID:    &gid,
	}
	if err := s.advertiserRepo.Create(a); err != nil {
		return nil, "", "", false, err
	}
	access, _ := auth.GenerateAccessToken(&s.cfg.JWT, a.ID, a.Email)
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, a.ID)
	return a, access, refresh, true, nil
}
