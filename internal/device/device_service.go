package device

import (
	"context"
	"errors"
	"os"
	"time"

	deviceerrors "github.com/Bdavid117/sioma-app/internal/device/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

//go:generate mockgen -source=device_service.go -destination=mock/device_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterDeviceRequest) (RegisterDeviceResponse, error)
	Token(ctx context.Context, req TokenRequest) (TokenResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("device.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("device.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Register(ctx context.Context, req RegisterDeviceRequest) (RegisterDeviceResponse, error) {
	apiKey := uuid.NewString()

	hashed, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return RegisterDeviceResponse{}, err
	}

	row := &Device{
		ID:         uuid.New(),
		Name:       req.Name,
		APIKeyHash: string(hashed),
		IsActive:   true,
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("register device persist failed", zap.Error(err))
		return RegisterDeviceResponse{}, err
	}

	s.logger.Info("device registered",
		zap.String("device_id", row.ID.String()),
		zap.String("name", row.Name),
	)

	return RegisterDeviceResponse{
		ID:     row.ID.String(),
		Name:   row.Name,
		APIKey: apiKey,
	}, nil
}

func (s *service) Token(ctx context.Context, req TokenRequest) (TokenResponse, error) {
	id, err := uuid.Parse(req.DeviceID)
	if err != nil {
		return TokenResponse{}, deviceerrors.ErrInvalidCredentials
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenResponse{}, deviceerrors.ErrInvalidCredentials
		}
		return TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.APIKeyHash), []byte(req.APIKey)); err != nil {
		return TokenResponse{}, deviceerrors.ErrInvalidCredentials
	}

	if !row.IsActive {
		return TokenResponse{}, deviceerrors.ErrDeviceDisabled
	}

	token, err := s.generateToken(row.ID.String(), tokenTTL)
	if err != nil {
		return TokenResponse{}, deviceerrors.ErrTokenGenerationFailed
	}

	return TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(tokenTTL.Seconds()),
	}, nil
}

func (s *service) generateToken(deviceID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"device_id": deviceID,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
