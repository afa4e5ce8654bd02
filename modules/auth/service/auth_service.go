package service

import (
	"context"
	"crypto/subtle"

	"availability-service/core/config"
	"availability-service/core/constants"
	"availability-service/core/errors"
	"availability-service/core/logger"
	"availability-service/core/utils"
	"availability-service/modules/auth/dto"
)

const defaultClientName = "management-api"

type AuthServiceInterface interface {
	IssueToken(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, *errors.AppError)
}

type AuthService struct{}

func NewAuthService() AuthServiceInterface {
	return &AuthService{}
}

// IssueToken exchanges the service API key for a short-lived JWT accepted by
// the management middleware.
func (s *AuthService) IssueToken(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, *errors.AppError) {
	cfg, ok := config.GetSafe()
	if !ok || cfg.ServiceAPIKey == "" {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Token minting is not configured", nil)
	}

	if req.APIKey == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "api_key is required", nil)
	}
	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(cfg.ServiceAPIKey)) != 1 {
		logger.Warn("AuthService:IssueToken:InvalidKey", "client_name", req.ClientName)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid API key", nil)
	}

	clientName := req.ClientName
	if clientName == "" {
		clientName = defaultClientName
	}

	token, err := utils.GenerateToken(clientName, constants.ScopeTokenAccess)
	if err != nil {
		logger.Error("AuthService:IssueToken:GenerateError", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to generate token", err)
	}

	logger.Info("AuthService:IssueToken:Issued", "client_name", clientName)
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   cfg.JWT.ExpiryMinutes * 60,
		Scope:       constants.ScopeTokenAccess,
	}, nil
}
