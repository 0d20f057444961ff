package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens y sesiones.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
	SessionTTL time.Duration
}

// AuthUseCase casos de uso de autenticación: login, validación de sesión y logout.
// Cada usuario tiene a lo sumo una sesión; un login nuevo reemplaza la anterior.
type AuthUseCase struct {
	userRepo repository.UserRepository
	sessions repository.SessionRepository
	jwtCfg   JWTConfig
	log      zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, sessions repository.SessionRepository, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	if jwtCfg.SessionTTL <= 0 {
		jwtCfg.SessionTTL = time.Hour
	}
	return &AuthUseCase{userRepo: userRepo, sessions: sessions, jwtCfg: jwtCfg, log: log}
}

// Login verifica email/password, genera JWT, lo registra como sesión vigente y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	// Mismo error para usuario inexistente y password incorrecto.
	if user == nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	if err := uc.sessions.Save(ctx, user.ID, token, uc.jwtCfg.SessionTTL); err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}
	uc.log.Info().Int64("user_id", user.ID).Msg("login")
	return &dto.LoginResponse{
		AccessToken: token,
		User:        *usecase.ToUserResponse(user),
	}, nil
}

// ValidateSession exige que exista sesión para el usuario, que sea exactamente este token y que el usuario siga activo.
func (uc *AuthUseCase) ValidateSession(ctx context.Context, userID int64, token string) error {
	stored, err := uc.sessions.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("leer sesión: %w", err)
	}
	if stored == "" {
		return fmt.Errorf("%w: sesión expirada o inexistente", domain.ErrUnauthorized)
	}
	if stored != token {
		return fmt.Errorf("%w: el token no corresponde a la sesión vigente", domain.ErrUnauthorized)
	}
	// Un usuario dado de baja pierde la sesión aunque el token no haya expirado.
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("leer usuario: %w", err)
	}
	if user == nil {
		_ = uc.sessions.Delete(ctx, userID)
		return fmt.Errorf("%w: usuario inactivo", domain.ErrUnauthorized)
	}
	return nil
}

// Logout elimina la sesión del usuario; el token deja de ser aceptado aunque no haya expirado.
func (uc *AuthUseCase) Logout(ctx context.Context, userID int64) (*dto.MessageResponse, error) {
	if err := uc.sessions.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("eliminar sesión: %w", err)
	}
	uc.log.Info().Int64("user_id", userID).Msg("logout")
	return &dto.MessageResponse{Message: "Sesión cerrada con éxito"}, nil
}
