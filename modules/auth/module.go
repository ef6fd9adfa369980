package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ekoc03/pokedex/config"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Module provides authentication services.
type Module struct {
	db       *gorm.DB
	service  *AuthService
	sessions SessionStore
	cfg      config.Auth
	dbPath   string
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new auth module. sessions backs the session strategy;
// when nil an in-memory store is used.
func NewModule(dbPath string, cfg config.Auth, sessions SessionStore, logger types.Logger) *Module {
	if sessions == nil {
		sessions = NewMemorySessionStore()
	}
	return &Module{
		dbPath:   dbPath,
		cfg:      cfg,
		sessions: sessions,
		logger:   logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "auth"
}

// Start opens the user database, seeds accounts and builds the service.
func (m *Module) Start(ctx context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	repo := NewUserRepository(db)
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewAuthService(repo, NewPasswordHasher(m.cfg.BcryptCost), m.tokenStrategy())

	created, err := m.service.SeedUsers(ctx, m.cfg.SeedUsers)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	m.logger.Info("Auth module started",
		"database", m.dbPath,
		"strategy", m.cfg.Strategy,
		"seededUsers", created)
	return nil
}

func (m *Module) tokenStrategy() TokenStrategy {
	if m.cfg.Strategy == config.StrategyJWT {
		return NewSignedTokens(JWTConfig{
			SecretKey: m.cfg.JWTSecret,
			TTL:       m.cfg.JWTTTL,
			Issuer:    m.cfg.JWTIssuer,
		})
	}
	return NewSessionTokens(m.sessions, m.cfg.SessionTTL)
}

// Stop closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	m.logger.Info("Auth module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
			"strategy": m.cfg.Strategy,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"login",
		json.Unmarshal,
		json.Marshal,
		m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"logout",
		json.Unmarshal,
		json.Marshal,
		m.handleLogout,
	); err != nil {
		return fmt.Errorf("failed to register logout service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"validate-token",
		json.Unmarshal,
		json.Marshal,
		m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	m.logger.Info("Registered services", "services", []string{"login", "logout", "validate-token"})
	return nil
}

func (m *Module) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	result, err := m.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{
		Token:    result.Token,
		Username: result.Username,
	}, nil
}

func (m *Module) handleLogout(ctx context.Context, req LogoutRequest, _ *mono.Msg) (LogoutResponse, error) {
	if err := m.service.Logout(ctx, req.Token); err != nil {
		return LogoutResponse{}, err
	}
	return LogoutResponse{LoggedOut: true}, nil
}

func (m *Module) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	identity, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, ErrMalformedToken) || errors.Is(err, ErrInvalidOrExpired) {
			// Rejections are replies, not failures.
			return ValidateTokenResponse{Valid: false, Error: err.Error()}, nil
		}
		return ValidateTokenResponse{}, err
	}

	return ValidateTokenResponse{
		Valid:    true,
		UserID:   identity.UserID,
		Username: identity.Username,
	}, nil
}

// Service returns the auth service. It is nil until Start has run.
func (m *Module) Service() *AuthService {
	return m.service
}
