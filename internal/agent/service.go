package agent

import (
	"context"
	"errors"
	"strings"
	"time"

	"crm-platform/internal/auth"
	"crm-platform/internal/rbac"
	"crm-platform/internal/sms"
	"crm-platform/internal/stats"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound          = errors.New("agent: not found")
	ErrDuplicateUsername = errors.New("agent: username already exists")
	ErrInvalidArgument   = errors.New("agent: invalid argument")
	ErrBadCredentials    = errors.New("agent: bad credentials")
	ErrNoGateway         = errors.New("agent: no gateway device bound")
)

// Service manages accounts, login, and gateway device bindings.
type Service struct {
	repo  Repository
	auth  *auth.Manager
	clock func() time.Time
}

func NewService(repo Repository, authMgr *auth.Manager) *Service {
	return &Service{repo: repo, auth: authMgr, clock: time.Now}
}

type CreateRequest struct {
	Username string
	Password string
	Name     string
	Role     string
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Agent, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return Agent{}, ErrInvalidArgument
	}
	if req.Role == "" {
		req.Role = rbac.RoleAgent
	}
	if !rbac.IsKnownRole(req.Role) {
		return Agent{}, ErrInvalidArgument
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Agent{}, err
	}

	now := s.clock().UTC()
	a := Agent{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if a.Name == "" {
		a.Name = a.Username
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Agent{}, err
	}
	return a, nil
}

type LoginResult struct {
	Agent        Agent  `json:"agent"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login verifies credentials and issues a token pair. Bad username and bad
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	if username == "" || password == "" {
		return LoginResult{}, ErrInvalidArgument
	}
	a, found, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return LoginResult{}, err
	}
	if !found {
		return LoginResult{}, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return LoginResult{}, ErrBadCredentials
	}

	now := s.clock().UTC()
	pair, err := s.auth.IssuePair(now, a.ID, a.Role)
	if err != nil {
		return LoginResult{}, err
	}

	a.LastLoginAt = &now
	a.UpdatedAt = now
	// Best-effort; login must not fail on a bookkeeping write.
	_ = s.repo.Update(ctx, a)

	return LoginResult{Agent: a, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// Refresh exchanges a refresh token for a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (LoginResult, error) {
	now := s.clock().UTC()
	claims, err := s.auth.Verify(refreshToken, auth.TokenTypeRefresh, now)
	if err != nil {
		return LoginResult{}, ErrBadCredentials
	}
	a, err := s.repo.Get(ctx, claims.UserID)
	if err != nil {
		return LoginResult{}, ErrBadCredentials
	}
	pair, err := s.auth.IssuePair(now, a.ID, a.Role)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Agent: a, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *Service) Get(ctx context.Context, id string) (Agent, error) {
	if id == "" {
		return Agent{}, ErrInvalidArgument
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Agent, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidArgument
	}
	return s.repo.Delete(ctx, id)
}

// BindDevice attaches a gateway device to an agent. Rebinding replaces the
// previous device.
func (s *Service) BindDevice(ctx context.Context, agentID, url, username, password string) (Agent, error) {
	if agentID == "" || strings.TrimSpace(url) == "" {
		return Agent{}, ErrInvalidArgument
	}
	a, err := s.repo.Get(ctx, agentID)
	if err != nil {
		return Agent{}, err
	}
	a.GatewayURL = strings.TrimSpace(url)
	a.GatewayUsername = username
	a.GatewayPassword = password
	a.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, a); err != nil {
		return Agent{}, err
	}
	return a, nil
}

func (s *Service) ReleaseDevice(ctx context.Context, agentID string) (Agent, error) {
	a, err := s.repo.Get(ctx, agentID)
	if err != nil {
		return Agent{}, err
	}
	a.GatewayURL = ""
	a.GatewayUsername = ""
	a.GatewayPassword = ""
	a.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, a); err != nil {
		return Agent{}, err
	}
	return a, nil
}

// GatewayConfig implements the SMS adapter's gateway lookup.
func (s *Service) GatewayConfig(ctx context.Context, agentID string) (sms.GatewayConfig, error) {
	a, err := s.repo.Get(ctx, agentID)
	if err != nil {
		return sms.GatewayConfig{}, err
	}
	if a.GatewayURL == "" {
		return sms.GatewayConfig{}, ErrNoGateway
	}
	return sms.GatewayConfig{
		URL:      a.GatewayURL,
		Username: a.GatewayUsername,
		Password: a.GatewayPassword,
	}, nil
}

// Refs implements the statistics aggregator's agent listing. Only AGENT
// accounts appear in reports; admins are not sales buckets.
func (s *Service) Refs(ctx context.Context) ([]stats.AgentRef, error) {
	agents, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]stats.AgentRef, 0, len(agents))
	for _, a := range agents {
		if a.Role != rbac.RoleAgent {
			continue
		}
		out = append(out, stats.AgentRef{ID: a.ID, Name: a.Name})
	}
	return out, nil
}
