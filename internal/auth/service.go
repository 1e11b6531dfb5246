package auth

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"glowspa-backend/internal/database"
	"glowspa-backend/internal/mailer"
	"glowspa-backend/internal/models"
)

var (
	// ErrInvalidToken covers every way a login link can be bad: unknown,
	// expired, already used. Callers must not distinguish between them.
	ErrInvalidToken = errors.New("invalid or expired link")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStaffDisabled      = errors.New("staff account is disabled")
)

const (
	// DefaultTokenTTL is how long a login link stays usable.
	DefaultTokenTTL = 15 * time.Minute

	// DefaultSessionTTL is the lifetime of a portal session.
	DefaultSessionTTL = 7 * 24 * time.Hour
)

// Config holds authenticator configuration.
// Zero values fall back to the defaults above.
type Config struct {
	// BaseURL is the public origin login links point at, e.g.
	// "https://glowatelier.example.com".
	BaseURL string

	// Production hardens cookie attributes and disables the dev-mode
	// login-link echo.
	Production bool

	TokenTTL   time.Duration
	SessionTTL time.Duration
}

// Service implements the passwordless portal authenticator and the staff
// password login. All state lives in the injected database handle.
type Service struct {
	clientRepo  *database.ClientRepo
	staffRepo   *database.StaffRepo
	tokenRepo   *database.LoginTokenRepo
	sessionRepo *database.SessionRepo
	logRepo     *database.AccessLogRepo
	mail        mailer.Mailer
	cfg         Config
}

// NewService creates a new auth service over the given database handle
func NewService(db *sql.DB, mail mailer.Mailer, cfg Config) *Service {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	return &Service{
		clientRepo:  database.NewClientRepo(db),
		staffRepo:   database.NewStaffRepo(db),
		tokenRepo:   database.NewLoginTokenRepo(db),
		sessionRepo: database.NewSessionRepo(db),
		logRepo:     database.NewAccessLogRepo(db),
		mail:        mail,
		cfg:         cfg,
	}
}

// Config returns the effective configuration
func (s *Service) Config() Config {
	return s.cfg
}

// SessionTTL returns the configured session lifetime
func (s *Service) SessionTTL() time.Duration {
	return s.cfg.SessionTTL
}

// RequestLoginLink issues a one-time login link for the given email and
// dispatches it. The caller's response must look identical whether or not
// the email matched a client, so "no such client" and "client cannot log
// in" both return ("", nil). The returned link is non-empty only outside
// production, for local testing.
func (s *Service) RequestLoginLink(email, ipAddress, userAgent string) (string, error) {
	client, err := s.clientRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, database.ErrClientNotFound) {
			return "", nil
		}
		return "", err
	}
	if !client.CanLogin() {
		return "", nil
	}

	raw, hash, err := GenerateSecret()
	if err != nil {
		return "", err
	}

	// At most one unconsumed token per client
	if err := s.tokenRepo.InvalidateForClient(client.ID); err != nil {
		return "", err
	}

	now := time.Now()
	token := &models.LoginToken{
		ClientID:  client.ID,
		TokenHash: hash,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := s.tokenRepo.Create(token); err != nil {
		return "", err
	}

	s.audit(models.AccessLogEntry{
		ClientID:  &client.ID,
		Action:    models.ActionLoginRequested,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	})

	link := s.cfg.BaseURL + "/portal/login/verify?token=" + raw

	// Deliverability is best-effort: the token stays valid and the user
	// can retry, so dispatch failure never fails the request.
	if err := s.mail.SendLoginLink(client.Email, link, s.cfg.TokenTTL); err != nil {
		log.Printf("auth: login link dispatch failed for client %s: %v", client.PublicID, err)
	}

	if s.cfg.Production {
		return "", nil
	}
	return link, nil
}

// LoginResult is returned on successful token verification
type LoginResult struct {
	Client       *models.Client
	Session      *models.Session
	SessionToken string
	RefreshToken string
}

// VerifyLoginToken exchanges a one-time secret for an authenticated
// session. Consumption is a conditional update, so two concurrent calls
// with the same secret produce exactly one session.
func (s *Service) VerifyLoginToken(rawToken, ipAddress, userAgent string) (*LoginResult, error) {
	if rawToken == "" {
		return nil, ErrInvalidToken
	}

	token, err := s.tokenRepo.Consume(HashSecret(rawToken))
	if err != nil {
		if errors.Is(err, database.ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	client, err := s.clientRepo.GetByID(token.ClientID)
	if err != nil {
		return nil, err
	}
	// Status may have changed between issuance and verification
	if !client.CanLogin() {
		return nil, ErrInvalidToken
	}

	rawSession, sessionHash, err := GenerateSecret()
	if err != nil {
		return nil, err
	}
	rawRefresh, refreshHash, err := GenerateSecret()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		Kind:             models.SessionClient,
		ClientID:         &client.ID,
		TokenHash:        sessionHash,
		RefreshTokenHash: refreshHash,
		ExpiresAt:        time.Now().Add(s.cfg.SessionTTL),
		IPAddress:        ipAddress,
		UserAgent:        userAgent,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}

	s.audit(models.AccessLogEntry{
		ClientID:  &client.ID,
		SessionID: session.PublicID,
		Action:    models.ActionLoginSucceeded,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	})

	return &LoginResult{
		Client:       client,
		Session:      session,
		SessionToken: rawSession,
		RefreshToken: rawRefresh,
	}, nil
}

// ValidateSession resolves a session cookie value to a client identity.
// Returns database.ErrSessionNotFound for anything other than a live
// client session; callers treat that as unauthenticated, not as an error.
func (s *Service) ValidateSession(rawToken string) (*models.Client, *models.Session, error) {
	if rawToken == "" {
		return nil, nil, database.ErrSessionNotFound
	}

	session, err := s.sessionRepo.GetActiveByTokenHash(HashSecret(rawToken))
	if err != nil {
		return nil, nil, err
	}
	if session.Kind != models.SessionClient || session.ClientID == nil {
		return nil, nil, database.ErrSessionNotFound
	}

	client, err := s.clientRepo.GetByID(*session.ClientID)
	if err != nil {
		return nil, nil, err
	}
	if !client.CanLogin() {
		return nil, nil, database.ErrSessionNotFound
	}

	// Last-activity touch must never block or fail the caller's request
	go func(id int64) {
		if err := s.sessionRepo.Touch(id); err != nil {
			log.Printf("auth: session touch failed: %v", err)
		}
	}(session.ID)

	return client, session, nil
}

// Logout revokes the session matching the cookie value. Logging out with
// no cookie, an unknown token, or an already-revoked session all succeed.
func (s *Service) Logout(rawToken, ipAddress, userAgent string) error {
	if rawToken == "" {
		return nil
	}

	hash := HashSecret(rawToken)
	session, err := s.sessionRepo.GetByTokenHash(hash)
	if err != nil {
		// Unknown token, nothing to revoke
		return nil
	}

	if err := s.sessionRepo.Revoke(hash); err != nil && !errors.Is(err, database.ErrSessionNotFound) {
		return err
	}

	action := models.ActionLogout
	if session.Kind == models.SessionStaff {
		action = models.ActionStaffLogout
	}
	s.audit(models.AccessLogEntry{
		ClientID:  session.ClientID,
		StaffID:   session.StaffID,
		SessionID: session.PublicID,
		Action:    action,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	})

	return nil
}

// StaffLoginResult is returned on successful staff authentication
type StaffLoginResult struct {
	Staff        *models.Staff
	Session      *models.Session
	SessionToken string
}

// StaffLogin authenticates a back-office user by email and password
func (s *Service) StaffLogin(email, password, ipAddress, userAgent string) (*StaffLoginResult, error) {
	staff, err := s.staffRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, database.ErrStaffNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	valid, err := VerifyPassword(password, staff.PasswordHash)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}
	if staff.Disabled {
		return nil, ErrStaffDisabled
	}

	rawSession, sessionHash, err := GenerateSecret()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		Kind:      models.SessionStaff,
		StaffID:   &staff.ID,
		TokenHash: sessionHash,
		ExpiresAt: time.Now().Add(s.cfg.SessionTTL),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}

	if err := s.staffRepo.UpdateLastLogin(staff.ID); err != nil {
		log.Printf("auth: staff last-login update failed: %v", err)
	}

	s.audit(models.AccessLogEntry{
		StaffID:   &staff.ID,
		SessionID: session.PublicID,
		Action:    models.ActionStaffLogin,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	})

	return &StaffLoginResult{
		Staff:        staff,
		Session:      session,
		SessionToken: rawSession,
	}, nil
}

// ValidateStaffSession resolves a staff session cookie to a staff identity
func (s *Service) ValidateStaffSession(rawToken string) (*models.Staff, *models.Session, error) {
	if rawToken == "" {
		return nil, nil, database.ErrSessionNotFound
	}

	session, err := s.sessionRepo.GetActiveByTokenHash(HashSecret(rawToken))
	if err != nil {
		return nil, nil, err
	}
	if session.Kind != models.SessionStaff || session.StaffID == nil {
		return nil, nil, database.ErrSessionNotFound
	}

	staff, err := s.staffRepo.GetByID(*session.StaffID)
	if err != nil {
		return nil, nil, err
	}
	if staff.Disabled {
		return nil, nil, database.ErrSessionNotFound
	}

	go func(id int64) {
		if err := s.sessionRepo.Touch(id); err != nil {
			log.Printf("auth: session touch failed: %v", err)
		}
	}(session.ID)

	return staff, session, nil
}

// RecordAccess writes a resource-access audit entry, best-effort
func (s *Service) RecordAccess(session *models.Session, resourceType, resourceID, ipAddress string) {
	s.audit(models.AccessLogEntry{
		ClientID:     session.ClientID,
		StaffID:      session.StaffID,
		SessionID:    session.PublicID,
		Action:       models.ActionResourceAccess,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
	})
}

// audit writes an access log entry; failures are logged and swallowed
func (s *Service) audit(entry models.AccessLogEntry) {
	if err := s.logRepo.Log(entry, nil); err != nil {
		log.Printf("auth: access log write failed: %v", err)
	}
}
