package middelware

import (
	"context"
	"disasterlink-backend/models"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockLogger implements the logger interface for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Debugf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Info(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Infof(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Warnf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Error(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Errorf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Fatal(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Fatalf(format string, args ...interface{}) {
	m.Called(format, args)
}

func newQuietLogger() *MockLogger {
	l := &MockLogger{}
	l.On("Debug", mock.Anything).Return().Maybe()
	l.On("Debugf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Info", mock.Anything).Return().Maybe()
	l.On("Infof", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Warn", mock.Anything).Return().Maybe()
	l.On("Warnf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Error", mock.Anything, mock.Anything).Return().Maybe()
	l.On("Errorf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	return l
}

// MockOperatorRepository implements the OperatorRepositoryInterface for testing
type MockOperatorRepository struct {
	mock.Mock
}

func (m *MockOperatorRepository) CreateOperator(ctx context.Context, operator *models.Operator) (*models.Operator, error) {
	args := m.Called(ctx, operator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Operator), args.Error(1)
}

func (m *MockOperatorRepository) GetOperator(ctx context.Context, operatorID string) (*models.Operator, error) {
	args := m.Called(ctx, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Operator), args.Error(1)
}

func (m *MockOperatorRepository) GetOperatorByUsername(ctx context.Context, username string) (*models.Operator, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Operator), args.Error(1)
}

func (m *MockOperatorRepository) UpdateOperatorFields(ctx context.Context, operatorID string, updates map[string]interface{}) error {
	args := m.Called(ctx, operatorID, updates)
	return args.Error(0)
}

func jwtTestConfig() *models.Config {
	return &models.Config{
		AppName:      "DisasterLink Backend",
		JWTSecret:    "test-secret-key-for-unit-tests",
		JWTExpiresIn: 30 * time.Minute,
	}
}

func testOperator() *models.Operator {
	return &models.Operator{
		OperatorID: "op-1",
		Email:      "ops@example.com",
		Username:   "control-room-1",
		Status:     models.OperatorStatusActive,
	}
}

func ginTestContext() *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager(jwtTestConfig(), newQuietLogger(), nil)

	token, expiresAt, err := manager.GenerateToken(testOperator())

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := manager.ValidateToken(ginTestContext(), token)

	assert.NoError(t, err)
	assert.Equal(t, "op-1", claims.OperatorID)
	assert.Equal(t, "control-room-1", claims.Username)
	assert.Equal(t, "DisasterLink Backend", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := NewJWTManager(jwtTestConfig(), newQuietLogger(), nil)
	token, _, err := issuer.GenerateToken(testOperator())
	assert.NoError(t, err)

	otherConfig := jwtTestConfig()
	otherConfig.JWTSecret = "a-different-secret"
	verifier := NewJWTManager(otherConfig, newQuietLogger(), nil)

	claims, err := verifier.ValidateToken(ginTestContext(), token)

	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateTokenGarbage(t *testing.T) {
	manager := NewJWTManager(jwtTestConfig(), newQuietLogger(), nil)

	claims, err := manager.ValidateToken(ginTestContext(), "not.a.token")

	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateTokenExpired(t *testing.T) {
	cfg := jwtTestConfig()
	cfg.JWTExpiresIn = -time.Minute
	manager := NewJWTManager(cfg, newQuietLogger(), nil)

	token, _, err := manager.GenerateToken(testOperator())
	assert.NoError(t, err)

	claims, err := manager.ValidateToken(ginTestContext(), token)

	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestRevokedTokenRejected(t *testing.T) {
	manager := NewJWTManager(jwtTestConfig(), newQuietLogger(), nil)

	token, expiresAt, err := manager.GenerateToken(testOperator())
	assert.NoError(t, err)

	claims, err := manager.ValidateToken(ginTestContext(), token)
	assert.NoError(t, err)

	manager.RevokeToken(claims.ID, expiresAt)

	revoked, err := manager.ValidateToken(ginTestContext(), token)

	assert.Error(t, err)
	assert.Nil(t, revoked)
	assert.Contains(t, err.Error(), "revoked")
}

func TestCleanupExpiredTokens(t *testing.T) {
	manager := NewJWTManager(jwtTestConfig(), newQuietLogger(), nil)

	manager.RevokeToken("stale-token", time.Now().Add(-time.Hour))
	manager.RevokeToken("live-token", time.Now().Add(time.Hour))

	manager.CleanupExpiredTokens()

	manager.TokenMutex.RLock()
	defer manager.TokenMutex.RUnlock()
	assert.NotContains(t, manager.BlacklistedTokens, "stale-token")
	assert.Contains(t, manager.BlacklistedTokens, "live-token")
}

// Validation cross-checks the operator account when a repository is wired.
func TestValidateTokenOperatorCrossCheck(t *testing.T) {
	repo := &MockOperatorRepository{}
	manager := NewJWTManager(jwtTestConfig(), newQuietLogger(), repo)

	token, _, err := manager.GenerateToken(testOperator())
	assert.NoError(t, err)

	repo.On("GetOperator", mock.Anything, "op-1").Return(testOperator(), nil).Once()
	claims, err := manager.ValidateToken(ginTestContext(), token)
	assert.NoError(t, err)
	assert.Equal(t, "op-1", claims.OperatorID)

	suspended := testOperator()
	suspended.Status = models.OperatorStatusSuspended
	repo.On("GetOperator", mock.Anything, "op-1").Return(suspended, nil).Once()
	claims, err = manager.ValidateToken(ginTestContext(), token)
	assert.Error(t, err)
	assert.Nil(t, claims)

	repo.AssertExpectations(t)
}

func authTestRouter(manager *JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", manager.AuthMiddleware(), func(c *gin.Context) {
		operatorID := c.GetString("operator_id")
		c.JSON(http.StatusOK, gin.H{"operator_id": operatorID})
	})
	return r
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	r := authTestRouter(NewJWTManager(jwtTestConfig(), newQuietLogger(), nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header is required")
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	r := authTestRouter(NewJWTManager(jwtTestConfig(), newQuietLogger(), nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abcdef")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Bearer")
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	r := authTestRouter(NewJWTManager(jwtTestConfig(), newQuietLogger(), nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	manager := NewJWTManager(jwtTestConfig(), newQuietLogger(), nil)
	r := authTestRouter(manager)

	token, _, err := manager.GenerateToken(testOperator())
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "op-1")
}
