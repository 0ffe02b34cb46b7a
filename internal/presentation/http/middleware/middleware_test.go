package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kikibeach/kiki-pos/internal/domain/entity"
	"github.com/kikibeach/kiki-pos/internal/domain/enum"
	"github.com/kikibeach/kiki-pos/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(`{}`))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", time.Hour)
	r := gin.New()
	r.GET("/me", AuthMiddleware(jwtManager), func(c *gin.Context) {
		c.String(http.StatusOK, "%s|%s", c.GetString(UserNameKey), c.MustGet(UserRoleKey))
	})
	r.GET("/admin", AuthMiddleware(jwtManager), RequireRole(enum.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	if w := perform(r, http.MethodGet, "/me", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no header: %d", w.Code)
	}
	if w := perform(r, http.MethodGet, "/me", map[string]string{"Authorization": "Token abc"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad scheme: %d", w.Code)
	}
	if w := perform(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer nope"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", w.Code)
	}

	token, err := jwtManager.GenerateAccessToken(uuid.New(), "kasir@kikibeach.id", "Kasir", string(enum.RoleCashier))
	if err != nil {
		t.Fatal(err)
	}
	auth := map[string]string{"Authorization": "Bearer " + token}

	w := perform(r, http.MethodGet, "/me", auth)
	if w.Code != http.StatusOK || w.Body.String() != "Kasir|cashier" {
		t.Fatalf("me = %d %q", w.Code, w.Body.String())
	}
	if w := perform(r, http.MethodGet, "/admin", auth); w.Code != http.StatusForbidden {
		t.Fatalf("cashier on admin route: %d", w.Code)
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", time.Hour)
	r := gin.New()
	r.GET("/menu", OptionalAuthMiddleware(jwtManager), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(UserEmailKey))
	})

	if w := perform(r, http.MethodGet, "/menu", map[string]string{"Authorization": "Bearer broken"}); w.Code != http.StatusOK || w.Body.String() != "" {
		t.Fatalf("guest = %d %q", w.Code, w.Body.String())
	}

	token, _ := jwtManager.GenerateAccessToken(uuid.New(), "kasir@kikibeach.id", "Kasir", "cashier")
	if w := perform(r, http.MethodGet, "/menu", map[string]string{"Authorization": "Bearer " + token}); w.Body.String() != "kasir@kikibeach.id" {
		t.Fatalf("staff = %q", w.Body.String())
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	})
	defer rl.Stop()

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := perform(r, http.MethodGet, "/", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d: %d", i, w.Code)
		}
	}
	w := perform(r, http.MethodGet, "/", nil)
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "1" {
		t.Fatalf("third request: %d", w.Code)
	}
	if got := rl.Stats()["active_clients"]; got != 1 {
		t.Fatalf("active_clients = %v", got)
	}
}

func TestRateLimiterConfigFrom(t *testing.T) {
	cfg := RateLimiterConfigFrom(120, 60)
	if cfg.RequestsPerSecond != 2 || cfg.BurstSize != 120 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg := RateLimiterConfigFrom(0, 60); cfg.BurstSize != DefaultRateLimiterConfig().BurstSize {
		t.Fatalf("zero requests should keep defaults: %+v", cfg)
	}
}

type memoryIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func (r *memoryIdempotencyRepo) GetByKey(_ context.Context, key, scope string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[scope+"|"+key], nil
}

func (r *memoryIdempotencyRepo) Reserve(_ context.Context, k *entity.IdempotencyKey) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.keys[k.Scope+"|"+k.Key]; ok && !existing.IsExpired() {
		return false, nil
	}
	stored := *k
	r.keys[k.Scope+"|"+k.Key] = &stored
	return true, nil
}

func (r *memoryIdempotencyRepo) Complete(_ context.Context, k *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *k
	r.keys[k.Scope+"|"+k.Key] = &stored
	return nil
}

func (r *memoryIdempotencyRepo) Release(_ context.Context, key, scope string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.keys[scope+"|"+key]; ok && existing.IsPending() {
		delete(r.keys, scope+"|"+key)
	}
	return nil
}

func (r *memoryIdempotencyRepo) DeleteExpired(context.Context) error { return nil }

func TestIdempotencyReplaysResponse(t *testing.T) {
	repo := &memoryIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
	calls := 0

	r := gin.New()
	r.POST("/orders", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"id": calls})
	})

	headers := map[string]string{IdempotencyKeyHeader: "abc-123"}
	first := perform(r, http.MethodPost, "/orders", headers)
	second := perform(r, http.MethodPost, "/orders", headers)

	if calls != 1 {
		t.Fatalf("handler ran %d times", calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Fatalf("replay = %d %q, first %q", second.Code, second.Body.String(), first.Body.String())
	}
	if second.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Fatal("replay header missing")
	}

	perform(r, http.MethodPost, "/orders", map[string]string{IdempotencyKeyHeader: "other"})
	perform(r, http.MethodPost, "/orders", nil)
	if calls != 3 {
		t.Fatalf("distinct keys should run the handler, calls = %d", calls)
	}
}

func TestIdempotencySkipsServerErrors(t *testing.T) {
	repo := &memoryIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
	fail := true

	r := gin.New()
	r.POST("/orders", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		if fail {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusCreated)
	})

	headers := map[string]string{IdempotencyKeyHeader: "retry-me"}
	perform(r, http.MethodPost, "/orders", headers)
	fail = false
	if w := perform(r, http.MethodPost, "/orders", headers); w.Code != http.StatusCreated {
		t.Fatalf("retry = %d", w.Code)
	}
}

func TestIdempotencyDoesNotReplayClientErrors(t *testing.T) {
	repo := &memoryIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
	inStock := false
	calls := 0

	r := gin.New()
	r.POST("/orders", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		if !inStock {
			c.JSON(http.StatusConflict, gin.H{"message": "Insufficient stock"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": calls})
	})

	headers := map[string]string{IdempotencyKeyHeader: "restock"}
	if w := perform(r, http.MethodPost, "/orders", headers); w.Code != http.StatusConflict {
		t.Fatalf("first = %d", w.Code)
	}
	if len(repo.keys) != 0 {
		t.Fatalf("client error left %d keys behind", len(repo.keys))
	}

	inStock = true
	w := perform(r, http.MethodPost, "/orders", headers)
	if w.Code != http.StatusCreated || w.Header().Get("X-Idempotency-Replayed") != "" {
		t.Fatalf("retry after restock = %d, replayed %q", w.Code, w.Header().Get("X-Idempotency-Replayed"))
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestIdempotencyRejectsConcurrentDuplicate(t *testing.T) {
	repo := &memoryIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var callsMu sync.Mutex

	r := gin.New()
	r.POST("/orders", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		callsMu.Lock()
		calls++
		first := calls == 1
		callsMu.Unlock()
		if first {
			close(started)
			<-release
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	headers := map[string]string{IdempotencyKeyHeader: "double-tap"}
	done := make(chan *httptest.ResponseRecorder)
	go func() { done <- perform(r, http.MethodPost, "/orders", headers) }()

	<-started
	if w := perform(r, http.MethodPost, "/orders", headers); w.Code != http.StatusConflict {
		t.Fatalf("duplicate in flight = %d, want 409", w.Code)
	}

	close(release)
	if w := <-done; w.Code != http.StatusCreated {
		t.Fatalf("first = %d", w.Code)
	}

	w := perform(r, http.MethodPost, "/orders", headers)
	if w.Code != http.StatusCreated || w.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Fatalf("after completion = %d, replayed %q", w.Code, w.Header().Get("X-Idempotency-Replayed"))
	}
	callsMu.Lock()
	defer callsMu.Unlock()
	if calls != 1 {
		t.Fatalf("handler ran %d times", calls)
	}
}
