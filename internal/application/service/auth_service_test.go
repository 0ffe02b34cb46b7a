package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/kikibeach/kiki-pos/internal/domain/enum"
	"github.com/kikibeach/kiki-pos/pkg/apperror"
	"github.com/kikibeach/kiki-pos/pkg/utils"
)

func newAuthFixture(t *testing.T) (*AuthService, *utils.JWTManager) {
	t.Helper()
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(newFakeUserRepo(), jwtManager), jwtManager
}

func TestRegisterAndLogin(t *testing.T) {
	svc, jwtManager := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterInput{Name: "Kasir Satu", Email: " Kasir@KikiBeach.id ", Password: "rahasia123"})
	if err != nil {
		t.Fatal(err)
	}
	if user.Role != enum.RoleCashier || user.Email != "kasir@kikibeach.id" {
		t.Fatalf("user = %+v", user)
	}
	if user.Password == "rahasia123" {
		t.Fatal("password stored in plain text")
	}

	out, err := svc.Login(ctx, &LoginInput{Email: "kasir@kikibeach.id", Password: "rahasia123"})
	if err != nil {
		t.Fatal(err)
	}
	claims, err := jwtManager.ValidateAccessToken(out.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Name != "Kasir Satu" || claims.Role != "cashier" || claims.UserID != user.ID {
		t.Fatalf("claims = %+v", claims)
	}

	me, err := svc.GetCurrentUser(ctx, user.ID)
	if err != nil || me.Email != user.Email {
		t.Fatalf("GetCurrentUser = %+v, %v", me, err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, &RegisterInput{Name: "A", Email: "a@b.id", Password: "rahasia123"}); err != nil {
		t.Fatal(err)
	}

	for _, in := range []LoginInput{{Email: "a@b.id", Password: "salah"}, {Email: "nobody@b.id", Password: "rahasia123"}} {
		if _, err := svc.Login(ctx, &in); err != apperror.ErrInvalidCredentials {
			t.Errorf("Login(%s) err = %v", in.Email, err)
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Name: "", Email: "nope", Password: "short", Role: "owner"})
	appErr := apperror.GetAppError(err)
	if appErr.Code != http.StatusUnprocessableEntity || len(appErr.Errors) != 4 {
		t.Fatalf("err = %+v", appErr)
	}

	if _, err := svc.Register(ctx, &RegisterInput{Name: "A", Email: "a@b.id", Password: "rahasia123", Role: enum.RoleAdmin}); err != nil {
		t.Fatal(err)
	}
	_, err = svc.Register(ctx, &RegisterInput{Name: "B", Email: "a@b.id", Password: "rahasia123"})
	if apperror.GetAppError(err).Code != http.StatusConflict {
		t.Fatalf("duplicate err = %v", err)
	}
}
