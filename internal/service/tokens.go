package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token scopes. Access tokens authenticate requests; the others unlock one
// follow-up action each.
const (
	ScopeAccess         = "access"
	ScopePremiumPayment = "premium_payment"
	ScopePasswordReset  = "password_reset"
)

type Claims struct {
	UserID string `json:"userId"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func (t tokenIssuer) issue(userID, scope string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: userID,
		Scope:  scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("トークンの署名に失敗しました: %w", err)
	}

	return tokenString, nil
}

// parse validates signature, expiry and scope.
func (t tokenIssuer) parse(tokenString, scope string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("予期しない署名方式です: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("トークンの解析に失敗しました: %w", err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("無効なトークンです")
	}
	if claims.Scope != scope {
		return nil, fmt.Errorf("トークンの用途が違います: %s", claims.Scope)
	}

	return claims, nil
}
