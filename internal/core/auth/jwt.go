package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskerai/internal/rbac"
)

// 两类令牌：access 登录态，verify 邮箱确认（短时）
const (
	PurposeAccess = "access"
	PurposeVerify = "verify"
)

type Claims struct {
	UID     uint   `json:"uid"`
	Role    string `json:"role"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret    []byte
	Issuer    string
	AccessTTL time.Duration
	VerifyTTL time.Duration
}

func (j *JWTer) issue(uid uint, role rbac.Role, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:     uid,
		Role:    string(role),
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTer) IssueAccess(uid uint, role rbac.Role) (string, error) {
	return j.issue(uid, role, PurposeAccess, j.AccessTTL)
}

// IssueVerify 邮箱确认令牌，不携带登录权限
func (j *JWTer) IssueVerify(uid uint) (string, error) {
	return j.issue(uid, "", PurposeVerify, j.VerifyTTL)
}

func (j *JWTer) parse(tokenStr, purpose string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))

	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, errors.New("invalid token")
	}
	if c.Purpose != purpose {
		// verify 令牌不能当登录态用，反之亦然
		return nil, errors.New("wrong token purpose")
	}
	return c, nil
}

func (j *JWTer) ParseAccess(tokenStr string) (*Claims, error) {
	return j.parse(tokenStr, PurposeAccess)
}

func (j *JWTer) ParseVerify(tokenStr string) (*Claims, error) {
	return j.parse(tokenStr, PurposeVerify)
}
