package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

// AccessClaims are the identity claims carried by an access token.
type AccessClaims struct {
	UserID      string
	EmployeeID  string
	Role        user.Role
	Departments []string
}

// Service verifies access tokens issued by the identity provider.
// GenerateAccessToken exists for tooling and tests sharing the secret.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error)
	Principal(claims map[string]interface{}) (user.Principal, error)
}

type JWTService struct {
	tokenAuth                 *jwtauth.JWTAuth
	accessTokenExpirationTime time.Duration
}

func NewJWTService(secretKey string, accessTokenExpirationTime time.Duration) Service {
	return &JWTService{
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		accessTokenExpirationTime: accessTokenExpirationTime,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpirationTime).Unix()

	departments := claims.Departments
	if departments == nil {
		departments = []string{}
	}

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":     claims.UserID,
		"employee_id": claims.EmployeeID,
		"role":        string(claims.Role),
		"departments": departments,
		"type":        tokenTypeAccess,
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

// Principal builds the caller identity from verified token claims.
func (j *JWTService) Principal(claims map[string]interface{}) (user.Principal, error) {
	if tokenType, _ := claims["type"].(string); tokenType != tokenTypeAccess {
		return user.Principal{}, auth.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return user.Principal{}, fmt.Errorf("%w: user_id", auth.ErrInvalidClaims)
	}

	role := user.Role(stringClaim(claims, "role"))
	if !role.Valid() {
		return user.Principal{}, user.ErrInvalidRole
	}

	p := user.Principal{
		UserID:     userID,
		Role:       role,
		EmployeeID: stringClaim(claims, "employee_id"),
	}

	// JSON arrays decode as []interface{}
	switch v := claims["departments"].(type) {
	case []string:
		p.Departments = v
	case []interface{}:
		for _, d := range v {
			if name, ok := d.(string); ok && name != "" {
				p.Departments = append(p.Departments, name)
			}
		}
	}

	if role == user.RoleEmployee && p.EmployeeID == "" {
		return user.Principal{}, fmt.Errorf("%w: employee_id", auth.ErrInvalidClaims)
	}

	return p, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
