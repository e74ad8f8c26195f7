package auth

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields carried in the access token. The JTI points at a
// server-side session row, which is what makes the token revocable.
type Claims struct {
	Subject uint
	Role    string
	Plan    string
	JWTID   string
}

func parseTTL() time.Duration {
	if s := os.Getenv("JWT_EXPIRES_IN"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return 24 * time.Hour
}

// TokenTTL is the session lifetime, shared with the session row.
func TokenTTL() time.Duration { return parseTTL() }

func Sign(userID uint, role, plan, jti string) (string, error) {
	key := []byte(os.Getenv("JWT_SECRET"))
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(userID), 10),
		"role": role,
		"plan": plan,
		"jti":  jti,
		"exp":  now.Add(parseTTL()).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

func Verify(tokenStr string) (Claims, error) {
	key := []byte(os.Getenv("JWT_SECRET"))
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return Claims{}, errors.New("invalid token")
	}
	mapc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid claims")
	}
	sub, _ := mapc["sub"].(string)
	uid, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return Claims{}, errors.New("invalid subject")
	}
	role, _ := mapc["role"].(string)
	plan, _ := mapc["plan"].(string)
	jti, _ := mapc["jti"].(string)
	return Claims{Subject: uint(uid), Role: role, Plan: plan, JWTID: jti}, nil
}
