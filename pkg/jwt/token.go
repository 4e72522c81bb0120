package jwtPkg

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"MaxBot/internal/entity"
)

const (
	AccessTokenSecret = "JWT_ACCESS_TOKEN_SECRET"
	RoleOperator      = "operator"
	operatorLocalsKey = "operator"
)

var (
	ErrEmptyHeader   = errors.New("empty Authorization header")
	ErrInvalidFormat = errors.New("invalid Authorization format")
	ErrNoSecret      = errors.New("JWT secret not configured")
)

func Sign(data map[string]interface{}, expiresIn time.Duration) (string, int64, error) {
	expiredAt := time.Now().Add(expiresIn).Unix()

	secret := os.Getenv(AccessTokenSecret)
	if secret == "" {
		return "", 0, fmt.Errorf("%s not set", AccessTokenSecret)
	}

	claims := jwt.MapClaims{}
	for k, v := range data {
		claims[k] = v
	}
	claims["exp"] = expiredAt

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(secret))
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		return "", 0, err
	}

	return accessToken, expiredAt, nil
}

func SignOperator(op entity.OperatorLoginData, expiresIn time.Duration) (string, int64, error) {
	return Sign(map[string]interface{}{
		"id":   op.ID,
		"name": op.Name,
		"role": op.Role,
	}, expiresIn)
}

func VerifyTokenHeader(c *fiber.Ctx, secretEnvKey string) (*jwt.Token, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return nil, ErrEmptyHeader
	}

	accessToken, ok := strings.CutPrefix(header, "Bearer ")
	accessToken = strings.TrimSpace(accessToken)
	if !ok || accessToken == "" {
		return nil, ErrInvalidFormat
	}

	secret := os.Getenv(secretEnvKey)
	if secret == "" {
		return nil, ErrNoSecret
	}

	token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	return token, nil
}

// OperatorFromClaims rejects tokens that are not operator tokens.
func OperatorFromClaims(claims jwt.MapClaims) (entity.OperatorLoginData, error) {
	id, _ := claims["id"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)

	if id == "" || role != RoleOperator {
		return entity.OperatorLoginData{}, errors.New("token is not an operator token")
	}

	return entity.OperatorLoginData{ID: id, Name: name, Role: role}, nil
}

func SetOperatorLoginData(c *fiber.Ctx, op entity.OperatorLoginData) {
	c.Locals(operatorLocalsKey, op)
	c.Locals("operator_id", op.ID)
}

func GetOperatorLoginData(c *fiber.Ctx) (entity.OperatorLoginData, error) {
	op, ok := c.Locals(operatorLocalsKey).(entity.OperatorLoginData)
	if !ok {
		return entity.OperatorLoginData{}, fiber.ErrUnauthorized
	}
	return op, nil
}
