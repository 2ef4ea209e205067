package middleware

import (
	"errors"
	"net/http"
	"strings"

	"buildseason/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey   = "user_id"   // string（認証基盤のsub）
	CtxTeamIDKey   = "team_id"   // string
	CtxTeamRoleKey = "team_role" // model.Role
)

// bearerAuth用のJWT検証ミドルウェア。
// トークンの発行は外部の認証基盤。ここでは署名・期限・issuerだけ見る。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized", "unauthorized"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized", "unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized", "unauthorized"))
			}

			//JWTをパースして検証する
			claims := jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(rawToken, &claims, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || token == nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized", "unauthorized"))
			}

			// issuerは設定されているときだけ確認
			if cfg.JWTIssuer != "" && !claims.VerifyIssuer(cfg.JWTIssuer, true) {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized", "unauthorized"))
			}

			//user_idを取り出す
			userID := strings.TrimSpace(claims.Subject)
			if userID == "" || len(userID) > 64 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized", "unauthorized"))
			}

			//contextへ保存
			c.Set(CtxUserIDKey, userID)

			return next(c)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func errorJSON(msg, code string) errorResponse {
	return errorResponse{Error: msg, Code: code}
}
