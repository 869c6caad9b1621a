package chronos

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

var userIDClaims = []string{"user_id", "userId", "id"}

// UserIDFromToken reads the numeric user id from the claims of a JWT access
// token. The signature is not checked; the token is only read, never trusted
// for authorization.
func UserIDFromToken(accessToken string) (int64, error) {
	tok, err := jwt.ParseString(accessToken, jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return 0, fmt.Errorf("access token is not a JWT: %w", err)
	}
	claims := tok.PrivateClaims()
	for _, name := range userIDClaims {
		if v, ok := claims[name]; ok {
			if n, ok := numericClaim(v); ok {
				return n, nil
			}
		}
	}
	if n, ok := numericClaim(tok.Subject()); ok {
		return n, nil
	}
	return 0, errors.New("access token carries no numeric user id (set user_id in the config)")
}

func numericClaim(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		if x > 0 && x == float64(int64(x)) {
			return int64(x), true
		}
	case json.Number:
		if n, err := x.Int64(); err == nil && n > 0 {
			return n, true
		}
	case string:
		if n, err := strconv.ParseInt(x, 10, 64); err == nil && n > 0 {
			return n, true
		}
	case int64:
		if x > 0 {
			return x, true
		}
	}
	return 0, false
}
