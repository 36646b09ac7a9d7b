package builtin

import (
	"fmt"
	"strings"

	"github.com/snrraptopack/auwsomebridge-sub000/internal/config"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/hooks"
)

// UserKey is the Values key under which the auth hook publishes the
// authenticated user id for later hooks and the handler.
const UserKey = "user_id"

// Auth returns a bearer-token hook instance. A missing or unknown token
// rejects with 401; on success the user id lands in Values[UserKey].
func Auth(cfg config.AuthConfig) (hooks.Hook, error) {
	factory, err := hooks.NewFactory(hooks.Definition{
		Name: "auth",
		Setup: func(cfgValue any) (any, error) {
			c, ok := cfgValue.(config.AuthConfig)
			if !ok {
				return nil, fmt.Errorf("auth: config must be config.AuthConfig")
			}
			if len(c.Tokens) == 0 {
				return nil, fmt.Errorf("auth: at least one token is required")
			}
			// Copy so later config mutation can't change the instance.
			tokens := make(map[string]string, len(c.Tokens))
			for token, user := range c.Tokens {
				tokens[token] = user
			}
			return tokens, nil
		},
		Before: func(c *hooks.Context, state any) hooks.Result {
			tokens := state.(map[string]string)
			token := bearerToken(c.Req)
			if token == "" {
				return hooks.Reject(401, "no token")
			}
			user, ok := tokens[token]
			if !ok {
				return hooks.Reject(401, "invalid token")
			}
			c.Set(UserKey, user)
			return hooks.Continue()
		},
	})
	if err != nil {
		return hooks.Hook{}, err
	}
	return factory(cfg)
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(req *hooks.Request) string {
	if req == nil || req.Header == nil {
		return ""
	}
	auth := req.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
