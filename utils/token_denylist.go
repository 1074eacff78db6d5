package utils

import (
	"context"
	"fmt"
	"time"
)

const denylistKeyPrefix = "denylist:jti:"

// IsTokenRevoked checks whether the token identifier is present in the
// external revocation set. A lookup failure is returned as an error and must
// be treated as a dependency failure by the caller, never as a pass.
func IsTokenRevoked(jti string) (bool, error) {
	rc := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := rc.Exists(ctx, denylistKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("denylist lookup for jti %s: %w", jti, err)
	}
	return n > 0, nil
}
