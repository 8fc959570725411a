package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashParams canonicalizes params to JSON and hashes it. encoding/json
// sorts map keys, so two calls with the same logical arguments (built
// from a map or a struct with stable field order) hash identically.
func hashParams(params interface{}) (string, error) {
	b, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("gateway: hash params: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
