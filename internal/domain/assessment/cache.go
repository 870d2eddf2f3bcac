package assessment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/yanqian/growth-monitor/internal/domain/growth"
)

// Cache stores finished assessments. Results are deterministic for a given
// profile and reference fingerprint, so entries never need invalidation
// beyond their TTL.
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Set(ctx context.Context, key string, res Result, ttl time.Duration) error
}

type cacheKeyInput struct {
	Fingerprint string        `json:"f"`
	Name        string        `json:"n"`
	Gender      growth.Gender `json:"g"`
	AgeMonths   int           `json:"a"`
	WeightKg    float64       `json:"w"`
	HeightCm    float64       `json:"h"`
	MUACCm      *float64      `json:"m,omitempty"`
}

func cacheKey(fingerprint string, in input) string {
	payload, _ := json.Marshal(cacheKeyInput{
		Fingerprint: fingerprint,
		Name:        in.name,
		Gender:      in.gender,
		AgeMonths:   in.ageMonths,
		WeightKg:    in.weightKg,
		HeightCm:    in.heightCm,
		MUACCm:      in.muacCm,
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
