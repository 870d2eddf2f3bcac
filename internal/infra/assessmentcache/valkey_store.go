package assessmentcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/growth-monitor/internal/domain/assessment"
	apperrors "github.com/yanqian/growth-monitor/pkg/errors"
)

// ValkeyStore persists assessments using a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "growth"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (assessment.Result, bool, error) {
	cmd := s.client.B().Get().Key(s.entryKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return assessment.Result{}, false, nil
		}
		return assessment.Result{}, false, apperrors.Wrap(apperrors.CodeCache, "valkey get", err)
	}
	var res assessment.Result
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return assessment.Result{}, false, apperrors.Wrap(apperrors.CodeCache, "decode cached assessment", err)
	}
	return res, true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key string, res assessment.Result, ttl time.Duration) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeCache, "encode assessment", err)
	}
	builder := s.client.B().Set().Key(s.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return apperrors.Wrap(apperrors.CodeCache, "valkey set", err)
	}
	return nil
}

func (s *ValkeyStore) entryKey(key string) string {
	return fmt.Sprintf("%s:assessment:%s", s.prefix, key)
}

var _ assessment.Cache = (*ValkeyStore)(nil)
