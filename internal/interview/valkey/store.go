package interviewvalkey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/valkey-io/valkey-go"

	"github.com/prepdeck/interview-manager/internal/serviceerr"
)

// casScript implements the compare-and-swap save: it replaces the stored
// document only when the embedded version matches the expected one. The
// read, compare, and write run atomically inside Valkey.
var casScript = valkey.NewLuaScript(`
local cur = redis.call('GET', KEYS[1])
if not cur then
	return 'notfound'
end
local doc = cjson.decode(cur)
if tostring(doc.version) ~= ARGV[1] then
	return 'conflict'
end
redis.call('SET', KEYS[1], ARGV[2])
return 'ok'
`)

type store struct {
	valkey valkey.Client
	prefix string
}

func newStore(valkeyClient valkey.Client, prefix string) *store {
	prefix = strings.TrimSuffix(prefix, ":")
	return &store{
		valkey: valkeyClient,
		prefix: prefix,
	}
}

func (s *store) Get(ctx context.Context, objectType, objectID string, decodeInto any) error {
	key := s.key(objectType, objectID)
	bytes, err := s.valkey.Do(ctx, s.valkey.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		valkeyErr, ok := valkey.IsValkeyErr(err)
		if ok && valkeyErr.IsNil() {
			return errors.Join(valkeyErr, serviceerr.ErrNotFound)
		}

		return fmt.Errorf("executing get command: %w", err)
	}

	if err := json.Unmarshal(bytes, decodeInto); err != nil {
		return fmt.Errorf("unmarshaling json: %w", err)
	}

	return nil
}

// SetNX stores a new document, failing with ErrConflict when the key
// already exists.
func (s *store) SetNX(ctx context.Context, objectType, objectID string, val any) error {
	key := s.key(objectType, objectID)
	bytes, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshaling json: %w", err)
	}

	err = s.valkey.Do(ctx, s.valkey.B().Set().Key(key).Value(valkey.BinaryString(bytes)).Nx().Build()).Error()
	if err != nil {
		valkeyErr, ok := valkey.IsValkeyErr(err)
		if ok && valkeyErr.IsNil() {
			return errors.Join(valkeyErr, serviceerr.ErrConflict)
		}

		return fmt.Errorf("executing set command: %w", err)
	}

	return nil
}

// CompareAndSwap replaces the stored document when the stored version
// equals expectedVersion.
func (s *store) CompareAndSwap(ctx context.Context, objectType, objectID string, expectedVersion int64, val any) error {
	key := s.key(objectType, objectID)
	bytes, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshaling json: %w", err)
	}

	result, err := casScript.Exec(ctx, s.valkey,
		[]string{key},
		[]string{strconv.FormatInt(expectedVersion, 10), valkey.BinaryString(bytes)},
	).ToString()
	if err != nil {
		return fmt.Errorf("executing cas script: %w", err)
	}

	switch result {
	case "ok":
		return nil
	case "conflict":
		return serviceerr.ErrConflict
	case "notfound":
		return serviceerr.ErrNotFound
	default:
		return fmt.Errorf("unexpected cas script result: %q", result)
	}
}

func (s *store) key(objectType, objectID string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, objectType, objectID)
}
