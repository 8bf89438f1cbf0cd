package document

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/DioGolang/GoPOS/internal/application/port/outbound"
	"github.com/redis/go-redis/v9"
)

// session is the document-store transaction context shared by every
// repository of one unit of work. A key is WATCHed and read at most once per
// session and later reads are served from the snapshot: a second WATCH
// would move the watch point past changes made by other clients. Writes are
// buffered and applied by a single MULTI/EXEC on commit, so a concurrent
// change to anything read aborts the whole unit.
type session struct {
	tx     *redis.Tx
	keys   Keyspace
	docs   map[string]*string
	sets   map[string]map[string]bool
	closed bool

	// snapshot of watched keys; nil marks a key that did not exist
	read    map[string]*string
	readSet map[string][]string
}

func newSession(tx *redis.Tx, keys Keyspace) *session {
	return &session{
		tx:      tx,
		keys:    keys,
		docs:    make(map[string]*string),
		sets:    make(map[string]map[string]bool),
		read:    make(map[string]*string),
		readSet: make(map[string][]string),
	}
}

func (s *session) ensureOpen() error {
	if s.closed {
		return outbound.ErrTransactionClosed
	}
	return nil
}

// getDoc decodes the document stored at key into dst. found is false when
// the key does not exist or was deleted earlier in the session.
func (s *session) getDoc(ctx context.Context, key string, dst any) (found bool, err error) {
	raw, found, err := s.get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *session) get(ctx context.Context, key string) (string, bool, error) {
	if err := s.ensureOpen(); err != nil {
		return "", false, err
	}
	v, ok := s.docs[key]
	if !ok {
		var err error
		if v, err = s.watchGet(ctx, key); err != nil {
			return "", false, err
		}
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (s *session) watchGet(ctx context.Context, key string) (*string, error) {
	if v, ok := s.read[key]; ok {
		return v, nil
	}
	if err := s.tx.Watch(ctx, key).Err(); err != nil {
		return nil, err
	}
	v, err := s.tx.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		s.read[key] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.read[key] = &v
	return &v, nil
}

func (s *session) watchMembers(ctx context.Context, key string) ([]string, error) {
	if stored, ok := s.readSet[key]; ok {
		return stored, nil
	}
	if err := s.tx.Watch(ctx, key).Err(); err != nil {
		return nil, err
	}
	stored, err := s.tx.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	s.readSet[key] = stored
	return stored, nil
}

func (s *session) putDoc(key string, doc any) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	v := string(raw)
	s.docs[key] = &v
	return nil
}

func (s *session) putString(key, value string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	s.docs[key] = &value
	return nil
}

func (s *session) del(key string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	s.docs[key] = nil
	return nil
}

func (s *session) members(ctx context.Context, key string) ([]string, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	stored, err := s.watchMembers(ctx, key)
	if err != nil {
		return nil, err
	}
	changes := s.sets[key]
	out := make([]string, 0, len(stored)+len(changes))
	for _, m := range stored {
		if add, changed := changes[m]; changed && !add {
			continue
		}
		out = append(out, m)
	}
	for m, add := range changes {
		if add && !contains(stored, m) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *session) addMember(key, member string) error {
	return s.changeMember(key, member, true)
}

func (s *session) removeMember(key, member string) error {
	return s.changeMember(key, member, false)
}

func (s *session) changeMember(key, member string, add bool) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if s.sets[key] == nil {
		s.sets[key] = make(map[string]bool)
	}
	s.sets[key][member] = add
	return nil
}

func (s *session) hasWrites() bool {
	return len(s.docs) > 0 || len(s.sets) > 0
}

// commit applies the buffered writes atomically. redis.TxFailedErr means a
// watched key changed and nothing was written.
func (s *session) commit(ctx context.Context) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if !s.hasWrites() {
		return nil
	}
	_, err := s.tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, v := range s.docs {
			if v == nil {
				pipe.Del(ctx, key)
				continue
			}
			pipe.Set(ctx, key, *v, 0)
		}
		for key, changes := range s.sets {
			for member, add := range changes {
				if add {
					pipe.SAdd(ctx, key, member)
				} else {
					pipe.SRem(ctx, key, member)
				}
			}
		}
		return nil
	})
	return err
}

func (s *session) close() {
	s.closed = true
	s.docs = nil
	s.sets = nil
	s.read = nil
	s.readSet = nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
