package cache

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gomodule/redigo/redis"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/state"
)

const maxWatchRetries = 16

var ErrContention = errors.New("player state kept changing, try again")

// PlayerStore keeps player state in one redis hash per player, keyed
// "<game>.<user>".
type PlayerStore struct {
	pool *redis.Pool
	game string
}

var _ state.Store = (*PlayerStore)(nil)

func NewPlayerStore(pool *redis.Pool, gameID string) *PlayerStore {
	return &PlayerStore{pool: pool, game: gameID}
}

func (s *PlayerStore) key(id string) string {
	return fmt.Sprintf("%s.%s", s.game, id)
}

func (s *PlayerStore) Create(id string, p models.PlayerState) error {
	conn := s.pool.Get()
	defer conn.Close()
	n, err := redis.Int(conn.Do("EXISTS", s.key(id)))
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("player %s already seated", id)
	}
	return HSETALL(conn, s.key(id), encode(p))
}

func (s *PlayerStore) Get(id string) (models.PlayerState, error) {
	conn := s.pool.Get()
	defer conn.Close()
	return s.load(conn, id)
}

func (s *PlayerStore) load(conn redis.Conn, id string) (models.PlayerState, error) {
	fields, err := HGETALL(conn, s.key(id))
	if err != nil {
		return models.PlayerState{}, err
	}
	if len(fields) == 0 {
		return models.PlayerState{}, fmt.Errorf("%w: %s", models.ErrUnknownPlayer, id)
	}
	return decode(fields)
}

func (s *PlayerStore) Update(id string, fn state.UpdateFunc) (models.PlayerState, error) {
	conn := s.pool.Get()
	defer conn.Close()

	key := s.key(id)
	for i := 0; i < maxWatchRetries; i++ {
		if err := Watch(conn, key); err != nil {
			return models.PlayerState{}, err
		}
		cur, err := s.load(conn, id)
		if err != nil {
			Unwatch(conn)
			return cur, err
		}
		next, err := fn(cur)
		if err != nil {
			Unwatch(conn)
			return cur, err
		}
		ok, err := Exec(conn, key, encode(next))
		if err != nil {
			return cur, err
		}
		if ok {
			return next, nil
		}
	}
	return models.PlayerState{}, ErrContention
}

func (s *PlayerStore) Remove(id string) error {
	conn := s.pool.Get()
	defer conn.Close()
	return Del(conn, s.key(id))
}

// Clear drops every listed player's hash, used when a game ends.
func (s *PlayerStore) Clear(ids []string) error {
	conn := s.pool.Get()
	defer conn.Close()
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	return Del(conn, keys...)
}

func encode(p models.PlayerState) []interface{} {
	return []interface{}{
		"bal", p.Money,
		"pos", p.Pos,
		"jail", p.JailStatus,
		"chance_card", boolField(p.JailCards[models.DeckChance]),
		"chest_card", boolField(p.JailCards[models.DeckChest]),
		"color", p.Color,
	}
}

func boolField(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func decode(fields map[string]string) (models.PlayerState, error) {
	var p models.PlayerState
	ints := []struct {
		name string
		into *int
	}{
		{"bal", &p.Money},
		{"pos", &p.Pos},
		{"jail", &p.JailStatus},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(fields[f.name])
		if err != nil {
			return p, fmt.Errorf("field %s: %w", f.name, err)
		}
		*f.into = v
	}
	p.JailCards[models.DeckChance] = fields["chance_card"] == "true"
	p.JailCards[models.DeckChest] = fields["chest_card"] == "true"
	p.Color = fields["color"]
	return p, nil
}
