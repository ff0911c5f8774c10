package cache

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/state"
)

func TestEncodeDecode(t *testing.T) {
	p := models.PlayerState{
		Money:      -20,
		Pos:        17,
		JailStatus: 2,
		JailCards:  [2]bool{false, true},
		Color:      "green",
	}

	flat := encode(p)
	require.Len(t, flat, 12)
	fields := map[string]string{}
	for i := 0; i < len(flat); i += 2 {
		fields[flat[i].(string)] = fmt.Sprint(flat[i+1])
	}

	got, err := decode(fields)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestDecodeBadField(t *testing.T) {
	_, err := decode(map[string]string{"bal": "lots", "pos": "0", "jail": "-1"})
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	s := NewPlayerStore(nil, "abc123")
	assert.Equal(t, "abc123.u1", s.key("u1"))
}

func newStore(t *testing.T) (*PlayerStore, redis.Conn) {
	t.Helper()
	mr := miniredis.RunT(t)
	pool := CreateRedisPool(mr.Addr())
	t.Cleanup(func() { pool.Close() })

	// a second client used to change keys behind the store's back
	other, err := redis.Dial("tcp", mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { other.Close() })

	s := NewPlayerStore(pool, "g1")
	require.NoError(t, s.Create("a", models.NewPlayerState(1500, "red")))
	return s, other
}

func TestPlayerStoreCreateGetRemove(t *testing.T) {
	s, other := newStore(t)

	assert.Error(t, s.Create("a", models.NewPlayerState(1500, "blue")))
	p, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1500, p.Money)
	assert.Equal(t, "red", p.Color)

	bal, err := redis.String(other.Do("HGET", "g1.a", "bal"))
	require.NoError(t, err)
	assert.Equal(t, "1500", bal)

	_, err = s.Get("b")
	assert.ErrorIs(t, err, models.ErrUnknownPlayer)
	_, err = s.Update("b", func(p models.PlayerState) (models.PlayerState, error) { return p, nil })
	assert.ErrorIs(t, err, models.ErrUnknownPlayer)

	require.NoError(t, s.Remove("a"))
	_, err = s.Get("a")
	assert.ErrorIs(t, err, models.ErrUnknownPlayer)
}

func TestPlayerStoreUpdateRetriesOnConflict(t *testing.T) {
	s, other := newStore(t)

	calls := 0
	got, err := s.Update("a", func(p models.PlayerState) (models.PlayerState, error) {
		calls++
		if calls == 1 {
			_, err := other.Do("HSET", "g1.a", "bal", 1000)
			require.NoError(t, err)
		}
		p.Money += 5
		return p, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1005, got.Money)

	p, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1005, p.Money)
}

func TestPlayerStoreGivesUpUnderContention(t *testing.T) {
	s, other := newStore(t)

	calls := 0
	_, err := s.Update("a", func(p models.PlayerState) (models.PlayerState, error) {
		calls++
		_, err := other.Do("HSET", "g1.a", "bal", 1500+calls)
		require.NoError(t, err)
		p.Money = 0
		return p, nil
	})
	assert.ErrorIs(t, err, ErrContention)
	assert.Equal(t, maxWatchRetries, calls)

	p, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1500+maxWatchRetries, p.Money)
}

func TestPlayerStoreUpdateErrorLeavesState(t *testing.T) {
	s, _ := newStore(t)

	refused := errors.New("refused")
	_, err := s.Update("a", func(p models.PlayerState) (models.PlayerState, error) {
		p.Money = 0
		return p, refused
	})
	assert.ErrorIs(t, err, refused)

	_, err = state.Charge(s, "a", 2000)
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)

	// the connection goes back to the pool unwatched and is usable again
	p, err := state.Credit(s, "a", 25)
	require.NoError(t, err)
	assert.Equal(t, 1525, p.Money)
}

func TestPlayerStoreConcurrentUpdates(t *testing.T) {
	s, _ := newStore(t)

	var wg sync.WaitGroup
	var applied int64
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_, err := state.Credit(s, "a", 1)
				if err == nil {
					atomic.AddInt64(&applied, 1)
					continue
				}
				assert.ErrorIs(t, err, ErrContention)
			}
		}()
	}
	wg.Wait()

	p, err := s.Get("a")
	require.NoError(t, err)
	assert.Positive(t, applied)
	assert.Equal(t, 1500+int(applied), p.Money, "every reported update lands exactly once")
}

func TestPlayerStoreClear(t *testing.T) {
	s, other := newStore(t)
	require.NoError(t, s.Create("b", models.NewPlayerState(1500, "blue")))

	require.NoError(t, s.Clear([]string{"a", "b"}))
	n, err := redis.Int(other.Do("EXISTS", "g1.a", "g1.b"))
	require.NoError(t, err)
	assert.Zero(t, n)
}
