package cache

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/boggler/config"
)

func TestLoadOnce(t *testing.T) {
	is := is.New(t)
	CreateGlobalObjectCache()
	calls := 0
	lf := func(cfg *config.Config, key string) (interface{}, error) {
		calls++
		return key + "-obj", nil
	}
	obj, err := Load(nil, "foo", lf)
	is.NoErr(err)
	is.Equal(obj, "foo-obj")
	obj, err = Load(nil, "foo", lf)
	is.NoErr(err)
	is.Equal(obj, "foo-obj")
	is.Equal(calls, 1)

	Evict("foo")
	_, err = Load(nil, "foo", lf)
	is.NoErr(err)
	is.Equal(calls, 2)
}

func TestLoadErrorNotCached(t *testing.T) {
	is := is.New(t)
	CreateGlobalObjectCache()
	boom := errors.New("boom")
	_, err := Load(nil, "bar", func(*config.Config, string) (interface{}, error) {
		return nil, boom
	})
	is.True(errors.Is(err, boom))
	obj, err := Load(nil, "bar", func(*config.Config, string) (interface{}, error) {
		return 42, nil
	})
	is.NoErr(err)
	is.Equal(obj, 42)
}
