package cache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/boggler/config"
)

// The cache holds large objects that are expensive to build and that we
// want to share for the lifetime of the process: lexicons built from word
// lists, mostly. The shell may ask for the same word list many times.

type cache struct {
	sync.Mutex
	objects map[string]interface{}
}

type loadFunc func(cfg *config.Config, key string) (interface{}, error)

// GlobalObjectCache is our global object cache, of course.
var GlobalObjectCache *cache
var globalMu sync.Mutex

func (c *cache) load(cfg *config.Config, key string, loadFunc loadFunc) error {
	log.Debug().Str("key", key).Msg("loading into cache")

	obj, err := loadFunc(cfg, key)
	if err != nil {
		return err
	}
	c.objects[key] = obj

	return nil
}

func (c *cache) get(cfg *config.Config, key string, loadFunc loadFunc) (interface{}, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	if err := c.load(cfg, key, loadFunc); err != nil {
		return nil, err
	}
	return c.objects[key], nil
}

func (c *cache) evict(key string) {
	c.Lock()
	defer c.Unlock()
	delete(c.objects, key)
}

func CreateGlobalObjectCache() {
	globalMu.Lock()
	defer globalMu.Unlock()
	GlobalObjectCache = &cache{objects: make(map[string]interface{})}
}

func global() *cache {
	globalMu.Lock()
	defer globalMu.Unlock()
	if GlobalObjectCache == nil {
		GlobalObjectCache = &cache{objects: make(map[string]interface{})}
	}
	return GlobalObjectCache
}

// Load returns the object stored under name, calling loadFunc to build it
// the first time.
func Load(cfg *config.Config, name string, loadFunc loadFunc) (interface{}, error) {
	return global().get(cfg, name, loadFunc)
}

// Evict drops the named object so that the next Load rebuilds it.
func Evict(name string) {
	global().evict(name)
}
