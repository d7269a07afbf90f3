package workerpool

import "sync"

const (
	keyProjectsList  = "projects_list"
	keyAllProjects   = "all_projects"
	keyMetricsPrefix = "project_metrics:"
)

func metricsKey(name string) string {
	return keyMetricsPrefix + name
}

// responseCache is a map from cache key to an immutable, pre-serialized JSON
// byte buffer. Reads are lock-free; writes replace the entry wholesale, so
// a reader that already obtained a slice sees a stable value even if a
// writer races it.
type responseCache struct {
	entries sync.Map // string -> []byte
}

func (c *responseCache) get(key string) ([]byte, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (c *responseCache) put(key string, body []byte) {
	c.entries.Store(key, body)
}

func (c *responseCache) delete(key string) {
	c.entries.Delete(key)
}

// clear removes every entry.
func (c *responseCache) clear() {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
}
