package cache

// Cache is the storage contract for locally persisted lab state, such as
// the outlet snapshots written by `power status`. The sqlite subpackage is
// the only implementation today.
type Cache[T any] interface {
	Insert(path string, data ...T) error
	Delete(path string, data ...T) error
	Get(path string) ([]T, error)
}
