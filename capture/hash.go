package capture

import (
	"github.com/minio/highwayhash"
)

var identityKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// contentHash maps a literal payload into the content identity space used to
// deduplicate fixed values.
func contentHash(data []byte) (uint64, error) {
	hasher, err := highwayhash.New64(identityKey)
	if err != nil {
		return 0, err
	}
	if _, err = hasher.Write(data); err != nil {
		return 0, err
	}
	return hasher.Sum64(), nil
}
