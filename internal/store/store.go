package store

import "context"

// Keys for the top-level collections.
const (
	KeyCampaigns = "campaigns"
	KeyPosts     = "posts"
	KeyUsage     = "usage"
	KeyComments  = "comments"
	KeySettings  = "settings"
)

// Store persists named JSON blobs. A missing key is not an error: Load
// reports found=false and leaves dest untouched, so callers fall back to
// their defaults.
type Store interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Reset(ctx context.Context) error
	Close() error
}
