package store

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

type blob struct {
	ID int `json:"id"`
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	st, err := NewSQLiteStore(path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	var got []blob
	if found, err := st.Load(ctx, KeyCampaigns, &got); err != nil || found {
		t.Fatalf("Load(missing) = found %v, err %v; want not found, nil", found, err)
	}

	if err := st.Save(ctx, KeyCampaigns, []blob{{ID: 1}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	// Overwrite must replace, not duplicate.
	if err := st.Save(ctx, KeyCampaigns, []blob{{ID: 2}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	found, err := st.Load(ctx, KeyCampaigns, &got)
	if err != nil || !found {
		t.Fatalf("Load() = found %v, err %v; want found, nil", found, err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("Load() = %+v, want latest save", got)
	}

	if err := st.Delete(ctx, KeyCampaigns); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if found, _ := st.Load(ctx, KeyCampaigns, &got); found {
		t.Error("Load() after Delete() still found data")
	}
}

func TestSQLiteStoreReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	st, err := NewSQLiteStore(path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	for _, key := range []string{KeyCampaigns, KeyPosts, KeyUsage} {
		if err := st.Save(ctx, key, blob{ID: 1}); err != nil {
			t.Fatalf("Save(%s) error = %v", key, err)
		}
	}

	if err := st.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	var got blob
	for _, key := range []string{KeyCampaigns, KeyPosts, KeyUsage} {
		if found, _ := st.Load(ctx, key, &got); found {
			t.Errorf("Load(%s) after Reset() still found data", key)
		}
	}
}
