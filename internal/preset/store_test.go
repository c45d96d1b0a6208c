package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terr "netemlab/internal/errors"
	"netemlab/internal/netem"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(nil, filepath.Join(t.TempDir(), "presets"), netem.Defaults())
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "lab-1_fast.v2", want: "lab-1_fast.v2"},
		{in: "../x", want: "x"},
		{in: "a;b", want: "ab"},
		{in: "a b/c\\d", want: "abcd"},
		{in: "...hidden...", want: "hidden"},
		{in: "$(rm -rf)", want: "rm-rf"},
		{in: "плохая-сеть", want: "плохая-сеть"},
		{in: "../", want: ""},
		{in: ";|&", want: ""},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	cfg := netem.Config{
		Uplink:           "wan0",
		Downlink:         "lan0",
		DelayMs:          "80",
		JitterMs:         "",
		LossPct:          "1.5",
		DuplicatePct:     "0",
		CorruptPct:       "0.2",
		RateKbit:         "256",
		DelayEnabled:     true,
		LossEnabled:      true,
		CorruptEnabled:   true,
		RateEnabled:      true,
		JitterEnabled:    false,
		DuplicateEnabled: false,
	}

	safe, err := store.Save("../mobile 3g", cfg)
	require.NoError(t, err)
	assert.Equal(t, "mobile3g", safe)
	assert.FileExists(t, filepath.Join(store.Dir(), "mobile3g.json"))

	loaded, err := store.Load("mobile3g")
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	loaded, err = store.Load("mobile 3g")
	require.NoError(t, err, "load sanitizes the same way as save")
	assert.Equal(t, cfg, loaded)
}

func TestSaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	first := netem.Defaults()
	second := netem.Defaults().Cleared()

	_, err := store.Save("p", first)
	require.NoError(t, err)
	_, err = store.Save("p", second)
	require.NoError(t, err)

	loaded, err := store.Load("p")
	require.NoError(t, err)
	assert.Equal(t, second, loaded)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(store.Dir(), 0o755))
	record := `{
  // written by an older version
  "downlink": "usb0",
  "loss_pct": "20",
  "rate_enabled": false
}`
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "old.json"), []byte(record), 0o644))

	loaded, err := store.Load("old")
	require.NoError(t, err)

	want := netem.Defaults()
	want.Downlink = "usb0"
	want.LossPct = "20"
	want.RateEnabled = false
	assert.Equal(t, want, loaded)
}

func TestLoadFailures(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("missing")
	require.Error(t, err)
	assert.True(t, terr.Is(err, terr.CategoryNotFound))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Load("../")
	require.Error(t, err)
	assert.True(t, terr.Is(err, terr.CategoryValidation))

	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "broken.json"), []byte(`{"delay_enabled": "yes"}`), 0o644))
	_, err = store.Load("broken")
	require.Error(t, err)
	assert.True(t, terr.Is(err, terr.CategoryUnexpected))
	assert.Contains(t, terr.Cause(err), "decode preset broken")
}

func TestSaveInvalidName(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save("...", netem.Defaults())
	require.Error(t, err)
	assert.True(t, terr.Is(err, terr.CategoryValidation))
	assert.ErrorIs(t, err, ErrInvalidName)

	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListCreatesDirAndSorts(t *testing.T) {
	store := newTestStore(t)

	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.DirExists(t, store.Dir())

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := store.Save(name, netem.Defaults())
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(store.Dir(), "sub.json"), 0o755))

	names, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Save("gone", netem.Defaults())
	require.NoError(t, err)

	safe, err := store.Delete("gone")
	require.NoError(t, err)
	assert.Equal(t, "gone", safe)

	_, err = store.Delete("gone")
	assert.True(t, terr.Is(err, terr.CategoryNotFound))
}
