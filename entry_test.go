package stash

import (
	"testing"

	fsbilly "github.com/jmgilman/go/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name   string   `json:"name" yaml:"name" cbor:"name"`
	Age    int      `json:"age" yaml:"age" cbor:"age"`
	Labels []string `json:"labels" yaml:"labels" cbor:"labels"`
}

type counter struct {
	Count int `json:"count" yaml:"count" cbor:"count"`
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	want := profile{Name: "amy", Age: 41, Labels: []string{"admin", "ops"}}

	t.Run("warm cache", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, Save(store, "profile", want))

		got, err := Load[profile](store, "profile")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("cold reconstruction reads from disk", func(t *testing.T) {
		mem := fsbilly.NewMemory()

		store1, err := New("com.example.test",
			WithFilesystem(mem), WithBasePath("/cache"))
		require.NoError(t, err)
		require.NoError(t, Save(store1, "profile", want))

		// A fresh store over the same folder starts with an empty cache, so
		// this load must come from disk.
		store2, err := New("com.example.test",
			WithFilesystem(mem), WithBasePath("/cache"))
		require.NoError(t, err)
		require.Equal(t, 0, store2.cache.len())

		got, err := Load[profile](store2, "profile")
		require.NoError(t, err)
		assert.Equal(t, want, got)

		// The disk load populated the cache.
		assert.Equal(t, 1, store2.cache.len())
	})
}

func TestSaveLoad_Scalars(t *testing.T) {
	// Scalars cannot be serialized at the document root by the default
	// codec; these round-trips only succeed through the envelope fallback.
	t.Run("int", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, Save(store, "n", 42))

		got, err := Load[int](store, "n")
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("string", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, Save(store, "s", "x"))

		got, err := Load[string](store, "s")
		require.NoError(t, err)
		assert.Equal(t, "x", got)
	})

	t.Run("bool", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, Save(store, "b", true))

		got, err := Load[bool](store, "b")
		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("float", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, Save(store, "f", 2.5))

		got, err := Load[float64](store, "f")
		require.NoError(t, err)
		assert.Equal(t, 2.5, got)
	})

	t.Run("scalar is enveloped on disk", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, Save(store, "n", 42))

		data, err := store.fs.ReadFile(store.entryPath("n"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"value":42}`, string(data))
	})

	t.Run("cold load unwraps the envelope", func(t *testing.T) {
		mem := fsbilly.NewMemory()

		store1, err := New("com.example.test",
			WithFilesystem(mem), WithBasePath("/cache"))
		require.NoError(t, err)
		require.NoError(t, Save(store1, "n", 42))

		store2, err := New("com.example.test",
			WithFilesystem(mem), WithBasePath("/cache"))
		require.NoError(t, err)

		got, err := Load[int](store2, "n")
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	})
}

func TestLoad_CacheFirst(t *testing.T) {
	store := newTestStore(t)
	want := profile{Name: "amy", Age: 41}
	require.NoError(t, Save(store, "profile", want))

	// Corrupt the disk copy. The load must still succeed because the cache
	// is consulted before any disk read.
	require.NoError(t, store.fs.WriteFile(store.entryPath("profile"), []byte("garbage"), 0o600))

	got, err := Load[profile](store, "profile")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := Load[profile](store, "never-saved")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := store.Exists("never-saved")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLoad_MalformedDiskContent(t *testing.T) {
	store := newTestStore(t)

	// Write garbage directly to the entry path, bypassing the cache.
	require.NoError(t, store.fs.WriteFile(store.entryPath("bad"), []byte("{not json"), 0o600))

	_, err := Load[profile](store, "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecodeData)
}

func TestLoad_TypeMismatch(t *testing.T) {
	t.Run("cache mismatch falls through to disk", func(t *testing.T) {
		store := newTestStore(t)
		want := profile{Name: "amy", Age: 41}
		require.NoError(t, Save(store, "k", want))

		// Replace the cached entry with a value of a different type. The
		// load treats the failed assertion as a miss and recovers from disk.
		store.cache.put("k", counter{Count: 3})

		got, err := Load[profile](store, "k")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("disk mismatch is a hard decode error", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, Save(store, "k", profile{Name: "amy"}))

		// Evict so the load has to decode the disk bytes as the wrong type.
		store.cache.delete("k")

		_, err := Load[counter](store, "k")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDecodeData)
	})
}

func TestSave_EncodeFailure(t *testing.T) {
	store := newTestStore(t)

	// A channel cannot be serialized directly or through the envelope.
	err := Save(store, "ch", map[string]chan int{"c": make(chan int)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEncodeData)

	// The optimistic cache insert happened before the encode failed, so the
	// value is still visible to in-process readers.
	_, ok := store.cache.get("ch")
	assert.True(t, ok)
}

func TestSave_Overwrite(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, Save(store, "k", profile{Name: "old"}))
	require.NoError(t, Save(store, "k", profile{Name: "new"}))

	got, err := Load[profile](store, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
}

func TestSaveBytes_LoadBytes(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		store := newTestStore(t)
		want := []byte{0x00, 0x01, 0xFE, 0xFF}

		require.NoError(t, store.SaveBytes("blob", want))

		got, err := store.LoadBytes("blob")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("bytes are stored verbatim", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.SaveBytes("blob", []byte("raw contents")))

		data, err := store.fs.ReadFile(store.entryPath("blob"))
		require.NoError(t, err)
		assert.Equal(t, []byte("raw contents"), data)
	})

	t.Run("missing blob", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.LoadBytes("missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("cached copy is isolated from caller mutation", func(t *testing.T) {
		store := newTestStore(t)
		data := []byte("original")
		require.NoError(t, store.SaveBytes("blob", data))

		data[0] = 'X'

		got, err := store.LoadBytes("blob")
		require.NoError(t, err)
		assert.Equal(t, []byte("original"), got)
	})
}

func TestSaveLoad_AlternateCodecs(t *testing.T) {
	codecs := []struct {
		name  string
		codec Codec
	}{
		{name: "cbor", codec: NewCBORCodec()},
		{name: "yaml", codec: YAMLCodec{}},
	}

	for _, tc := range codecs {
		t.Run(tc.name, func(t *testing.T) {
			mem := fsbilly.NewMemory()
			store1, err := New("com.example.test",
				WithFilesystem(mem), WithBasePath("/cache"), WithCodec(tc.codec))
			require.NoError(t, err)

			want := profile{Name: "amy", Age: 41, Labels: []string{"ops"}}
			require.NoError(t, Save(store1, "profile", want))
			require.NoError(t, Save(store1, "count", 7))

			// Cold store over the same folder forces the disk decode path.
			store2, err := New("com.example.test",
				WithFilesystem(mem), WithBasePath("/cache"), WithCodec(tc.codec))
			require.NoError(t, err)

			gotProfile, err := Load[profile](store2, "profile")
			require.NoError(t, err)
			assert.Equal(t, want, gotProfile)

			gotCount, err := Load[int](store2, "count")
			require.NoError(t, err)
			assert.Equal(t, 7, gotCount)
		})
	}
}
