package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackOpen(t *testing.T) {
	data, err := Pack([]Entry{
		{Name: "media/song.mp3", Data: []byte{0xff, 0xfb, 0x90}},
		{Name: "101_song.json", Data: []byte(`{"cues":[]}`)},
		{Name: "README.md", Data: []byte("# readme\n")},
	})
	require.NoError(t, err)

	r, err := Open(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"media/song.mp3", "101_song.json", "README.md"}, r.Names())

	b, err := r.ReadBytes("media/song.mp3")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xfb, 0x90}, b)

	b, err = r.ReadBytes("101_song.json")
	require.NoError(t, err)
	assert.Equal(t, `{"cues":[]}`, string(b))

	_, err = r.ReadBytes("missing.csv")
	assert.Error(t, err)
}

func TestOpenGarbage(t *testing.T) {
	_, err := Open([]byte("definitely not a zip"))
	assert.Error(t, err)
}
