package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := map[string]Kind{
		"song.mp3":     KindAudio,
		"SONG.WAV":     KindAudio,
		"a.m4a":        KindAudio,
		"clip.mov":     KindVideo,
		"clip.mkv":     KindVideo,
		"cues.json":    KindJSON,
		"cues.CSV":     KindCSV,
		"101_show.zip": KindBundle,
		"notes.txt":    KindUnknown,
		"no_extension": KindUnknown,
	}
	for name, want := range tests {
		assert.Equal(t, want, Classify(name), name)
	}
	assert.True(t, KindVideo.IsMedia())
	assert.False(t, KindCSV.IsMedia())
	assert.Equal(t, "bundle", KindBundle.String())
}

func TestMIMEType(t *testing.T) {
	assert.Equal(t, "audio/mpeg", MIMEType("x.mp3"))
	assert.Equal(t, "video/quicktime", MIMEType("media/x.MOV"))
	assert.Equal(t, "video/x-matroska", MIMEType("x.mkv"))
	assert.Equal(t, "application/octet-stream", MIMEType("x.bin"))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "show", BaseName("/tmp/music/show.mp3"))
	assert.Equal(t, "my.song", BaseName("my.song.wav"))
	assert.Equal(t, "track", BaseName(`C:\media\track.wav`))
	assert.Equal(t, "", BaseName(""))
}
