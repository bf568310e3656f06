package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileTypeFor(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantType FileType
		wantExt  string
	}{
		{"pdf document", "report.pdf", TypeDocument, "pdf"},
		{"uppercase extension", "PHOTO.JPG", TypeImage, "jpg"},
		{"video", "clip.mp4", TypeVideo, "mp4"},
		{"audio", "song.flac", TypeAudio, "flac"},
		{"unknown extension", "archive.tar", TypeOther, "tar"},
		{"no extension", "README", TypeOther, ""},
		{"dotfile only", "notes.", TypeOther, ""},
		{"multiple dots", "backup.2024.csv", TypeDocument, "csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, ext := FileTypeFor(tt.filename)
			assert.Equal(t, tt.wantType, typ)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestParseFileType(t *testing.T) {
	typ, ok := ParseFileType(" Image ")
	assert.True(t, ok)
	assert.Equal(t, TypeImage, typ)

	_, ok = ParseFileType("spreadsheet")
	assert.False(t, ok)

	_, ok = ParseFileType("")
	assert.False(t, ok)
}
