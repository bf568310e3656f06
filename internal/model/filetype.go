package model

import (
	"path/filepath"
	"strings"
)

// FileType is the coarse category a file is bucketed into for filtering and
// usage summaries.
type FileType string

const (
	TypeDocument FileType = "document"
	TypeImage    FileType = "image"
	TypeVideo    FileType = "video"
	TypeAudio    FileType = "audio"
	TypeOther    FileType = "other"
)

// ParseFileType maps a query-string value to a known category.
func ParseFileType(s string) (FileType, bool) {
	switch FileType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeDocument:
		return TypeDocument, true
	case TypeImage:
		return TypeImage, true
	case TypeVideo:
		return TypeVideo, true
	case TypeAudio:
		return TypeAudio, true
	case TypeOther:
		return TypeOther, true
	}
	return "", false
}

var extensionTypes = map[string]FileType{
	// documents
	"pdf": TypeDocument, "doc": TypeDocument, "docx": TypeDocument,
	"txt": TypeDocument, "xls": TypeDocument, "xlsx": TypeDocument,
	"csv": TypeDocument, "rtf": TypeDocument, "ods": TypeDocument,
	"ppt": TypeDocument, "pptx": TypeDocument, "odp": TypeDocument,
	"md": TypeDocument, "html": TypeDocument, "htm": TypeDocument,
	"epub": TypeDocument, "pages": TypeDocument, "odt": TypeDocument,
	"log": TypeDocument, "json": TypeDocument, "xml": TypeDocument,
	// images
	"jpg": TypeImage, "jpeg": TypeImage, "png": TypeImage,
	"gif": TypeImage, "bmp": TypeImage, "svg": TypeImage,
	"webp": TypeImage, "heic": TypeImage, "tiff": TypeImage,
	// video
	"mp4": TypeVideo, "avi": TypeVideo, "mov": TypeVideo,
	"mkv": TypeVideo, "webm": TypeVideo, "wmv": TypeVideo,
	"flv": TypeVideo, "m4v": TypeVideo, "3gp": TypeVideo,
	// audio
	"mp3": TypeAudio, "wav": TypeAudio, "ogg": TypeAudio,
	"flac": TypeAudio, "aac": TypeAudio, "m4a": TypeAudio,
	"wma": TypeAudio, "aiff": TypeAudio, "alac": TypeAudio,
}

// FileTypeFor classifies a file name by extension. Unknown or missing
// extensions fall into TypeOther.
func FileTypeFor(name string) (FileType, string) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return TypeOther, ""
	}
	if t, ok := extensionTypes[ext]; ok {
		return t, ext
	}
	return TypeOther, ext
}
