package utils

import (
	"crypto/sha1"
	"fmt"
	"strings"

	"github.com/zeebo/bencode"
)

type metainfo struct {
	Info bencode.RawMessage `bencode:"info"`
}

// CanonicalInfoHash computes the uppercase hex SHA-1 of a torrent's info
// dictionary after substituting the given source tag. Two copies of the
// same content with different tracker-specific tags hash identically.
func CanonicalInfoHash(data []byte, source string) (string, error) {
	var meta metainfo
	if err := bencode.DecodeBytes(data, &meta); err != nil {
		return "", fmt.Errorf("failed to decode torrent: %w", err)
	}
	if len(meta.Info) == 0 {
		return "", fmt.Errorf("torrent has no info dictionary")
	}

	var info map[string]interface{}
	if err := bencode.DecodeBytes(meta.Info, &info); err != nil {
		return "", fmt.Errorf("failed to decode info dictionary: %w", err)
	}

	info["source"] = source

	canonical, err := bencode.EncodeBytes(info)
	if err != nil {
		return "", fmt.Errorf("failed to re-encode info dictionary: %w", err)
	}

	return fmt.Sprintf("%X", sha1.Sum(canonical)), nil
}

// TorrentFiles returns the file paths inside a torrent. Single-file
// torrents yield one entry, the torrent name.
func TorrentFiles(data []byte) ([]string, error) {
	var meta metainfo
	if err := bencode.DecodeBytes(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode torrent: %w", err)
	}

	var info struct {
		Name  string `bencode:"name"`
		Files []struct {
			Path []string `bencode:"path"`
		} `bencode:"files"`
	}
	if err := bencode.DecodeBytes(meta.Info, &info); err != nil {
		return nil, fmt.Errorf("failed to decode info dictionary: %w", err)
	}

	if len(info.Files) == 0 {
		return []string{info.Name}, nil
	}

	files := make([]string, 0, len(info.Files))
	for _, f := range info.Files {
		files = append(files, strings.Join(f.Path, "/"))
	}
	return files, nil
}
