package normalize

// Token vocabularies for release classification. These mirror the
// slash-token conventions used on JPS across its site history.

// badFormatTokens are container, legacy-codec, or legacy-audio names that
// only ever appear first in a video release's slash tokens. ISO is
// intentionally absent: an ISO first token classifies as a music format.
var badFormatTokens = map[string]bool{
	"AAC":   true,
	"AVI":   true,
	"MKV":   true,
	"WMV":   true,
	"MP4":   true,
	"M4V":   true,
	"TS":    true,
	"TP":    true,
	"FLV":   true,
	"RMVB":  true,
	"VOB":   true,
	"MPEG":  true,
	"MPEG2": true,
	"h264":  true,
	"AVC":   true,
	"h265":  true,
	"HEVC":  true,
	"XviD":  true,
	"DivX":  true,
}

// containerTokens is the subset of bad-format tokens that name containers
// rather than codecs.
var containerTokens = map[string]bool{
	"AVI":  true,
	"MKV":  true,
	"WMV":  true,
	"MP4":  true,
	"M4V":  true,
	"TS":   true,
	"TP":   true,
	"FLV":  true,
	"RMVB": true,
	"VOB":  true,
	"MPEG": true,
}

// videoMediaTokens are the media names that mark a release as video.
var videoMediaTokens = map[string]bool{
	"DVD":       true,
	"Blu-Ray":   true,
	"TV":        true,
	"HDTV":      true,
	"VHS":       true,
	"VCD":       true,
	"LaserDisc": true,
	"Web":       true,
}

// containerAliases maps known alias spellings to the target site's
// canonical container names.
var containerAliases = map[string]string{
	"TP":  "TS",
	"M4V": "MP4",
}

// codecAliases maps known alias spellings to canonical codec names.
var codecAliases = map[string]string{
	"AVC":   "h264",
	"x264":  "h264",
	"HEVC":  "h265",
	"x265":  "h265",
	"MPEG2": "MPEG-2",
}

// bitrateAliases maps the non-standard bitrate labels JPS accumulated over
// the years to the target site's canonical labels. Anything not listed is
// assumed already canonical and passes through unchanged.
var bitrateAliases = map[string]string{
	"Hi-Res 96/24":    "24bit Lossless 96kHz",
	"Hi-Res 88/24":    "24bit Lossless 88.2kHz",
	"Hi-Res 48/24":    "24bit Lossless 48kHz",
	"Hi-Res 176/24":   "24bit Lossless 176.4kHz",
	"Hi-Res 192/24":   "24bit Lossless 192kHz",
	"24bit/48kHz":     "24bit Lossless 48kHz",
	"24bit/96kHz":     "24bit Lossless 96kHz",
	"Hi-Res":          "24bit Lossless",
	"Hi-Res Lossless": "24bit Lossless",
	"320 (VBR)":       "320",
	"256 (VBR)":       "Other",
	"224 (VBR)":       "Other",
	"192 (VBR)":       "Other",
	"128 (VBR)":       "Other",
	"256":             "Other",
	"224":             "Other",
	"192":             "Other",
	"160":             "Other",
	"128":             "Other",
	"96":              "Other",
}

// NormalizeBitrate maps a JPS bitrate label to the target site's canonical
// label. Unrecognized input passes through unchanged.
func NormalizeBitrate(raw string) string {
	if canonical, ok := bitrateAliases[raw]; ok {
		return canonical
	}
	return raw
}

// NormalizeContainer maps known container alias spellings to canonical
// names. Unrecognized input passes through unchanged.
func NormalizeContainer(raw string) string {
	if canonical, ok := containerAliases[raw]; ok {
		return canonical
	}
	return raw
}

// NormalizeCodec maps known codec alias spellings to canonical names.
// Unrecognized input passes through unchanged.
func NormalizeCodec(raw string) string {
	if canonical, ok := codecAliases[raw]; ok {
		return canonical
	}
	return raw
}

// IsBadFormat reports whether token marks a video-shaped release when it
// appears first in the slash tokens.
func IsBadFormat(token string) bool {
	return badFormatTokens[token]
}

// IsVideoMedia reports whether token names a video media.
func IsVideoMedia(token string) bool {
	return videoMediaTokens[token]
}
