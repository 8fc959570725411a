package toolkit

import "regexp"

// weightedURLCost is the flat character cost X assigns to any http(s)
// URL substring, regardless of its actual length.
const weightedURLCost = 23

const maxWeightedLength = 280

var urlPattern = regexp.MustCompile(`https?://\S+`)

// WeightedLength computes weighted_len(t) = non_url_chars(t) +
// 23*url_count(t), X's rule for counting a tweet toward its length cap.
func WeightedLength(text string) int {
	urls := urlPattern.FindAllString(text, -1)
	nonURLChars := len([]rune(text))
	for _, u := range urls {
		nonURLChars -= len([]rune(u))
	}
	return nonURLChars + weightedURLCost*len(urls)
}

// ValidateTweetText enforces the weighted 280-character limit shared by
// posts, replies and quotes.
func ValidateTweetText(text string) *ToolkitError {
	if text == "" {
		return newInvalidInput("tweet text must not be empty")
	}
	if wl := WeightedLength(text); wl > maxWeightedLength {
		return &ToolkitError{Kind: ErrTweetTooLong, Message: "tweet exceeds 280 weighted characters"}
	}
	return nil
}

var mediaSizeLimits = map[MediaKind]int64{
	MediaImageJPEG: 5 * 1024 * 1024,
	MediaImagePNG:  5 * 1024 * 1024,
	MediaImageWebP: 5 * 1024 * 1024,
	MediaGIF:       15 * 1024 * 1024,
	MediaVideo:     512 * 1024 * 1024,
}

// ValidateMedia checks that kind is supported and sizeBytes is within
// its per-kind ceiling.
func ValidateMedia(kind MediaKind, sizeBytes int64) *ToolkitError {
	limit, ok := mediaSizeLimits[kind]
	if !ok {
		return &ToolkitError{Kind: ErrUnsupportedMediaType, Message: string(kind) + " is not a supported media kind"}
	}
	if sizeBytes > limit {
		return &ToolkitError{Kind: ErrMediaTooLarge, Message: "media exceeds the size limit for its kind"}
	}
	return nil
}

// MediaKindFromExtension maps a lowercase file extension (without the
// leading dot) to a MediaKind, or ("", false) if unsupported.
func MediaKindFromExtension(ext string) (MediaKind, bool) {
	switch ext {
	case "jpg", "jpeg":
		return MediaImageJPEG, true
	case "png":
		return MediaImagePNG, true
	case "webp":
		return MediaImageWebP, true
	case "gif":
		return MediaGIF, true
	case "mp4":
		return MediaVideo, true
	default:
		return "", false
	}
}

func requireNonEmpty(field, value string) *ToolkitError {
	if value == "" {
		return newInvalidInput("%s must not be empty", field)
	}
	return nil
}
