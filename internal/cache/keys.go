package cache

import (
	"net/url"
	"regexp"
	"strings"
)

// Key prefixes; the prefix of a key is the text before the first separator
const (
	PrefixToken        = "auth"
	PrefixDoctorParams = "doc"

	KeySeparator = "_"
)

// TokenKey is the single cache key for the access token.
// Tokens are not scoped per doctor.
const TokenKey = PrefixToken + KeySeparator + "token.json"

var slugPattern = regexp.MustCompile(`^/([a-zA-Z0-9-]+)(?:/|$)`)

// DoctorParamsKey derives the doctor-parameters key from the first path segment of a profile URL.
// ok is false when the URL has no usable leading segment.
func DoctorParamsKey(profileURL string) (key string, ok bool) {
	u, err := url.Parse(profileURL)
	if err != nil {
		return "", false
	}

	match := slugPattern.FindStringSubmatch(u.Path)
	if match == nil {
		return "", false
	}

	return PrefixDoctorParams + KeySeparator + match[1] + ".json", true
}

// PrefixOf returns the model prefix of a key
func PrefixOf(key string) string {
	prefix, _, _ := strings.Cut(key, KeySeparator)
	return prefix
}
