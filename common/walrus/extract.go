package walrus

import (
	"regexp"

	"github.com/tidwall/gjson"
)

// blobIDExtractor pulls a blob id out of one known response shape. Extractors
// run in declaration order; the first match wins, which keeps the tie-break
// between shapes auditable.
type blobIDExtractor struct {
	name    string
	extract func(body []byte) (string, bool)
}

func pathExtractor(name, path string) blobIDExtractor {
	return blobIDExtractor{
		name: name,
		extract: func(body []byte) (string, bool) {
			result := gjson.GetBytes(body, path)
			if result.Exists() && result.String() != "" {
				return result.String(), true
			}
			return "", false
		},
	}
}

// tokenPattern matches the loose alphanumeric shape of walrus blob ids.
// Last-resort scan only; every named shape is tried first.
var tokenPattern = regexp.MustCompile(`[A-Za-z0-9_-]{8,}`)

var blobIDExtractors = []blobIDExtractor{
	pathExtractor("blobId", "blobId"),
	pathExtractor("newlyCreated", "newlyCreated.blobObject.blobId"),
	pathExtractor("alreadyCertified", "alreadyCertified.blobId"),
	pathExtractor("id", "id"),
	pathExtractor("cid", "cid"),
	{
		name: "tokenScan",
		extract: func(body []byte) (string, bool) {
			if match := tokenPattern.Find(body); match != nil {
				return string(match), true
			}
			return "", false
		},
	},
}

// extractBlobID tries each known response shape in order and returns the
// first blob id found, along with the name of the extractor that matched.
func extractBlobID(body []byte) (string, string, bool) {
	for _, e := range blobIDExtractors {
		if id, ok := e.extract(body); ok {
			return id, e.name, true
		}
	}
	return "", "", false
}
