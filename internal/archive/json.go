package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"
)

var minifier = minify.New()

func init() {
	minifier.AddFunc("application/json", mjson.Minify)
}

// MarshalPretty encodes v the way the viewer artifacts are published:
// 2-space indentation, UTF-8 with non-ASCII and HTML characters left
// unescaped, trailing newline.
func MarshalPretty(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON serializes v to path. With compact set the pretty form is
// minified before writing, for deployments that care about payload size.
func WriteJSON(path string, v any, compact bool) error {
	data, err := MarshalPretty(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if compact {
		data, err = minifier.Bytes("application/json", data)
		if err != nil {
			return fmt.Errorf("minify %s: %w", path, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
