package requestutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/carlmjohnson/requests"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-logr/logr"
	"github.com/mholt/archives"
)

var ContentTypesGzip = []string{
	"application/gzip",
	"application/x-gzip",
}

// WithGzip copies the response body into out, decompressing
// it first if the server sent gzip.
func WithGzip(out io.Writer) requests.ResponseHandler {
	return func(response *http.Response) error {
		stream, err := body(response)
		if err != nil {
			return err
		}
		defer stream.Close()

		if _, err := io.Copy(out, stream); err != nil {
			return fmt.Errorf("writing uncompressed output: %w", err)
		}
		return nil
	}
}

// ToJSON decodes the (possibly gzipped) response body into v.
func ToJSON(v any) requests.ResponseHandler {
	return func(response *http.Response) error {
		stream, err := body(response)
		if err != nil {
			return err
		}
		defer stream.Close()

		if err := json.NewDecoder(stream).Decode(v); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	}
}

func body(response *http.Response) (io.ReadCloser, error) {
	log := logr.FromContextOrDiscard(response.Request.Context())
	if !isGzipped(response.Header.Get("Content-Type")) {
		return response.Body, nil
	}
	log.V(8).Info("decompressing gzip response")
	dec, err := archives.Gz{}.OpenReader(response.Body)
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}
	return dec, nil
}

func isGzipped(s string) bool {
	return mimetype.EqualsAny(s, ContentTypesGzip...)
}
