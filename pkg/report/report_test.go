package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	astrav1 "github.com/bhaweshchaudhary/astra/pkg/api/v1"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() astrav1.Report {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("AEDT", 11*60*60))
	return New("scan-1", "example", []string{"10.0.0.0/30"},
		[]string{"10.0.0.2", "10.0.0.1"},
		[]astrav1.OpenPort{{IP: "10.0.0.2", Port: 443}, {IP: "10.0.0.1", Port: 22}, {IP: "10.0.0.1", Port: 80}},
		ts,
	)
}

func TestNew(t *testing.T) {
	r := testReport()
	assert.EqualValues(t, "2024-03-01T01:00:00Z", r.Timestamp)
	assert.EqualValues(t, []string{"10.0.0.1", "10.0.0.2"}, r.LiveHosts)
	assert.EqualValues(t, astrav1.OpenPort{IP: "10.0.0.1", Port: 22}, r.OpenPorts[0])

	empty := New("scan-2", "example", nil, nil, nil, time.Now())
	assert.NotNil(t, empty.LiveHosts)
	assert.NotNil(t, empty.OpenPorts)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("csv")
	assert.NoError(t, err)
	assert.EqualValues(t, astrav1.FormatCSV, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	r := testReport()

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, r, astrav1.FormatJSON))

		var out map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.EqualValues(t, "example", out["organization"])
		assert.Contains(t, out, "cidr_ranges")
		assert.Contains(t, out, "live_hosts")
		assert.Len(t, out["open_ports"], 3)
		assert.Contains(t, buf.String(), "\n  \"organization\"")
	})
	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, r, astrav1.FormatCSV))
		assert.EqualValues(t, "IP,Port\n10.0.0.1,22\n10.0.0.1,80\n10.0.0.2,443\n", buf.String())
	})
	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, Encode(&bytes.Buffer{}, r, "xml"))
	})
}

func TestWrite(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	path := filepath.Join(t.TempDir(), "out", "results.csv")
	require.NoError(t, Write(ctx, testReport(), path, astrav1.FormatCSV))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "IP,Port")

	Log(ctx, testReport())
}
