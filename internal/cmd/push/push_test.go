package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/noca/api"
	"github.com/open-cli-collective/noca/internal/processor"
	"github.com/open-cli-collective/noca/internal/publish"
	"github.com/open-cli-collective/noca/internal/storage"
)

type notionServer struct {
	*httptest.Server
	types []string
}

func newNotionServer(t *testing.T) *notionServer {
	t.Helper()
	ns := &notionServer{}
	ns.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var req struct {
			Children []struct {
				Type string `json:"type"`
			} `json:"children"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		for _, c := range req.Children {
			ns.types = append(ns.types, c.Type)
		}
		w.Write([]byte(`{"object":"list","results":[]}`))
	}))
	t.Cleanup(ns.Close)
	return ns
}

func setup(t *testing.T, serverURL string) (*storage.Store, *processor.Processor, *publish.Publisher) {
	t.Helper()
	store := storage.NewStore(t.TempDir())
	store.SetClock(func() time.Time { return time.Date(2024, 1, 15, 18, 0, 0, 0, time.Local) })
	proc := processor.New(store, nil, processor.Options{})
	pub := publish.New(api.NewClient(serverURL, "token"), "page-1", nil)
	return store, proc, pub
}

func writeSummary(t *testing.T, proc *processor.Processor, date, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(proc.OutputDir(), 0755))
	require.NoError(t, os.WriteFile(proc.OutputPath(date), []byte(content), 0644))
}

func TestRunPush_Today(t *testing.T) {
	server := newNotionServer(t)
	store, proc, pub := setup(t, server.URL)
	writeSummary(t, proc, "2024-01-15", "# Summary\n- one\n- two")
	var out bytes.Buffer

	require.NoError(t, runPush(context.Background(), nil, &pushOptions{noColor: true, out: &out}, store, proc, pub))

	assert.Equal(t, []string{"divider", "heading_1", "bulleted_list_item", "bulleted_list_item"}, server.types)
	assert.Contains(t, out.String(), "Pushed 4 blocks")
}

func TestRunPush_Date(t *testing.T) {
	server := newNotionServer(t)
	store, proc, pub := setup(t, server.URL)
	writeSummary(t, proc, "2024-01-10", "Old summary")
	var out bytes.Buffer

	require.NoError(t, runPush(context.Background(), []string{"2024-01-10"}, &pushOptions{output: "json", out: &out}, store, proc, pub))

	var result pushResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, 2, result.Blocks)
	assert.Equal(t, proc.OutputPath("2024-01-10"), result.Source)
}

func TestRunPush_MissingSummary(t *testing.T) {
	server := newNotionServer(t)
	store, proc, pub := setup(t, server.URL)
	var out bytes.Buffer

	err := runPush(context.Background(), nil, &pushOptions{out: &out}, store, proc, pub)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "noca process 2024-01-15")
	assert.Empty(t, server.types)
}

func TestRunPush_File(t *testing.T) {
	server := newNotionServer(t)
	store, proc, pub := setup(t, server.URL)
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("> quoted"), 0644))
	var out bytes.Buffer

	require.NoError(t, runPush(context.Background(), nil, &pushOptions{file: path, noColor: true, out: &out}, store, proc, pub))
	assert.Equal(t, []string{"divider", "quote"}, server.types)
}

func TestRunPush_Stdin(t *testing.T) {
	server := newNotionServer(t)
	store, proc, pub := setup(t, server.URL)
	var out bytes.Buffer
	opts := &pushOptions{file: "-", noColor: true, out: &out, stdin: strings.NewReader("---\ntext")}

	require.NoError(t, runPush(context.Background(), nil, opts, store, proc, pub))
	assert.Equal(t, []string{"divider", "divider", "paragraph"}, server.types)
	assert.Contains(t, out.String(), "from stdin")
}

func TestRunPush_DateAndFile(t *testing.T) {
	store, proc, pub := setup(t, "http://127.0.0.1:0")
	var out bytes.Buffer

	err := runPush(context.Background(), []string{"2024-01-15"}, &pushOptions{file: "x.md", out: &out}, store, proc, pub)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not both")
}

func TestRunPush_EmptyDocument(t *testing.T) {
	server := newNotionServer(t)
	store, proc, pub := setup(t, server.URL)
	writeSummary(t, proc, "2024-01-15", "\n\n")
	var out bytes.Buffer

	err := runPush(context.Background(), nil, &pushOptions{out: &out}, store, proc, pub)
	require.Error(t, err)
	assert.True(t, errors.Is(err, publish.ErrEmptyDocument))
}
