package toolsession

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"toolstream/internal/logging"
	"toolstream/internal/toolparse"
	"toolstream/internal/toolparse/schema"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New(schema.Definition{
		ValidToolNames:        []string{"read_file"},
		ValidParamNamesByTool: map[string][]string{"read_file": {"path"}},
	})
	require.NoError(t, err)
	return s
}

func TestOpenFeedFinalizeRoundTrip(t *testing.T) {
	m, err := NewManager(4, logging.Nop())
	require.NoError(t, err)
	defer m.Close()

	sess := m.Open("s1", testSchema(t), toolparse.Options{})
	blocks, diags := sess.Feed("<read_file><path>a.txt</path></read_file>")
	require.Empty(t, diags)
	require.NotEmpty(t, blocks)

	final := sess.Finalize()
	require.Empty(t, final) // nothing pending: the tool already closed mid-chunk.

	got, ok := m.Get("s1")
	require.True(t, ok)
	require.Same(t, sess, got)
}

func TestEvictionDropsOldestSession(t *testing.T) {
	m, err := NewManager(1, logging.Nop())
	require.NoError(t, err)
	defer m.Close()

	m.Open("first", testSchema(t), toolparse.Options{})
	m.Open("second", testSchema(t), toolparse.Options{})

	_, ok := m.Get("first")
	require.False(t, ok, "first session should have been evicted once capacity was exceeded")

	_, ok = m.Get("second")
	require.True(t, ok)
	require.Equal(t, 1, m.Len())
}

func TestCloseRemovesSession(t *testing.T) {
	m, err := NewManager(4, logging.Nop())
	require.NoError(t, err)
	defer m.Close()

	m.Open("s1", testSchema(t), toolparse.Options{})
	m.CloseSession("s1")

	_, ok := m.Get("s1")
	require.False(t, ok)
}

func TestHistoryAccumulatesAcrossFeeds(t *testing.T) {
	m, err := NewManager(4, logging.Nop())
	require.NoError(t, err)
	defer m.Close()

	sess := m.Open("s1", testSchema(t), toolparse.Options{})
	sess.Feed("<read_file><path>a")
	sess.Feed(".txt</path></read_file>")
	sess.Finalize()

	blocks, _ := sess.History()
	var sawFinalTool bool
	for _, b := range blocks {
		if b.Kind == toolparse.KindToolUse && !b.Partial {
			sawFinalTool = true
			require.Equal(t, "a.txt", b.Tool.Params["path"])
		}
	}
	require.True(t, sawFinalTool)
}
