package train

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausekit/clausekit/deptree"
)

// newSentenceTree builds "John signed ; left Mary":
//
//	signed(1) -nsubj-> John(0)
//	signed(1) -ccomp-> left(2)
//	left(2)   -nsubj-> Mary(3)
func newSentenceTree(t *testing.T) *deptree.Tree {
	t.Helper()
	tr := deptree.NewTree()
	require.NoError(t, tr.AddWord(deptree.Word{Index: 0, Tag: "NNP", Lemma: "John", Text: "John"}))
	require.NoError(t, tr.AddWord(deptree.Word{Index: 1, Tag: "VBD", Lemma: "sign", Text: "signed"}))
	require.NoError(t, tr.AddWord(deptree.Word{Index: 2, Tag: "VBD", Lemma: "leave", Text: "left"}))
	require.NoError(t, tr.AddWord(deptree.Word{Index: 3, Tag: "NNP", Lemma: "Mary", Text: "Mary"}))
	require.NoError(t, tr.AddRoot(1))
	_, err := tr.AddEdge(1, 0, "nsubj", 1.0, false)
	require.NoError(t, err)
	_, err = tr.AddEdge(1, 2, "ccomp", 1.0, false)
	require.NoError(t, err)
	_, err = tr.AddEdge(2, 3, "nsubj", 1.0, false)
	require.NoError(t, err)
	return tr
}

// embeddedClauseOracle recognizes a clause rooted at "left" and returns
// the (Mary, left) extraction; everything else yields no guess.
func embeddedClauseOracle() Oracle {
	return OracleFunc(func(tr *deptree.Tree) []RelationMention {
		roots := tr.Roots()
		if len(roots) == 1 && roots[0] == 2 {
			return []RelationMention{{Subject: Span{2, 3}, Object: Span{3, 4}}}
		}
		return nil
	})
}

func trainingExamples(t *testing.T, n int) []TrainingExample {
	t.Helper()
	examples := make([]TrainingExample, 0, n)
	for i := 0; i < n; i++ {
		examples = append(examples, TrainingExample{
			Tree:    newSentenceTree(t),
			Subject: Span{2, 3},
			Object:  Span{3, 4},
		})
	}
	return examples
}

func TestTrain_NilOracle(t *testing.T) {
	_, err := Train(nil, nil, nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrNilOracle)
}

func TestTrain_BadOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.NegativeSubsampleRatio = 1.5
	_, err := Train(trainingExamples(t, 1), embeddedClauseOracle(), nil, opts)
	assert.ErrorIs(t, err, ErrBadOptions)
}

// TestTrain_EndToEnd runs the full pipeline on a toy corpus and checks
// the trained model both persists correctly and actually prefers the
// embedded-clause boundary at inference time.
func TestTrain_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.ModelPath = filepath.Join(dir, "model.json")
	opts.DumpPath = filepath.Join(dir, "datums.tsv.gz")

	factory, err := Train(trainingExamples(t, 6), embeddedClauseOracle(), nil, opts)
	require.NoError(t, err)
	require.NotNil(t, factory)

	// The persisted model reloads into an equivalent factory.
	loaded, err := LoadModel(opts.ModelPath)
	require.NoError(t, err)

	for name, f := range map[string]Factory{"in-memory": factory, "reloaded": loaded} {
		s, err := f(newSentenceTree(t))
		require.NoError(t, err, name)

		frags, err := s.TopClauses(0.5)
		require.NoError(t, err, name)
		require.NotEmpty(t, frags, name)

		found := false
		for _, frag := range frags {
			roots := frag.Tree.Roots()
			if len(roots) == 1 && roots[0] == 2 {
				found = true
				assert.True(t, frag.Tree.HasWord(3), "%s: Mary stays in the clause", name)
			}
		}
		assert.True(t, found, "%s: the embedded clause scores above threshold", name)
	}
}

// TestTrain_DatumDump checks the dump stream: gzip-compressed,
// tab-separated, one line per decision, feature names sorted.
func TestTrain_DatumDump(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.DumpPath = filepath.Join(dir, "datums.tsv.gz")

	_, err := Train(trainingExamples(t, 2), embeddedClauseOracle(), nil, opts)
	require.NoError(t, err)

	f, err := os.Open(opts.DumpPath)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	lines := 0
	sawPositive := false
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		lines++
		fields := strings.Split(scanner.Text(), "\t")
		require.Len(t, fields, 3)
		assert.Contains(t, []string{"true", "false"}, fields[0])
		assert.Contains(t, []string{"true", "false"}, fields[1])
		if fields[0] == "true" {
			sawPositive = true
		}
		names := make([]string, 0)
		for _, pair := range strings.Split(fields[2], ";") {
			name, _, ok := strings.Cut(pair, "->")
			require.True(t, ok, "malformed pair %q", pair)
			names = append(names, name)
		}
		assert.IsIncreasing(t, names, "feature names sorted within a line")
	}
	require.NoError(t, scanner.Err())
	assert.Greater(t, lines, 0)
	assert.True(t, sawPositive, "the gold boundary dumps as a positive")
}

// TestTrain_Deterministic runs the identical pipeline twice and compares
// artifacts byte for byte.
func TestTrain_Deterministic(t *testing.T) {
	run := func(dir string) (model, dump []byte) {
		opts := DefaultOptions()
		opts.ModelPath = filepath.Join(dir, "model.json")
		opts.DumpPath = filepath.Join(dir, "datums.tsv.gz")
		_, err := Train(trainingExamples(t, 4), embeddedClauseOracle(), nil, opts)
		require.NoError(t, err)

		model, err = os.ReadFile(opts.ModelPath)
		require.NoError(t, err)
		f, err := os.Open(opts.DumpPath)
		require.NoError(t, err)
		defer f.Close()
		gz, err := gzip.NewReader(f)
		require.NoError(t, err)
		defer gz.Close()
		dump, err = io.ReadAll(gz)
		require.NoError(t, err)
		return model, dump
	}

	modelA, dumpA := run(t.TempDir())
	modelB, dumpB := run(t.TempDir())
	assert.Equal(t, modelA, modelB, "identical inputs and seed, identical model")
	assert.Equal(t, dumpA, dumpB, "identical inputs and seed, identical dump")
}
