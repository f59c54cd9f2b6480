package checksum_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/hashcheck/algorithm"
	"github.com/byte4ever/hashcheck/checksum"
	"github.com/byte4ever/hashcheck/config"
	"github.com/byte4ever/hashcheck/detector"
	"github.com/byte4ever/hashcheck/record"
)

// fakePicker hands out queued selections and records save prompts.
type fakePicker struct {
	files     []string
	saveTo    string
	suggested []string
}

func (fp *fakePicker) SelectFile() (string, bool) {
	if len(fp.files) == 0 {
		return "", false
	}

	pa := fp.files[0]
	fp.files = fp.files[1:]

	return pa, true
}

func (fp *fakePicker) ChooseSaveLocation(name string) (string, bool) {
	fp.suggested = append(fp.suggested, name)

	return fp.saveTo, fp.saveTo != ""
}

type note struct {
	level checksum.Level
	msg   string
}

type notes []note

func (ns *notes) notifier() checksum.Notifier {
	return checksum.NotifierFunc(func(level checksum.Level, msg string) {
		*ns = append(*ns, note{level: level, msg: msg})
	})
}

func newController(
	tb testing.TB,
	pk checksum.Picker,
) (*checksum.Controller, *notes) {
	tb.Helper()

	ns := &notes{}

	ct, err := checksum.NewController(config.Default(), pk, ns.notifier())
	require.NoError(tb, err)

	return ct, ns
}

func TestNewController_defaults(t *testing.T) {
	t.Parallel()

	ct, _ := newController(t, &fakePicker{})

	assert.Equal(t, algorithm.MD5, ct.State.Algorithm)
	assert.Equal(t, detector.DefaultTable(), ct.Table)
	assert.Equal(t, record.DefaultFormat(), ct.Format)
}

func TestNewController_invalid_config(t *testing.T) {
	t.Parallel()

	_, err := checksum.NewController(
		config.Config{Algorithm: "nope"}, &fakePicker{}, nil,
	)

	require.ErrorIs(t, err, algorithm.ErrUnsupported)
}

func TestSelectTarget_cancel_keeps_state(t *testing.T) {
	t.Parallel()

	ct, ns := newController(t, &fakePicker{})
	ct.State.Target = "previous"

	assert.False(t, ct.SelectTarget())
	assert.Equal(t, "previous", ct.State.Target)
	assert.Empty(t, *ns)
}

func TestGenerateRecord_writes_and_notifies(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := writeTemp(t, dir, "a.txt", "")
	out := filepath.Join(dir, "out.md5")

	pk := &fakePicker{files: []string{target}, saveTo: out}
	ct, ns := newController(t, pk)

	require.True(t, ct.SelectTarget())

	got, err := ct.GenerateRecord()

	require.NoError(t, err)
	assert.Equal(t, out, got.Path)
	assert.Equal(t, emptyMD5, got.Digest)
	assert.Equal(t, []string{"a.txt.md5"}, pk.suggested)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "# Generated using md5\n"+emptyMD5+"  a.txt\n", string(raw))

	require.Len(t, *ns, 1)
	assert.Equal(t, checksum.LevelSuccess, (*ns)[0].level)
	assert.Equal(t, "MD5 file generated: "+out, (*ns)[0].msg)
}

func TestGenerateRecord_cancelled_save(t *testing.T) {
	t.Parallel()

	target := writeTemp(t, t.TempDir(), "a.txt", "x")

	ct, ns := newController(t, &fakePicker{})
	ct.State.Target = target

	got, err := ct.GenerateRecord()

	require.NoError(t, err)
	assert.Empty(t, got.Path)
	assert.NotEmpty(t, got.Digest)
	assert.Empty(t, *ns)
}

func TestGenerateRecord_without_target_warns(t *testing.T) {
	t.Parallel()

	ct, ns := newController(t, &fakePicker{})

	_, err := ct.GenerateRecord()

	require.ErrorIs(t, err, checksum.ErrNoSelection)
	require.Len(t, *ns, 1)
	assert.Equal(t, checksum.LevelWarning, (*ns)[0].level)
}

func TestGenerateRecord_missing_target_errors(t *testing.T) {
	t.Parallel()

	ct, ns := newController(t, &fakePicker{saveTo: "unused"})
	ct.State.Target = filepath.Join(t.TempDir(), "gone")

	_, err := ct.GenerateRecord()

	require.Error(t, err)
	assert.Equal(t, checksum.KindNotFound, checksum.Kind(err))
	require.Len(t, *ns, 1)
	assert.Equal(t, checksum.LevelError, (*ns)[0].level)
}

func TestSelectRecord_detects_algorithm(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := writeTemp(t, dir, "a.txt", "hello")
	rp := saveRecord(t, target, algorithm.SHA384)

	ct, ns := newController(t, &fakePicker{files: []string{rp}})

	require.NoError(t, ct.SelectRecord())

	assert.Equal(t, rp, ct.State.Record)
	assert.Equal(t, algorithm.SHA384, ct.State.Algorithm)
	require.Len(t, *ns, 1)
	assert.Equal(t, checksum.LevelInfo, (*ns)[0].level)
	assert.Contains(t, (*ns)[0].msg, "SHA384")
}

func TestSelectRecord_cancel(t *testing.T) {
	t.Parallel()

	ct, ns := newController(t, &fakePicker{})

	require.NoError(t, ct.SelectRecord())
	assert.Empty(t, ct.State.Record)
	assert.Empty(t, *ns)
}

func TestDetectAndApply_undetected_keeps_selection(t *testing.T) {
	t.Parallel()

	rp := writeTemp(t, t.TempDir(), "odd.sum", strings.Repeat("b", 48)+"  f\n")

	ct, ns := newController(t, &fakePicker{})
	ct.State.Algorithm = algorithm.SHA1
	ct.State.Record = rp

	_, err := ct.DetectAndApply()

	require.ErrorIs(t, err, detector.ErrUndetected)
	assert.Equal(t, algorithm.SHA1, ct.State.Algorithm)
	require.Len(t, *ns, 1)
	assert.Equal(t, checksum.LevelWarning, (*ns)[0].level)
}

func TestDetectAndApply_empty_record_errors(t *testing.T) {
	t.Parallel()

	rp := writeTemp(t, t.TempDir(), "empty.md5", "")

	ct, ns := newController(t, &fakePicker{})
	ct.State.Record = rp

	_, err := ct.DetectAndApply()

	require.ErrorIs(t, err, record.ErrMalformed)
	require.Len(t, *ns, 1)
	assert.Equal(t, checksum.LevelError, (*ns)[0].level)
}

func TestDetectAndApply_without_record_warns(t *testing.T) {
	t.Parallel()

	ct, ns := newController(t, &fakePicker{})

	_, err := ct.DetectAndApply()

	require.ErrorIs(t, err, checksum.ErrNoSelection)
	require.Len(t, *ns, 1)
	assert.Equal(t, checksum.LevelWarning, (*ns)[0].level)
}

func TestCompareRecord_match_and_mismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := writeTemp(t, dir, "a.txt", "")
	rp := saveRecord(t, target, algorithm.SHA256)

	ct, ns := newController(t, &fakePicker{files: []string{target, rp}})

	require.True(t, ct.SelectTarget())
	require.NoError(t, ct.SelectRecord())

	res, err := ct.CompareRecord()
	require.NoError(t, err)
	assert.True(t, res.Match)
	assert.Equal(t, note{checksum.LevelSuccess, "SHA256 values match"}, (*ns)[len(*ns)-1])

	require.NoError(t, os.WriteFile(target, []byte("tampered"), 0o600))

	res, err = ct.CompareRecord()
	require.NoError(t, err)
	assert.False(t, res.Match)
	assert.Equal(t, note{checksum.LevelError, "SHA256 values differ"}, (*ns)[len(*ns)-1])
}

func TestCompareRecord_requires_both_selections(t *testing.T) {
	t.Parallel()

	ct, ns := newController(t, &fakePicker{})
	ct.State.Target = "a.txt"

	_, err := ct.CompareRecord()

	require.ErrorIs(t, err, checksum.ErrNoSelection)
	require.Len(t, *ns, 1)
	assert.Equal(t, checksum.LevelWarning, (*ns)[0].level)
}

func TestCompareRecord_malformed_record(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ct, ns := newController(t, &fakePicker{})
	ct.State.Target = writeTemp(t, dir, "a.txt", "x")
	ct.State.Record = writeTemp(t, dir, "bad.md5", "# header only\n")

	_, err := ct.CompareRecord()

	require.ErrorIs(t, err, record.ErrMalformed)
	require.Len(t, *ns, 1)
	assert.Equal(t, checksum.LevelError, (*ns)[0].level)
}

func TestController_nil_notifier(t *testing.T) {
	t.Parallel()

	ct, err := checksum.NewController(config.Default(), &fakePicker{}, nil)
	require.NoError(t, err)

	_, err = ct.GenerateRecord()

	require.ErrorIs(t, err, checksum.ErrNoSelection)
}

func TestLevel_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "info", checksum.LevelInfo.String())
	assert.Equal(t, "success", checksum.LevelSuccess.String())
	assert.Equal(t, "warning", checksum.LevelWarning.String())
	assert.Equal(t, "error", checksum.LevelError.String())
	assert.Equal(t, "unknown", checksum.Level(42).String())
}
