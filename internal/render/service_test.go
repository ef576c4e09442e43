package render

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"payslip-studio/payslip-tools/internal/payslip"
	"payslip-studio/payslip-tools/internal/synth"
	"payslip-studio/payslip-tools/pkg/storage"
)

// MockSink is a mock implementation of the storage.Sink interface
type MockSink struct {
	mock.Mock
}

func (m *MockSink) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func newTestService(logger *zap.Logger) *Service {
	return NewService(NewPDFGenerator(DefaultPDFOptions()), logger)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b", "payslip_B_01_2025.json"), []byte("{}"))
	writeFile(t, filepath.Join(root, "a", "payslip_A_01_2025.json"), []byte("{}"))
	writeFile(t, filepath.Join(root, "a", "payslip_A_01_2025.pdf"), []byte("%PDF"))
	writeFile(t, filepath.Join(root, "a", "notes.json"), []byte("{}"))
	writeFile(t, filepath.Join(root, "old_payslip_C.json"), []byte("{}"))

	elsewhere := t.TempDir()
	target := filepath.Join(elsewhere, "record.json")
	writeFile(t, target, []byte("{}"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "c"), 0755))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "c", "payslip_link_01_2025.json")))
	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "missing.json"), filepath.Join(root, "c", "payslip_gone_01_2025.json")))
	require.NoError(t, os.Symlink(elsewhere, filepath.Join(root, "c", "payslip_dir_01_2025.json")))

	files, err := Discover(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "payslip_A_01_2025.json"),
		filepath.Join(root, "b", "payslip_B_01_2025.json"),
		filepath.Join(root, "c", "payslip_link_01_2025.json"),
		filepath.Join(root, "old_payslip_C.json"),
	}, files)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), nil)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDiscover_SkipsUnreadableEntries(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "employee_1")
	writeFile(t, filepath.Join(sub, "payslip_A_01_2025.json"), []byte("{}"))

	core, logs := observer.New(zap.WarnLevel)
	w := &walker{root: root, logger: zap.New(core)}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, fs.SkipDir, w.visit(sub, entries[0], fs.ErrPermission))
	assert.NoError(t, w.visit(filepath.Join(sub, "payslip_gone.json"), nil, fs.ErrNotExist))
	assert.ErrorIs(t, w.visit(root, nil, fs.ErrPermission), fs.ErrPermission)
	assert.Empty(t, w.files)
	assert.Equal(t, 2, logs.FilterMessage("Skipping unreadable entry").Len())
}

func TestRun_UnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	input := t.TempDir()
	writeFile(t, filepath.Join(input, "employee_1", "payslip_A_01_2025.json"), referenceJSON(t, 1))
	locked := filepath.Join(input, "employee_2")
	writeFile(t, filepath.Join(locked, "payslip_B_01_2025.json"), referenceJSON(t, 1))
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	sink, err := storage.NewFileSink(filepath.Join(t.TempDir(), "pdf"), nil)
	require.NoError(t, err)

	summary, err := newTestService(nil).Run(context.Background(), RunOptions{InputDir: input, Sink: sink})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Succeeded)
}

func TestRun_SymlinkedPayslip(t *testing.T) {
	input := t.TempDir()
	target := filepath.Join(t.TempDir(), "record.json")
	writeFile(t, target, referenceJSON(t, 1))
	require.NoError(t, os.Symlink(target, filepath.Join(input, "payslip_link_01_2025.json")))

	output := t.TempDir()
	sink, err := storage.NewFileSink(output, nil)
	require.NoError(t, err)

	summary, err := newTestService(nil).Run(context.Background(), RunOptions{InputDir: input, Sink: sink})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.FileExists(t, filepath.Join(output, "payslip_link_01_2025.pdf"))
}

func TestOutputKey(t *testing.T) {
	key, err := OutputKey("in", filepath.Join("in", "employee_1", "payslip_A_01_2025.json"))
	require.NoError(t, err)
	assert.Equal(t, "employee_1/payslip_A_01_2025.pdf", key)
}

func TestRun_MixedBatch(t *testing.T) {
	input := t.TempDir()
	for i, month := range []int{1, 2, 3} {
		writeFile(t, filepath.Join(input, "employee_1", "payslip_Jürgen_Özdemir_0"+string(rune('1'+i))+"_2025.json"), referenceJSON(t, month))
	}
	writeFile(t, filepath.Join(input, "employee_2", "payslip_Broken_01_2025.json"), []byte("{not json"))

	output := filepath.Join(t.TempDir(), "pdf")
	sink, err := storage.NewFileSink(output, nil)
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	summary, err := newTestService(zap.New(core)).Run(context.Background(), RunOptions{InputDir: input, Sink: sink})
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Processed)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.FailuresByKind[payslip.KindParse])
	assert.Equal(t, "10228.68", summary.PayoutTotal.String())
	assert.NotEqual(t, uuid.Nil, summary.RunID)

	for _, r := range summary.Results[:3] {
		require.Nil(t, r.Failure)
		data, err := os.ReadFile(r.Output)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
		assert.Equal(t, filepath.Join(output, "employee_1"), filepath.Dir(r.Output))
	}
	assert.NoFileExists(t, filepath.Join(output, "employee_2", "payslip_Broken_01_2025.pdf"))

	assert.Equal(t, 3, logs.FilterMessage("Generated PDF").Len())
	failures := logs.FilterMessage("Error processing file").All()
	require.Len(t, failures, 1)
	assert.Equal(t, "parse", failures[0].ContextMap()["kind"])
	assert.Contains(t, failures[0].ContextMap()["file"], "payslip_Broken_01_2025.json")
	complete := logs.FilterMessage("PDF generation complete").All()
	require.Len(t, complete, 1)
	assert.EqualValues(t, 4, complete[0].ContextMap()["processed"])

	rows := summary.ReportRows()
	require.Len(t, rows, 4)
	assert.Equal(t, "failed", rows[3][2])
	assert.Equal(t, "parse", rows[3][3])
}

func TestRun_OutputNextToSource(t *testing.T) {
	input := t.TempDir()
	source := filepath.Join(input, "employee_1", "payslip_A_05_2025.json")
	writeFile(t, source, referenceJSON(t, 5))

	sink, err := storage.NewFileSink(input, nil)
	require.NoError(t, err)

	summary, err := newTestService(nil).Run(context.Background(), RunOptions{InputDir: input, Sink: sink})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Succeeded)
	assert.FileExists(t, filepath.Join(input, "employee_1", "payslip_A_05_2025.pdf"))
}

func TestRun_FailureKinds(t *testing.T) {
	input := t.TempDir()
	writeFile(t, filepath.Join(input, "payslip_array.json"), []byte("[1, 2]"))

	noKto := strings.Replace(string(referenceJSON(t, 1)), `"Kto"`, `"Konto"`, 1)
	writeFile(t, filepath.Join(input, "payslip_no_kto.json"), []byte(noKto))
	writeFile(t, filepath.Join(input, "payslip_ok.json"), referenceJSON(t, 1))

	sink := new(MockSink)
	sink.On("Put", mock.Anything, "payslip_ok.pdf", mock.Anything, storage.ContentTypePDF).
		Return("", errors.New("disk full"))

	summary, err := newTestService(nil).Run(context.Background(), RunOptions{InputDir: input, Sink: sink})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Failed)
	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, map[payslip.FailureKind]int{
		payslip.KindParse: 1,
		payslip.KindField: 1,
		payslip.KindIO:    1,
	}, summary.FailuresByKind)

	byName := map[string]*payslip.Failure{}
	for _, r := range summary.Results {
		byName[filepath.Base(r.Source)] = r.Failure
	}
	assert.ErrorIs(t, byName["payslip_array.json"], payslip.ErrNotObject)
	assert.Contains(t, byName["payslip_no_kto.json"].Error(), "zahlungsdetails.Kto")
	assert.Equal(t, payslip.KindIO, byName["payslip_ok.json"].Kind)
	sink.AssertExpectations(t)
}

func TestRun_MissingInputDir(t *testing.T) {
	sink, err := storage.NewFileSink(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = newTestService(nil).Run(context.Background(), RunOptions{
		InputDir: filepath.Join(t.TempDir(), "missing"),
		Sink:     sink,
	})
	assert.Error(t, err)
}

func TestRun_CancelledContext(t *testing.T) {
	input := t.TempDir()
	writeFile(t, filepath.Join(input, "payslip_ok.json"), referenceJSON(t, 1))
	sink, err := storage.NewFileSink(input, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := newTestService(nil).Run(ctx, RunOptions{InputDir: input, Sink: sink})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Processed)
}

func TestRun_RendersSynthesizedDataset(t *testing.T) {
	dir := t.TempDir()
	sink, err := storage.NewFileSink(dir, nil)
	require.NoError(t, err)

	gen := synth.NewGenerator(gofakeit.New(2025), nil, synth.WithClock(func() time.Time {
		return time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	}))
	dataset, err := gen.Generate(context.Background(), sink, synth.Options{Employees: 3, Months: 2})
	require.NoError(t, err)

	summary, err := newTestService(nil).Run(context.Background(), RunOptions{InputDir: dir, Sink: sink})
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Processed)
	assert.Zero(t, summary.Failed)

	expected := 0.0
	for _, e := range dataset.Entries {
		expected += e.Payout
	}
	assert.InDelta(t, expected, summary.PayoutTotal.InexactFloat64(), 0.001)
}
