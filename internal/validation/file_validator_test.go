package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfmpulse/internal/shared/testutil"
)

func TestFileValidator_ValidateWorkbook(t *testing.T) {
	dir := t.TempDir()
	write := func(name string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "xlsx", path: write("Data Penjualan.xlsx")},
		{name: "upper case extension", path: write("ADS.XLSX")},
		{name: "macro workbook", path: write("ads.xlsm")},
		{name: "missing", path: filepath.Join(dir, "missing.xlsx"), wantErr: "does not exist"},
		{name: "directory", path: dir, wantErr: "is a directory"},
		{name: "csv", path: write("sales.csv"), wantErr: "not an Excel workbook"},
		{name: "lock file", path: write("~$sales.xlsx"), wantErr: "lock file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			err := NewFileValidator(logger).ValidateWorkbook(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestFileValidator_ValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	v := NewFileValidator(nil)
	assert.NoError(t, v.ValidateDirectory(dir))
	assert.ErrorContains(t, v.ValidateDirectory(file), "not a directory")
	assert.ErrorContains(t, v.ValidateDirectory(filepath.Join(dir, "nope")), "does not exist")
}

func TestFileValidator_EnsureWritableDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "q3")

	require.NoError(t, NewFileValidator(nil).EnsureWritableDirectory(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file must be removed")
}
