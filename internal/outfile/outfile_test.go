package outfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "combined.fits")
	if err := os.WriteFile(existing, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "new.fits")

	tests := []struct {
		name       string
		path       string
		overwrite  bool
		wantExists bool
		wantErr    bool
	}{
		{name: "missing", path: missing, wantExists: false},
		{name: "missing with overwrite", path: missing, overwrite: true, wantExists: false},
		{name: "existing", path: existing, wantExists: true, wantErr: true},
		{name: "existing with overwrite", path: existing, overwrite: true, wantExists: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := Check(tt.path, tt.overwrite)
			if exists != tt.wantExists {
				t.Errorf("Check() exists = %v, expected %v", exists, tt.wantExists)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrDestinationExists) {
					t.Errorf("Check() error = %v, expected ErrDestinationExists", err)
				}
				var ee *ExistsError
				if !errors.As(err, &ee) || ee.Path != tt.path {
					t.Errorf("Check() error does not carry the path")
				}
			} else if err != nil {
				t.Errorf("Check() unexpected error = %v", err)
			}
		})
	}
}

func TestNextFree(t *testing.T) {
	dir := t.TempDir()
	pattern := filepath.Join(dir, "fluxcal.%d.para")

	if got := NextFree(pattern); got != filepath.Join(dir, "fluxcal.0.para") {
		t.Errorf("NextFree() = %s, expected fluxcal.0.para", got)
	}

	for _, name := range []string{"fluxcal.0.para", "fluxcal.1.para", "fluxcal.3.para"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if got := NextFree(pattern); got != filepath.Join(dir, "fluxcal.2.para") {
		t.Errorf("NextFree() = %s, expected fluxcal.2.para", got)
	}
}
