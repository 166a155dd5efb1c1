package runner

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestCommandLine(t *testing.T) {
	got := CommandLine("pypeit_flux_calib", "fluxcal.0.para")
	if got != "pypeit_flux_calib fluxcal.0.para" {
		t.Errorf("CommandLine() = %q", got)
	}
	if got := CommandLine("true"); got != "true" {
		t.Errorf("CommandLine() = %q", got)
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	var run Runner = r
	if err := run.Run(context.Background(), "pypeit_sensfunc", "-s", "etc/sensfunc.par"); err != nil {
		t.Fatal(err)
	}
	expected := []Call{{Name: "pypeit_sensfunc", Args: []string{"-s", "etc/sensfunc.par"}}}
	if !reflect.DeepEqual(r.Calls, expected) {
		t.Errorf("Calls = %v, expected %v", r.Calls, expected)
	}

	boom := errors.New("boom")
	r.Err = boom
	if err := run.Run(context.Background(), "x"); !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, expected %v", err, boom)
	}
}

func TestExecMissingBinary(t *testing.T) {
	err := Exec{}.Run(context.Background(), "specred-no-such-binary-xyz")
	if err == nil {
		t.Error("expected error for missing binary")
	}
}
