package main

import "testing"

func TestDefaultOutput(t *testing.T) {
	tests := map[string]string{
		"sci/x/spec1d_ALDh100040.fits": "spec1d_ALDh100040_snr.png",
		"coadd.fits":                   "coadd_snr.png",
		"noext":                        "noext_snr.png",
	}
	for in, expected := range tests {
		if got := defaultOutput(in); got != expected {
			t.Errorf("defaultOutput(%s) = %s, expected %s", in, got, expected)
		}
	}
}
