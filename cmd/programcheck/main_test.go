package main

import "testing"

func TestCheckValidateFlags(t *testing.T) {
	cases := []struct {
		input   string
		kbFile  string
		learn   bool
		wantErr bool
	}{
		{input: "Lunes\nCLAMO1"},
		{input: "Lunes\nCLAMO1", learn: true},
		{input: "Lunes\nCLAMO1", kbFile: "kb.txt"},
		{input: "Lunes\nCLAMO1", kbFile: "kb.txt", learn: true, wantErr: true},
		{input: "  ", wantErr: true},
	}
	for _, tc := range cases {
		err := checkValidateFlags(tc.input, tc.kbFile, tc.learn)
		if (err != nil) != tc.wantErr {
			t.Fatalf("input=%q kb=%q learn=%t err=%v", tc.input, tc.kbFile, tc.learn, err)
		}
	}
}
