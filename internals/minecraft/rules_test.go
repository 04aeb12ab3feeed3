package minecraft

import "testing"

func TestRule_matchesFor(t *testing.T) {
	type fields struct {
		Action   string
		OS       OS
		Features map[string]bool
	}
	type args struct {
		os       string
		arch     string
		features map[string]bool
	}
	tests := []struct {
		name   string
		fields fields
		args   args
		want   bool
	}{
		{
			name:   "allow empty",
			fields: fields{Action: "allow"},
			args:   args{os: "linux", arch: "x86"},
			want:   true,
		},
		{
			name:   "default action is allow",
			fields: fields{OS: OS{Name: "linux"}},
			args:   args{os: "linux", arch: "x86"},
			want:   true,
		},
		{
			name:   "allow os",
			fields: fields{Action: "allow", OS: OS{Name: "linux"}},
			args:   args{os: "linux", arch: "x86"},
			want:   true,
		},
		{
			name:   "allow os mismatch",
			fields: fields{Action: "allow", OS: OS{Name: "osx"}},
			args:   args{os: "linux", arch: "x86"},
			want:   false,
		},
		{
			name:   "allow normalizes darwin",
			fields: fields{Action: "allow", OS: OS{Name: "osx"}},
			args:   args{os: "darwin", arch: "amd64"},
			want:   true,
		},
		{
			name:   "allow arch alias",
			fields: fields{Action: "allow", OS: OS{Arch: "x64"}},
			args:   args{os: "linux", arch: "amd64"},
			want:   true,
		},
		{
			name:   "allow arch mismatch",
			fields: fields{Action: "allow", OS: OS{Arch: "x86"}},
			args:   args{os: "linux", arch: "amd64"},
			want:   false,
		},
		{
			// unknown os names never match
			name:   "allow unknown os is conservative",
			fields: fields{Action: "allow", OS: OS{Name: "solaris"}},
			args:   args{os: "linux", arch: "amd64"},
			want:   false,
		},
		{
			// unknown arch names always match. this asymmetry is intentional:
			// it avoids excluding libraries on platforms newer than the descriptor
			name:   "allow unknown arch is permissive",
			fields: fields{Action: "allow", OS: OS{Arch: "riscv64"}},
			args:   args{os: "linux", arch: "amd64"},
			want:   true,
		},
		{
			name:   "disallow empty",
			fields: fields{Action: "disallow"},
			args:   args{os: "linux", arch: "x86"},
			want:   false,
		},
		{
			name:   "disallow os match",
			fields: fields{Action: "disallow", OS: OS{Name: "linux"}},
			args:   args{os: "linux", arch: "x86"},
			want:   false,
		},
		{
			name:   "disallow os mismatch",
			fields: fields{Action: "disallow", OS: OS{Name: "osx"}},
			args:   args{os: "linux", arch: "x86"},
			want:   true,
		},
		{
			name:   "feature match",
			fields: fields{Action: "allow", Features: map[string]bool{"is_demo_user": true}},
			args:   args{os: "linux", arch: "x86", features: map[string]bool{"is_demo_user": true}},
			want:   true,
		},
		{
			name:   "feature mismatch",
			fields: fields{Action: "allow", Features: map[string]bool{"is_demo_user": true}},
			args:   args{os: "linux", arch: "x86", features: map[string]bool{"is_demo_user": false}},
			want:   false,
		},
		{
			name:   "missing feature map is a mismatch",
			fields: fields{Action: "allow", Features: map[string]bool{"has_custom_resolution": true}},
			args:   args{os: "linux", arch: "x86"},
			want:   false,
		},
		{
			name:   "disallow flips feature mismatch",
			fields: fields{Action: "disallow", Features: map[string]bool{"is_demo_user": true}},
			args:   args{os: "linux", arch: "x86"},
			want:   true,
		},
		{
			name:   "version predicate without os version",
			fields: fields{Action: "allow", OS: OS{Name: "windows", Version: `^10\.`}},
			args:   args{os: "windows", arch: "amd64"},
			want:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Rule{
				Action:   tt.fields.Action,
				OS:       tt.fields.OS,
				Features: tt.fields.Features,
			}
			if got := r.matchesFor(tt.args.os, tt.args.arch, "", tt.args.features); got != tt.want {
				t.Errorf("Rule.matchesFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRule_matchesForVersion(t *testing.T) {
	r := Rule{Action: "allow", OS: OS{Name: "windows", Version: `^10\.`}}
	if !r.matchesFor("windows", "amd64", "10.0.19045", nil) {
		t.Error("expected version regex to match")
	}
	if r.matchesFor("windows", "amd64", "6.1.7601", nil) {
		t.Error("expected version regex to not match")
	}
}
