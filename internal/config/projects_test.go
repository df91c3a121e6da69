package config

import "testing"

func TestProjectFilter(t *testing.T) {
	paths := Paths{Home: "/home/dev"}
	f := NewProjectFilter(paths, []string{"~/scratch", "/tmp/**", "/work/*-sandbox", ""})

	tests := []struct {
		cwd  string
		want bool
	}{
		{"", false},
		{"/home/dev/scratch", true},
		{"/home/dev/scratch/app/sub", true},
		{"/home/dev/scratchpad", false},
		{"/tmp/x/y", true},
		{"/work/api-sandbox", true},
		{"/work/api", false},
		{"/home/dev/code/app/", false},
	}
	for _, tc := range tests {
		if got := f.Ignored(tc.cwd); got != tc.want {
			t.Errorf("Ignored(%q) = %v, want %v", tc.cwd, got, tc.want)
		}
	}
}

func TestProjectFilterNil(t *testing.T) {
	var f *ProjectFilter
	if f.Ignored("/anything") {
		t.Error("nil filter should ignore nothing")
	}
}

func TestPathsExpand(t *testing.T) {
	p := Paths{Home: "/home/dev"}
	if got := p.Expand("~/x/y"); got != "/home/dev/x/y" {
		t.Errorf("Expand = %q", got)
	}
	if got := p.Expand("~"); got != "/home/dev" {
		t.Errorf("Expand(~) = %q", got)
	}
	if got := p.Expand("/abs"); got != "/abs" {
		t.Errorf("Expand(/abs) = %q", got)
	}
	if got := p.UserSettingsPath(); got != "/home/dev/.claude/settings.json" {
		t.Errorf("UserSettingsPath = %q", got)
	}
}
