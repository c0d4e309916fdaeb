package cli

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		shell    string
		contains []string
	}{
		{"bash", []string{"complete -F _cassels_completions cassels", "-max-len", "compgen -f", `"bash zsh fish"`}},
		{"zsh", []string{"#compdef cassels", "'-plan[YAML plan of runs]:file:_files'", "{-o,-output}"}},
		{"fish", []string{"complete -c cassels -o log-level", "-xa 'debug info warn error'", "-o plan", "-rF"}},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var b strings.Builder
			if err := GenerateCompletion(&b, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion(%q): %v", tt.shell, err)
			}
			for _, s := range tt.contains {
				if !strings.Contains(b.String(), s) {
					t.Errorf("%s script missing %q", tt.shell, s)
				}
			}
		})
	}
}

func TestGenerateCompletion_ListsEveryFlag(t *testing.T) {
	t.Parallel()
	var b strings.Builder
	if err := GenerateCompletion(&b, "bash"); err != nil {
		t.Fatal(err)
	}
	for _, f := range flagRegistry {
		if !strings.Contains(b.String(), "-"+f.Long) {
			t.Errorf("bash script does not offer -%s", f.Long)
		}
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()
	if err := GenerateCompletion(&strings.Builder{}, "tcsh"); err == nil {
		t.Error("expected an error for tcsh")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestGenerateCompletion_WriteError(t *testing.T) {
	t.Parallel()
	if err := GenerateCompletion(failingWriter{}, "zsh"); err == nil {
		t.Error("expected the write error to be returned")
	}
}
