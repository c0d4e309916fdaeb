package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a command-line flag for completion scripts.
// Every generator reads flagRegistry, so a new flag only needs an entry
// there.
type FlagCompletion struct {
	Long      string   // long flag name without dashes
	Short     string   // short flag name without dash
	Help      string   // description text
	Values    []string // suggested values; nil for booleans and free values
	ValueName string   // value label in zsh; empty for booleans
	IsFile    bool     // the value is a path
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "level", Help: "Level N to search", ValueName: "level"},
	{Long: "max-len", Help: "Maximum tuple length", Values: []string{"3", "4", "5", "6", "7"}, ValueName: "length"},
	{Long: "plan", Help: "YAML plan of runs", IsFile: true, ValueName: "file"},
	{Long: "tables", Help: "Tables output file", IsFile: true, ValueName: "file"},
	{Long: "output", Short: "o", Help: "Candidates output file", IsFile: true, ValueName: "file"},
	{Long: "workers", Help: "Units running at once per wave", ValueName: "count"},
	{Long: "quiet", Short: "q", Help: "Quiet mode for scripts"},
	{Long: "verbose", Short: "v", Help: "Per-rule statistics"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "metrics-addr", Help: "Prometheus metrics address", ValueName: "address"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion writes the completion script for shell ("bash", "zsh"
// or "fish") to out.
func GenerateCompletion(out io.Writer, shell string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion()
	case "zsh":
		script = zshCompletion()
	case "fish":
		script = fishCompletion()
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func bashCompletion() string {
	var opts, files []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		if f.Long != "" {
			opts = append(opts, "-"+f.Long)
		}
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
		switch {
		case f.IsFile:
			files = append(files, "-"+f.Long)
			if f.Short != "" {
				files = append(files, "-"+f.Short)
			}
		case len(f.Values) > 0:
			fmt.Fprintf(&cases, "        -%s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				f.Long, strings.Join(f.Values, " "))
		}
	}
	if len(files) > 0 {
		fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n",
			strings.Join(files, "|"))
	}

	return fmt.Sprintf(`# Bash completion script for cassels
# Add this to your ~/.bashrc or ~/.bash_completion

_cassels_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _cassels_completions cassels
`, strings.Join(opts, " "), cases.String())
}

func zshCompletion() string {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	return fmt.Sprintf(`#compdef cassels

# Zsh completion script for cassels
# Add this to your ~/.zshrc or place in $fpath

_cassels() {
    _arguments -s \
%s
}

_cassels "$@"
`, strings.Join(args, " \\\n"))
}

// zshArgEntry formats f as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	var value string
	switch {
	case f.IsFile:
		value = fmt.Sprintf(":%s:_files", f.ValueName)
	case len(f.Values) > 0:
		value = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		value = fmt.Sprintf(":%s:", f.ValueName)
	}
	if f.Short != "" {
		return fmt.Sprintf("        '(-%s -%s)'{-%s,-%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, f.Help, value)
	}
	return fmt.Sprintf("        '-%s[%s]%s'", f.Long, f.Help, value)
}

func fishCompletion() string {
	lines := []string{
		"# Fish completion script for cassels",
		"# Add this to ~/.config/fish/completions/cassels.fish",
		"",
		"complete -c cassels -f",
	}
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f))
	}
	return strings.Join(lines, "\n") + "\n"
}

// fishCompleteLine formats f as a fish complete command. Go flags take a
// single dash, which fish spells -o.
func fishCompleteLine(f FlagCompletion) string {
	parts := []string{"complete -c cassels", "-o " + f.Long}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))
	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}
