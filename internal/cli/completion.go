package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/gctrace/internal/config"
	"github.com/agbru/gctrace/internal/gctrace"
)

// programName is the command completions are registered for.
const programName = "gctrace"

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell completion functions generate from this registry, so adding
// a new flag only requires appending to flagRegistry.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "help")
	Short     string   // short flag without "-" (e.g., "h")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "number", "file")
	IsFile    bool     // true if the flag takes a file path
	Section   string   // fish comment section
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message", Section: "Help and version"},
	{Long: "version", Short: "V", Help: "Show version information", Section: "Help and version"},
	{Long: "gogc", Help: "Growth percentage for goal heap computation", Values: []string{config.GOGCOff, "50", "100", "200"}, ValueName: "percent", Section: "Parsing"},
	{Long: "forced", Help: "Include forced GC cycles", Section: "Parsing"},
	{Long: "dialect", Help: "Trace grammar", Values: gctrace.Dialects(), ValueName: "dialect", Section: "Parsing"},
	{Long: "jobs", Short: "j", Help: "Files parsed concurrently", ValueName: "number", Section: "Parsing"},
	{Long: "format", Short: "f", Help: "Output format", Values: config.Formats, ValueName: "format", Section: "Output"},
	{Long: "output", Short: "o", Help: "Output file path", IsFile: true, ValueName: "file", Section: "Output"},
	{Long: "metrics-file", Help: "Prometheus metrics file", IsFile: true, ValueName: "file", Section: "Output"},
	{Long: "quiet", Short: "q", Help: "Quiet mode for scripts", Section: "Output"},
	{Long: "verbose", Short: "v", Help: "Log skipped lines", Section: "Output"},
	{Long: "no-color", Help: "Disable colored output", Section: "Output"},
	{Long: "theme", Help: "Color scheme", Values: config.Themes, ValueName: "theme", Section: "Output"},
	{Long: "completion", Help: "Generate completion script", Values: config.CompletionShells, ValueName: "shell", Section: "Completion"},
}

// GenerateCompletion writes a completion script for shell to out.
// Accepted shells are bash, zsh, fish and powershell (or ps).
func GenerateCompletion(out io.Writer, shell string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out)
	case "zsh":
		return generateZshCompletion(out)
	case "fish":
		return generateFishCompletion(out)
	case "powershell", "ps":
		return generatePowerShellCompletion(out)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: %s)", shell, strings.Join(config.CompletionShells, ", "))
	}
}

// flagNames returns the dashed spellings of f, long first.
func flagNames(f FlagCompletion) []string {
	var names []string
	if f.Long != "" {
		names = append(names, "--"+f.Long)
	}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func generateBashCompletion(out io.Writer) error {
	var opts []string
	for _, f := range flagRegistry {
		opts = append(opts, flagNames(f)...)
	}

	var caseBody strings.Builder
	writeCase := func(patterns []string, body string) {
		fmt.Fprintf(&caseBody, "        %s)\n            %s\n            return 0\n            ;;\n",
			strings.Join(patterns, "|"), body)
	}

	// Value flags first, then all file flags share one entry.
	var filePatterns []string
	for _, f := range flagRegistry {
		switch {
		case f.IsFile:
			filePatterns = append(filePatterns, flagNames(f)...)
		case len(f.Values) > 0:
			writeCase(flagNames(f), fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " ")))
		}
	}
	if len(filePatterns) > 0 {
		writeCase(filePatterns, `COMPREPLY=( $(compgen -f -- "${cur}") )`)
	}

	script := fmt.Sprintf(`# Bash completion script for %[1]s
# Add this to your ~/.bashrc or ~/.bash_completion

_%[1]s_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%[2]s"

    case "${prev}" in
%[3]s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi

    # Trace files
    COMPREPLY=( $(compgen -f -- "${cur}") )
}

complete -F _%[1]s_completions %[1]s
`, programName, strings.Join(opts, " "), caseBody.String())

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

func generateZshCompletion(out io.Writer) error {
	var args []string
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	args = append(args, "        '*:trace file:_files'")

	script := fmt.Sprintf(`#compdef %[1]s

# Zsh completion script for %[1]s
# Add this to your ~/.zshrc or place in $fpath

_%[1]s() {
    _arguments -s \
%[2]s
}

_%[1]s "$@"
`, programName, strings.Join(args, " \\\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Long != "" && f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	if f.Long != "" {
		return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '-%s[%s]%s'", f.Short, f.Help, valueSuffix)
}

func generateFishCompletion(out io.Writer) error {
	lines := []string{
		"# Fish completion script for " + programName,
		"# Add this to ~/.config/fish/completions/" + programName + ".fish",
		"",
	}

	section := ""
	for _, f := range flagRegistry {
		if f.Section != section {
			if section != "" {
				lines = append(lines, "")
			}
			section = f.Section
			lines = append(lines, "# "+section)
		}
		lines = append(lines, fishCompleteLine(f))
	}
	lines = append(lines, "")

	if _, err := fmt.Fprint(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion) string {
	parts := []string{"complete -c " + programName}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	if f.Long != "" {
		parts = append(parts, "-l "+f.Long)
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

func generatePowerShellCompletion(out io.Writer) error {
	var optionEntries []string
	for _, f := range flagRegistry {
		for _, name := range flagNames(f) {
			optionEntries = append(optionEntries, fmt.Sprintf(
				"        @{Name = '%s'; Description = '%s' }", name, f.Help))
		}
	}

	var switchEntries []string
	for _, f := range flagRegistry {
		if f.IsFile || len(f.Values) == 0 {
			continue
		}
		quoted := make([]string, len(f.Values))
		for i, v := range f.Values {
			quoted[i] = "'" + v + "'"
		}
		for _, name := range flagNames(f) {
			switchEntries = append(switchEntries, fmt.Sprintf(`        '%s' {
            @(%s) | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }`, name, strings.Join(quoted, ", ")))
		}
	}

	script := fmt.Sprintf(`# PowerShell completion script for %[1]s
# Add this to your $PROFILE

Register-ArgumentCompleter -CommandName '%[1]s' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
%[2]s
    )

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    switch ($prevElement) {
%[3]s
    }

    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`, programName, strings.Join(optionEntries, "\n"), strings.Join(switchEntries, "\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion powershell generation failed: %w", err)
	}
	return nil
}
